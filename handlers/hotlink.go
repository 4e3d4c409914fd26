package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// HotlinkProtection rejects thumbnail requests whose Referer points at a
// site we don't serve. Requests without a referer pass - browsers strip
// it in plenty of legitimate cases - but get logged.
func HotlinkProtection(allowedHosts []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		referer := c.Request.Referer()
		if referer == "" {
			log.Printf("No referer for %s from %s", c.Request.URL.Path, c.ClientIP())
			c.Next()
			return
		}
		parsed, err := url.Parse(referer)
		if err != nil || !refererAllowed(parsed.Hostname(), c.Request.Host, allowedHosts) {
			c.AbortWithStatusJSON(http.StatusForbidden, Response{"Hotlinking is not allowed"})
			return
		}
		c.Next()
	}
}

func refererAllowed(refererHost, requestHost string, allowedHosts []string) bool {
	if refererHost == "" {
		return false
	}
	if h, _, found := strings.Cut(requestHost, ":"); found {
		requestHost = h
	}
	if strings.EqualFold(refererHost, requestHost) {
		return true
	}
	for _, host := range allowedHosts {
		if strings.EqualFold(refererHost, host) ||
			strings.HasSuffix(strings.ToLower(refererHost), "."+strings.ToLower(host)) {
			return true
		}
	}
	return false
}
