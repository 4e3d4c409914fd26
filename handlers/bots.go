package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Scrapers, download tools and AI crawlers that have no business pulling
// thumbnails. Matched as substrings, case-insensitively.
var blockedAgents = []string{
	"curl",
	"wget",
	"python-requests",
	"python-urllib",
	"scrapy",
	"httpx",
	"aiohttp",
	"img2dataset",
	"ccbot",
	"gptbot",
	"chatgpt",
	"google-extended",
	"anthropic-ai",
	"claudebot",
	"bytespider",
	"petalbot",
	"facebookbot",
	"applebot-extended",
	"omgilibot",
	"perplexitybot",
}

// Search engine crawlers stay welcome even when their UA would otherwise
// trip a blocked substring.
var allowedAgents = []string{
	"googlebot",
	"bingbot",
	"duckduckbot",
}

// BlockBadBots filters thumbnail traffic by User-Agent. Missing UAs pass
// but get logged, same as missing referers in the hotlink check.
func BlockBadBots() gin.HandlerFunc {
	return func(c *gin.Context) {
		agent := c.Request.UserAgent()
		if agent == "" {
			log.Printf("No user agent for %s from %s", c.Request.URL.Path, c.ClientIP())
			c.Next()
			return
		}
		if userAgentBlocked(agent) {
			c.AbortWithStatusJSON(http.StatusForbidden, Response{"Access denied"})
			return
		}
		c.Next()
	}
}

func userAgentBlocked(agent string) bool {
	agent = strings.ToLower(agent)
	for _, allowed := range allowedAgents {
		if strings.Contains(agent, allowed) {
			return false
		}
	}
	for _, blocked := range blockedAgents {
		if strings.Contains(agent, blocked) {
			return true
		}
	}
	return false
}
