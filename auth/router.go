package auth

import (
	"net/http"
	"photoframer/models"

	"github.com/gin-gonic/gin"
)

// HandlerFunc receives the authenticated user with at least the required role
type HandlerFunc func(c *gin.Context, user *models.User)

// Router is a wrapper that adds auth checks + User pre-loading
type Router struct {
	Base     *gin.RouterGroup
	Sessions *Sessions
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, required models.Role) {
	user := cr.Sessions.Load(c).User()
	if user.ID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	if !user.HasRole(required) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}
	handler(c, &user)
}

func (cr *Router) GET(path string, handler HandlerFunc, required models.Role) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) POST(path string, handler HandlerFunc, required models.Role) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) PUT(path string, handler HandlerFunc, required models.Role) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) DELETE(path string, handler HandlerFunc, required models.Role) {
	cr.Base.DELETE(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}
