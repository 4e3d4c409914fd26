package handlers

import (
	"photoframer/auth"
	"photoframer/imagetoken"
	"photoframer/storage"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles the dependencies the handlers need. Everything is passed in
// from main - no package-level state.
type API struct {
	DB       *gorm.DB
	Store    *storage.Layout
	Tokens   *imagetoken.Service
	Sessions *auth.Sessions
}

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	AuthRequiredResponse = Response{"Authentication required"}
	AccessDeniedResponse = Response{"Access denied"}
	NotFoundResponse     = Response{"Not found"}
	BadTokenResponse     = Response{"Invalid or expired token"}
)

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
