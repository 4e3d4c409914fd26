package auth

import (
	"photoframer/models"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	userIdKey = "id"

	// Sliding expiration: the cookie is refreshed on every authenticated
	// request.
	SessionMaxAge = 24 * 3600
)

// Sessions resolves the acting user for a request. It holds the DB handle
// so nothing below it needs package state.
type Sessions struct {
	DB *gorm.DB
}

type Session struct {
	sessions.Session
	db *gorm.DB
}

func (s *Sessions) Load(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
		db:      s.DB,
	}
}

func (s *Session) LoginUser(user *models.User) {
	s.Set(userIdKey, user.ID)
	s.Options(sessions.Options{Path: "/", MaxAge: SessionMaxAge, HttpOnly: true})
	_ = s.Save()
	s.db.Model(user).UpdateColumn("last_login_at", time.Now().Unix())
}

func (s *Session) LogoutUser() {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = s.Save()
}

// User returns the session's user, or a zero User (ID 0) for anonymous
// requests and deactivated accounts. A successful lookup slides the
// cookie expiry forward.
func (s *Session) User() (user models.User) {
	id := s.Get(userIdKey)
	if id == nil {
		return
	}
	user.ID, _ = id.(uint64)
	if user.ID == 0 {
		return
	}
	if s.db.First(&user).Error != nil || !user.Active {
		return models.User{}
	}
	s.Options(sessions.Options{Path: "/", MaxAge: SessionMaxAge, HttpOnly: true})
	_ = s.Save()
	return
}
