package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"photoframer/models"
	"regexp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	emailMaxLen    = 254 // RFC 5321
	passwordMinLen = 8
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserCreateRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type UserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

func userInfoFrom(u *models.User) UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role.String(),
		Active:   u.Active,
	}
}

func validateUsername(username string) string {
	if len(username) < usernameMinLen {
		return fmt.Sprintf("Username must be at least %d characters", usernameMinLen)
	}
	if len(username) > usernameMaxLen {
		return fmt.Sprintf("Username must be %d characters or less", usernameMaxLen)
	}
	if !usernamePattern.MatchString(username) {
		return "Username can only contain letters, numbers, underscores, and hyphens"
	}
	return ""
}

func validateEmail(email string) string {
	if email == "" || len(email) > emailMaxLen {
		return fmt.Sprintf("Email must be %d characters or less", emailMaxLen)
	}
	if !emailPattern.MatchString(email) {
		return "Invalid email format"
	}
	return ""
}

func validatePassword(password string) string {
	if len(password) < passwordMinLen {
		return fmt.Sprintf("Password must be at least %d characters", passwordMinLen)
	}
	return ""
}

func (a *API) UserLogin(c *gin.Context) {
	r := UserLoginRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	user, success := models.UserLogin(a.DB, r.Email, r.Password)
	if !success {
		c.JSON(http.StatusUnauthorized, Response{"Invalid email or password"})
		return
	}
	a.Sessions.Load(c).LoginUser(&user)
	c.JSON(http.StatusOK, gin.H{"user": userInfoFrom(&user)})
}

func (a *API) UserLogout(c *gin.Context, user *models.User) {
	a.Sessions.Load(c).LogoutUser()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) UserStatus(c *gin.Context) {
	user := a.Sessions.Load(c).User()
	if user.ID == 0 {
		c.JSON(http.StatusUnauthorized, AuthRequiredResponse)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userInfoFrom(&user)})
}

func (a *API) UserList(c *gin.Context, user *models.User) {
	var users []models.User
	if err := a.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return
	}
	result := make([]UserInfo, 0, len(users))
	for i := range users {
		result = append(result, userInfoFrom(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": result})
}

func (a *API) UserCreate(c *gin.Context, user *models.User) {
	r := UserCreateRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if msg := validateUsername(r.Username); msg != "" {
		c.JSON(http.StatusBadRequest, Response{msg})
		return
	}
	if msg := validateEmail(r.Email); msg != "" {
		c.JSON(http.StatusBadRequest, Response{msg})
		return
	}
	if msg := validatePassword(r.Password); msg != "" {
		c.JSON(http.StatusBadRequest, Response{msg})
		return
	}
	role := models.RoleViewer
	if r.Role != "" {
		var ok bool
		if role, ok = models.RoleFromString(r.Role); !ok {
			c.JSON(http.StatusBadRequest, Response{"Invalid role"})
			return
		}
	}
	created, err := models.UserCreate(a.DB, r.Username, r.Email, r.Password, role)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, Response{"A user with this email or username already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": userInfoFrom(&created)})
}

func (a *API) UserChangeRole(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, Response{"Invalid user id"})
		return
	}
	r := UserRoleRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	role, valid := models.RoleFromString(r.Role)
	if !valid {
		c.JSON(http.StatusBadRequest, Response{"Invalid role"})
		return
	}
	// An admin cannot demote themselves
	if id == user.ID {
		c.JSON(http.StatusBadRequest, Response{"Cannot change your own role"})
		return
	}
	var target models.User
	if a.DB.First(&target, id).Error != nil {
		c.JSON(http.StatusNotFound, Response{"User not found"})
		return
	}
	if err := a.DB.Model(&target).Update("role", role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "role": role.String()})
}

func (a *API) UserDeactivate(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, Response{"Invalid user id"})
		return
	}
	if id == user.ID {
		c.JSON(http.StatusBadRequest, Response{"Cannot deactivate your own account"})
		return
	}
	var target models.User
	if a.DB.First(&target, id).Error != nil {
		c.JSON(http.StatusNotFound, Response{"User not found"})
		return
	}
	// Session lookups check the flag, so existing sessions die with it
	if err := a.DB.Model(&target).Update("active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, Response{"DB error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
