package models

import (
	"photoframer/utils"
	"strings"

	"gorm.io/gorm"
)

type Role uint8

const (
	RoleViewer      Role = 0
	RoleContributor Role = 1
	RoleAdmin       Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleContributor:
		return "contributor"
	}
	return "viewer"
}

// RoleFromString returns the role for its wire name; ok is false for
// anything outside {viewer, contributor, admin}.
func RoleFromString(s string) (Role, bool) {
	switch s {
	case "viewer":
		return RoleViewer, true
	case "contributor":
		return RoleContributor, true
	case "admin":
		return RoleAdmin, true
	}
	return RoleViewer, false
}

type User struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	LastLoginAt int64
	Username    string `gorm:"type:varchar(50);index:uniq_username,unique"`
	Email       string `gorm:"type:varchar(254);index:uniq_email,unique"`
	Password    string `gorm:"type:varchar(128)"`
	PassSalt    string `gorm:"type:varchar(200)"`
	Role        Role   `gorm:"type:tinyint(1);not null"`
	Active      bool   `gorm:"not null;default:1"`
}

const saltSize = 60

func UserCreate(db *gorm.DB, username, email, plainTextPassword string, role Role) (u User, err error) {
	u.Username = username
	u.Email = strings.ToLower(email)
	u.Role = role
	u.Active = true
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
	return u, db.Create(&u).Error
}

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

// UserLogin authenticates by email and password. Deactivated accounts
// cannot log in.
func UserLogin(db *gorm.DB, email, plainTextPassword string) (u User, success bool) {
	result := db.First(&u, "email = ?", strings.ToLower(email))
	if result.Error != nil {
		return User{}, false
	}
	if !u.Active || u.Password != utils.Sha512String(plainTextPassword+u.PassSalt) {
		return User{}, false
	}
	return u, true
}

// HasRole reports whether the user's capability tier is at least the
// required one. Roles are strictly ordered: viewer < contributor < admin.
func (u *User) HasRole(required Role) bool {
	return u != nil && u.ID != 0 && u.Role >= required
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}
