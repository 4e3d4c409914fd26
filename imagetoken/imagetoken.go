// Package imagetoken mints and verifies the short-lived grants that gate
// full-resolution originals. Tokens are stateless HS256 JWTs binding
// {photo, stored filename, requesting user}; the expiry window is the only
// bound on their validity - there is no revocation list.
package imagetoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const Validity = 5 * time.Minute

var (
	ErrBadSignature     = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrFilenameMismatch = errors.New("token bound to a different file")
)

type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Grant is what a redeemed token resolves to. The photo is re-looked-up
// by the caller - a grant can outlive a deleted photo.
type Grant struct {
	PhotoID  uint64
	Filename string
	UserID   uint64
}

type claims struct {
	PhotoID  uint64 `json:"photo_id"`
	Filename string `json:"filename"`
	UserID   uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *Service) Issue(photoID uint64, filename string, userID uint64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		PhotoID:  photoID,
		Filename: filename,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(Validity)),
		},
	})
	return token.SignedString(s.secret)
}

// Redeem verifies signature and expiry, then the exact filename binding.
// The distinct sentinel errors are for internal reason codes only - callers
// present a uniform message externally.
func (s *Service) Redeem(tokenString, filename string) (*Grant, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(tokenString, &cl, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrBadSignature
	}
	if cl.Filename != filename {
		return nil, ErrFilenameMismatch
	}
	return &Grant{PhotoID: cl.PhotoID, Filename: cl.Filename, UserID: cl.UserID}, nil
}
