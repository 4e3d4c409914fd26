package imagetoken

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndRedeem(t *testing.T) {
	service := NewService("test-secret")
	token, err := service.Issue(42, "abc123.jpg", 7)
	if err != nil {
		t.Fatal(err)
	}
	grant, err := service.Redeem(token, "abc123.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if grant.PhotoID != 42 || grant.Filename != "abc123.jpg" || grant.UserID != 7 {
		t.Errorf("wrong grant: %+v", grant)
	}
}

func TestRedeemFilenameMismatch(t *testing.T) {
	service := NewService("test-secret")
	token, err := service.Issue(42, "abc123.jpg", 7)
	if err != nil {
		t.Fatal(err)
	}
	_, err = service.Redeem(token, "other.jpg")
	if !errors.Is(err, ErrFilenameMismatch) {
		t.Errorf("got %v, want ErrFilenameMismatch", err)
	}
}

func TestRedeemWrongSecret(t *testing.T) {
	token, err := NewService("one-secret").Issue(42, "abc123.jpg", 7)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewService("another-secret").Redeem(token, "abc123.jpg")
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("got %v, want ErrBadSignature", err)
	}
}

func TestRedeemTampered(t *testing.T) {
	service := NewService("test-secret")
	token, err := service.Issue(42, "abc123.jpg", 7)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatal("not a JWT")
	}
	tampered := parts[0] + ".eyJwaG90b19pZCI6OTl9." + parts[2]
	if _, err = service.Redeem(tampered, "abc123.jpg"); !errors.Is(err, ErrBadSignature) {
		t.Errorf("got %v, want ErrBadSignature", err)
	}
	if _, err = service.Redeem("garbage", "abc123.jpg"); !errors.Is(err, ErrBadSignature) {
		t.Errorf("got %v, want ErrBadSignature", err)
	}
}

func TestRedeemExpired(t *testing.T) {
	service := NewService("test-secret")
	past := time.Now().Add(-2 * Validity)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		PhotoID:  42,
		Filename: "abc123.jpg",
		UserID:   7,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(Validity)),
		},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = service.Redeem(signed, "abc123.jpg"); !errors.Is(err, ErrExpired) {
		t.Errorf("got %v, want ErrExpired", err)
	}
}

func TestRedeemRejectsUnsignedAlgorithm(t *testing.T) {
	service := NewService("test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		PhotoID:  42,
		Filename: "abc123.jpg",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(Validity)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = service.Redeem(signed, "abc123.jpg"); !errors.Is(err, ErrBadSignature) {
		t.Errorf("alg=none token must be rejected, got %v", err)
	}
}
