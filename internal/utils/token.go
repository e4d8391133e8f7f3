// Package utils provides helpers for admin token creation and password
// verification.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminToken is a signed HS256 JWT granting access to the admin mutation
// routes, together with its expiry.
type AdminToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expiresAt"`
}

// NewAdminToken builds and signs an admin JWT. Claims carry the fixed
// subject "admin" and role "admin"; there are no per-user accounts, one
// operator credential controls the show.
func NewAdminToken(secret string, ttlMin int) (AdminToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AdminToken{}, err
	}
	return AdminToken{Token: signed, Exp: exp}, nil
}
