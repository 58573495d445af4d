// Package auth signs and verifies the tokens stored in browser cookies: the
// session token that points at a server-side session row and the flash token
// that carries one-time notices across a redirect.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// FlashClaims carries pending notices.
type FlashClaims struct {
	jwt.RegisteredClaims
	Messages []string `json:"msgs"`
}

// flashValidity bounds how long an unread notice survives.
const flashValidity = 5 * time.Minute

func GenerateToken(sessionID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		SessionID: sessionID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSessionIDFromToken verifies the signature and expiry of tokenString and
// returns the session id it carries.
func GetSessionIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	if err := parse(tokenString, claims, secretKey); err != nil {
		return "", err
	}

	if claims.SessionID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.SessionID, nil
}

// EncodeFlash signs messages into a short-lived token.
func EncodeFlash(messages []string, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, FlashClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(flashValidity)),
		},
		Messages: messages,
	})
	return token.SignedString(secretKey)
}

// DecodeFlash returns the messages inside a flash token.
func DecodeFlash(tokenString string, secretKey []byte) ([]string, error) {
	claims := &FlashClaims{}
	if err := parse(tokenString, claims, secretKey); err != nil {
		return nil, err
	}
	return claims.Messages, nil
}

func parse(tokenString string, claims jwt.Claims, secretKey []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrSessionExpired
		}
		return common.ErrInvalidToken
	}

	if !token.Valid {
		return common.ErrInvalidToken
	}

	return nil
}
