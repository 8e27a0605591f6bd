package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const TOKEN_KEY = "Authorization"

// TokenClaims is the JWT payload. Role is the user's global role; downstream
// permission checks go through the RBAC service, not this struct.
type TokenClaims struct {
	jwt.StandardClaims
	User     string `json:"u"`
	Username string `json:"un"`
	Role     string `json:"r"`
	Lang     string `json:"l,omitempty"`
}

func NewTokenClaims(userID, username, role, lang string, lifetime time.Duration) TokenClaims {
	now := time.Now()
	return TokenClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(lifetime).Unix(),
			NotBefore: now.Unix() - 1,
			IssuedAt:  now.Unix(),
		},
		User:     userID,
		Username: username,
		Role:     role,
		Lang:     lang,
	}
}

func (t TokenClaims) GetUser() string {
	return t.User
}

func (t TokenClaims) GetRole() string {
	return t.Role
}

var ErrInvalidJWT = errors.New("invalid token")

func GenerateJWT(claims TokenClaims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func VerifyToken(tokenString string, secret []byte) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v, %w", t.Header["alg"], ErrInvalidJWT)
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidJWT
	}
	return claims, nil
}
