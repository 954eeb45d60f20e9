package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type JWTManager struct {
	Secret          []byte
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type AccessClaims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

func (m JWTManager) IssueAccessToken(userID string, email string, role string) (string, time.Duration, error) {
	ttl := m.AccessTokenTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return m.issue(userID, email, role, tokenTypeAccess, ttl)
}

func (m JWTManager) IssueRefreshToken(userID string, email string, role string) (string, time.Duration, error) {
	ttl := m.RefreshTokenTTL
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return m.issue(userID, email, role, tokenTypeRefresh, ttl)
}

func (m JWTManager) issue(userID, email, role, tokenType string, ttl time.Duration) (string, time.Duration, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

func (m JWTManager) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	return m.parse(tokenString, tokenTypeAccess)
}

func (m JWTManager) ParseRefreshToken(tokenString string) (*AccessClaims, error) {
	return m.parse(tokenString, tokenTypeRefresh)
}

func (m JWTManager) parse(tokenString string, tokenType string) (*AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid || claims.Type != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
