package service

import (
	"time"

	"cvstudio/internal/entity"
	"cvstudio/internal/utils"
)

type TokenIssuer interface {
	IssueAccessToken(user entity.User) (string, time.Duration, error)
	IssueRefreshToken(user entity.User) (string, time.Duration, error)
	ParseRefreshToken(token string) (*utils.AccessClaims, error)
}

type JWTTokenIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTTokenIssuer) IssueAccessToken(user entity.User) (string, time.Duration, error) {
	if j.Manager == nil {
		return "", 0, ErrInvalidToken
	}
	return j.Manager.IssueAccessToken(user.ID.String(), user.Email, string(user.Role))
}

func (j JWTTokenIssuer) IssueRefreshToken(user entity.User) (string, time.Duration, error) {
	if j.Manager == nil {
		return "", 0, ErrInvalidToken
	}
	return j.Manager.IssueRefreshToken(user.ID.String(), user.Email, string(user.Role))
}

func (j JWTTokenIssuer) ParseRefreshToken(token string) (*utils.AccessClaims, error) {
	if j.Manager == nil {
		return nil, ErrInvalidToken
	}
	return j.Manager.ParseRefreshToken(token)
}
