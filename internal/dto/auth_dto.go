package dto

import (
	"time"

	"cvstudio/internal/entity"
)

type RegisterRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	Name             string `json:"name" validate:"omitempty,max=255"`
	MarketingConsent bool   `json:"marketing_consent"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken      string `json:"access_token,omitempty"`
	ExpiresIn        int64  `json:"expires_in,omitempty"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	RefreshExpiresIn int64  `json:"refresh_expires_in,omitempty"`

	RequiresTwoFactor bool   `json:"requires_two_factor,omitempty"`
	UserID            string `json:"user_id,omitempty"`
}

type PasswordForgotRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type UpdateProfileRequest struct {
	Name             *string `json:"name" validate:"omitempty,max=255"`
	MarketingConsent *bool   `json:"marketing_consent"`
}

type SubscriptionResponse struct {
	Status           string     `json:"status"`
	Plan             string     `json:"plan,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

type UserResponse struct {
	ID               string                `json:"id"`
	Email            string                `json:"email"`
	Name             string                `json:"name,omitempty"`
	Role             string                `json:"role"`
	EmailVerifiedAt  *time.Time            `json:"email_verified_at,omitempty"`
	IsActive         bool                  `json:"is_active"`
	MarketingConsent bool                  `json:"marketing_consent"`
	TwoFactorEnabled bool                  `json:"two_factor_enabled"`
	LastLoginAt      *time.Time            `json:"last_login_at,omitempty"`
	Subscription     *SubscriptionResponse `json:"subscription,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	response := UserResponse{
		ID:               user.ID.String(),
		Email:            user.Email,
		Name:             user.Name,
		Role:             string(user.Role),
		EmailVerifiedAt:  user.EmailVerifiedAt,
		IsActive:         user.IsActive,
		MarketingConsent: user.MarketingConsent,
		TwoFactorEnabled: user.TwoFactorEnabled,
		LastLoginAt:      user.LastLoginAt,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
	if user.Subscription != nil {
		response.Subscription = &SubscriptionResponse{
			Status:           string(user.Subscription.Status),
			Plan:             user.Subscription.Plan,
			CurrentPeriodEnd: user.Subscription.CurrentPeriodEnd,
		}
	}
	return response
}

func UserResponsesFromEntities(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i]))
	}
	return responses
}
