package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"cvstudio/internal/entity"
	"cvstudio/internal/repository"
	"cvstudio/internal/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type AuthService struct {
	users         repository.UserRepository
	verifications repository.VerificationTokenRepository
	events        repository.AnalyticsEventRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	tokens       TokenIssuer
	twoFactor    *TwoFactorService
	clock        Clock
	config       AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	verifications repository.VerificationTokenRepository,
	events repository.AnalyticsEventRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	tokens TokenIssuer,
	twoFactor *TwoFactorService,
	clock Clock,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		users:         users,
		verifications: verifications,
		events:        events,
		emailSender:   emailSender,
		passwordHash:  passwordHash,
		tokens:        tokens,
		twoFactor:     twoFactor,
		clock:         clock,
		config:        config,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user != nil {
		if user.EmailVerifiedAt != nil {
			return ErrEmailAlreadyRegistered
		}
		return s.sendEmailVerification(ctx, user)
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return err
	}

	newUser := &entity.User{
		Email:            email,
		Name:             strings.TrimSpace(input.Name),
		PasswordHash:     &hash,
		Role:             entity.UserRoleUser,
		IsActive:         true,
		MarketingConsent: input.MarketingConsent,
	}
	if err := s.users.Create(ctx, newUser); err != nil {
		return err
	}

	return s.sendEmailVerification(ctx, newUser)
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	verification, err := s.verifications.FindValid(ctx, utils.HashToken(token), entity.EmailVerify)
	if err != nil {
		return err
	}
	if verification == nil {
		return ErrInvalidToken
	}

	if err := s.users.VerifyEmail(ctx, verification.UserID); err != nil {
		return err
	}
	return s.verifications.MarkUsed(ctx, verification.ID)
}

// PurgeExpiredTokens drops verification tokens past their expiry. Runs
// from a background ticker in main.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) error {
	return s.verifications.DeleteExpired(ctx)
}

// Login checks credentials and, when the account has 2FA enabled,
// stops short of issuing tokens: the caller gets RequiresTwoFactor and
// must finish through CompleteTwoFactorLogin.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		// Burn a bcrypt comparison so unknown emails cost the same.
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		s.logEvent(ctx, nil, input.IPAddress, entity.EventLoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(*user.PasswordHash, input.Password) {
		s.logEvent(ctx, &user.ID, input.IPAddress, entity.EventLoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	if user.EmailVerifiedAt == nil {
		return nil, ErrEmailNotVerified
	}

	if user.TwoFactorEnabled {
		return &LoginResult{
			RequiresTwoFactor: true,
			UserID:            user.ID.String(),
		}, nil
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	_ = s.users.TouchLastLogin(ctx, user.ID)
	s.logEvent(ctx, &user.ID, input.IPAddress, entity.EventLoginSuccess, nil)
	return result, nil
}

// CompleteTwoFactorLogin finishes the two-step login: the submitted
// code (TOTP or backup) is validated before any token is minted.
func (s *AuthService) CompleteTwoFactorLogin(ctx context.Context, userID uuid.UUID, code string, ipAddress *string) (*LoginResult, error) {
	verified, err := s.twoFactor.ValidateLogin(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, ErrInvalidTwoFactorCode
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	_ = s.users.TouchLastLogin(ctx, user.ID)
	s.logEvent(ctx, &user.ID, ipAddress, entity.EventLoginSuccess, map[string]any{"mfa": true})
	return result, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrInvalidInput
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.issueTokens(user)
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, ipAddress *string) {
	s.logEvent(ctx, &userID, ipAddress, entity.EventLogout, nil)
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil || user.EmailVerifiedAt == nil {
		// Do not reveal whether the address exists.
		return nil
	}

	token, err := s.createVerificationToken(ctx, user.ID, entity.PasswordReset, s.resetTokenTTL())
	if err != nil {
		return err
	}

	if s.emailSender != nil {
		if err := s.emailSender.SendPasswordResetEmail(ctx, user.Email, token); err != nil {
			return err
		}
	}
	s.logEvent(ctx, &user.ID, nil, entity.EventPasswordReset, map[string]any{"stage": "requested"})
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(newPassword) == "" {
		return ErrInvalidInput
	}

	verification, err := s.verifications.FindValid(ctx, utils.HashToken(token), entity.PasswordReset)
	if err != nil {
		return err
	}
	if verification == nil {
		return ErrInvalidToken
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, verification.UserID, hash); err != nil {
		return err
	}
	if err := s.verifications.MarkUsed(ctx, verification.ID); err != nil {
		return err
	}
	s.logEvent(ctx, &verification.UserID, nil, entity.EventPasswordReset, map[string]any{"stage": "completed"})
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword string, newPassword string) error {
	if strings.TrimSpace(currentPassword) == "" || strings.TrimSpace(newPassword) == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.PasswordHash == nil || !s.passwordHash.Verify(*user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByIDWithSubscription(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.MarketingConsent != nil {
		user.MarketingConsent = *input.MarketingConsent
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginResult, error) {
	accessToken, expiresIn, err := s.tokens.IssueAccessToken(*user)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshTTL, err := s.tokens.IssueRefreshToken(*user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:      accessToken,
		ExpiresIn:        int64(expiresIn.Seconds()),
		RefreshToken:     refreshToken,
		RefreshExpiresIn: int64(refreshTTL.Seconds()),
	}, nil
}

func (s *AuthService) sendEmailVerification(ctx context.Context, user *entity.User) error {
	if s.emailSender == nil {
		return nil
	}
	verificationToken, err := s.createVerificationToken(ctx, user.ID, entity.EmailVerify, s.verificationTokenTTL())
	if err != nil {
		return err
	}
	return s.emailSender.SendVerificationEmail(ctx, user.Email, verificationToken)
}

func (s *AuthService) createVerificationToken(
	ctx context.Context,
	userID uuid.UUID,
	typeValue entity.VerificationType,
	ttl time.Duration,
) (string, error) {
	rawToken, err := utils.GenerateRandomToken(32)
	if err != nil {
		return "", err
	}

	verification := &entity.VerificationToken{
		UserID:    userID,
		TokenHash: utils.HashToken(rawToken),
		Type:      typeValue,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		return "", err
	}
	return rawToken, nil
}

func (s *AuthService) logEvent(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.EventAction,
	metadata map[string]any,
) {
	if s.events == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		if bytes, err := json.Marshal(metadata); err == nil {
			payload = datatypes.JSON(bytes)
		}
	}
	_ = s.events.Log(ctx, &entity.AnalyticsEvent{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	})
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) verificationTokenTTL() time.Duration {
	if s.config.VerificationTokenTTL > 0 {
		return s.config.VerificationTokenTTL
	}
	return 24 * time.Hour
}

func (s *AuthService) resetTokenTTL() time.Duration {
	if s.config.ResetTokenTTL > 0 {
		return s.config.ResetTokenTTL
	}
	return 30 * time.Minute
}
