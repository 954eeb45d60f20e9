package service

import (
	"context"
	"encoding/json"
	"strings"

	"cvstudio/internal/entity"
	"cvstudio/internal/repository"
	"cvstudio/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// TwoFactorConfig carries the development bypass switch. The bypass is
// decided at construction time and is never derived from request data.
type TwoFactorConfig struct {
	DevBypass    bool
	DevUserID    uuid.UUID
	DevUserEmail string
}

// TwoFactorService owns every 2FA state transition. Per user the state
// moves DISABLED -> PENDING (secret stored, flag off) -> ENABLED, and
// back to DISABLED only through Disable with a valid code.
type TwoFactorService struct {
	users       repository.UserRepository
	backupCodes repository.BackupCodeRepository
	events      repository.AnalyticsEventRepository
	codec       *TOTPCodec
	logger      *logrus.Logger
	config      TwoFactorConfig
}

func NewTwoFactorService(
	users repository.UserRepository,
	backupCodes repository.BackupCodeRepository,
	events repository.AnalyticsEventRepository,
	codec *TOTPCodec,
	logger *logrus.Logger,
	config TwoFactorConfig,
) *TwoFactorService {
	return &TwoFactorService{
		users:       users,
		backupCodes: backupCodes,
		events:      events,
		codec:       codec,
		logger:      logger,
		config:      config,
	}
}

type TwoFactorSetup struct {
	Secret string
	QRCode string
}

const backupCodeCount = 10

// GenerateSecret starts enrollment: stores a fresh secret with the
// enabled flag off. Refuses to replace the secret of an account that
// already has 2FA enforced.
func (s *TwoFactorService) GenerateSecret(ctx context.Context, userID uuid.UUID) (*TwoFactorSetup, error) {
	if s.isDevUser(userID) {
		return s.devSetup()
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.TwoFactorEnabled {
		return nil, ErrTwoFactorAlreadyEnabled
	}

	secret, otpauthURI, err := s.codec.GenerateSecret(user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateTwoFactor(ctx, user.ID, &secret, false); err != nil {
		return nil, err
	}

	qrCode, err := s.codec.QRCodeDataURI(otpauthURI)
	if err != nil {
		return nil, err
	}
	return &TwoFactorSetup{Secret: secret, QRCode: qrCode}, nil
}

// VerifyAndEnable checks an enrollment code against the pending secret
// and flips the enabled flag on the first success. Repeated correct
// codes keep returning true without further writes.
func (s *TwoFactorService) VerifyAndEnable(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	if !IsSixDigitCode(code) {
		return false, ErrInvalidInput
	}
	if s.isDevUser(userID) {
		return true, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	if user.TwoFactorSecret == nil {
		return false, ErrTwoFactorNotSetUp
	}

	verified := s.codec.ValidateCode(*user.TwoFactorSecret, code)
	if verified && !user.TwoFactorEnabled {
		if err := s.users.UpdateTwoFactor(ctx, user.ID, user.TwoFactorSecret, true); err != nil {
			return false, err
		}
		s.logEvent(ctx, &user.ID, entity.EventTwoFactorEnabled, nil)
	}
	return verified, nil
}

// ValidateLogin is the login-time gate. Accounts without 2FA pass
// through unconditionally, whatever the submitted value looks like.
// Six-digit input goes to the TOTP codec; anything else is treated as
// a backup code and consumed on success.
func (s *TwoFactorService) ValidateLogin(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	if s.isDevUser(userID) {
		return IsSixDigitCode(code), nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	if !user.TwoFactorEnabled {
		return true, nil
	}
	if user.TwoFactorSecret == nil {
		// Invariant violation: enabled without a secret. Fail closed and
		// alert, this means the user row was corrupted.
		s.logger.WithField("user_id", user.ID).Error("2fa enabled without stored secret")
		return false, ErrTwoFactorMisconfigured
	}

	var verified bool
	if IsSixDigitCode(code) {
		verified = s.codec.ValidateCode(*user.TwoFactorSecret, code)
	} else {
		verified, err = s.consumeBackupCode(ctx, user.ID, code)
		if err != nil {
			return false, err
		}
	}
	if !verified {
		s.logEvent(ctx, &user.ID, entity.EventTwoFactorFailed, nil)
	}
	return verified, nil
}

// Disable clears the secret and flag after one final successful code
// check. A wrong code leaves the stored state untouched.
func (s *TwoFactorService) Disable(ctx context.Context, userID uuid.UUID, code string) error {
	if s.isDevUser(userID) {
		if !IsSixDigitCode(code) {
			return ErrInvalidTwoFactorCode
		}
		return nil
	}

	verified, err := s.ValidateLogin(ctx, userID, code)
	if err != nil {
		return err
	}
	if !verified {
		return ErrInvalidTwoFactorCode
	}

	if err := s.users.UpdateTwoFactor(ctx, userID, nil, false); err != nil {
		return err
	}
	if err := s.backupCodes.DeleteAllByUser(ctx, userID); err != nil {
		return err
	}
	s.logEvent(ctx, &userID, entity.EventTwoFactorDisabled, nil)
	return nil
}

func (s *TwoFactorService) Status(ctx context.Context, userID uuid.UUID) (bool, error) {
	if s.isDevUser(userID) {
		return false, nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	return user.TwoFactorEnabled, nil
}

// GenerateBackupCodes replaces the stored set with ten fresh single-use
// codes and returns the plaintext once. Only the SHA-256 hashes are
// persisted, so the codes cannot be retrieved again.
func (s *TwoFactorService) GenerateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if s.isDevUser(userID) {
		return s.randomBackupCodes()
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.TwoFactorSecret == nil {
		return nil, ErrTwoFactorNotSetUp
	}

	codes, err := s.randomBackupCodes()
	if err != nil {
		return nil, err
	}
	hashes := make([]string, len(codes))
	for i, code := range codes {
		hashes[i] = utils.HashToken(normalizeBackupCode(code))
	}
	if err := s.backupCodes.Replace(ctx, user.ID, hashes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *TwoFactorService) consumeBackupCode(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	normalized := normalizeBackupCode(code)
	if normalized == "" {
		return false, nil
	}
	return s.backupCodes.Consume(ctx, userID, utils.HashToken(normalized))
}

func (s *TwoFactorService) randomBackupCodes() ([]string, error) {
	codes := make([]string, backupCodeCount)
	for i := range codes {
		code, err := utils.GenerateBackupCode()
		if err != nil {
			return nil, err
		}
		codes[i] = code
	}
	return codes, nil
}

func (s *TwoFactorService) isDevUser(userID uuid.UUID) bool {
	return s.config.DevBypass && s.config.DevUserID != uuid.Nil && userID == s.config.DevUserID
}

func (s *TwoFactorService) devSetup() (*TwoFactorSetup, error) {
	email := s.config.DevUserEmail
	if email == "" {
		email = "dev@example.com"
	}
	secret, otpauthURI, err := s.codec.GenerateSecret(email)
	if err != nil {
		return nil, err
	}
	qrCode, err := s.codec.QRCodeDataURI(otpauthURI)
	if err != nil {
		return nil, err
	}
	return &TwoFactorSetup{Secret: secret, QRCode: qrCode}, nil
}

func (s *TwoFactorService) logEvent(ctx context.Context, userID *uuid.UUID, action entity.EventAction, metadata map[string]any) {
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
		UserID:   userID,
		Action:   action,
		Metadata: payload,
	})
}

func normalizeBackupCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
