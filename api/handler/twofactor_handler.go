package handler

import (
	"errors"
	"net/http"

	"cvstudio/api/middleware"
	"cvstudio/internal/dto"
	"cvstudio/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TwoFactorHandler struct {
	Service   *service.TwoFactorService
	Auth      *service.AuthService
	Validator *validator.Validate
}

func NewTwoFactorHandler(svc *service.TwoFactorService, auth *service.AuthService, validate *validator.Validate) *TwoFactorHandler {
	return &TwoFactorHandler{Service: svc, Auth: auth, Validator: validate}
}

// Setup starts enrollment for the authenticated user and returns the
// secret plus a QR code to scan. A second call for an already enabled
// account is rejected.
func (h *TwoFactorHandler) Setup(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	setup, err := h.Service.GenerateSecret(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.TwoFactorSetupResponse{
		Secret:  setup.Secret,
		QRCode:  setup.QRCode,
		Message: "2FA setup initiated",
	})
}

// Verify confirms enrollment with a code from the authenticator app.
func (h *TwoFactorHandler) Verify(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.TwoFactorVerifyRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	verified, err := h.Service.VerifyAndEnable(c.Request().Context(), userID, req.Token)
	if err != nil {
		return writeServiceError(c, err)
	}
	if !verified {
		return writeMessage(c, http.StatusBadRequest, "invalid verification code")
	}
	return writeMessage(c, http.StatusOK, "2FA enabled successfully")
}

// Validate is the login-time check; it is unauthenticated because the
// caller has no token yet. On success for a 2FA-enabled account the
// login is completed and tokens are issued.
func (h *TwoFactorHandler) Validate(c echo.Context) error {
	var req dto.TwoFactorValidateRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid user id"))
	}

	ctx := c.Request().Context()
	enabled, err := h.Service.Status(ctx, userID)
	if err != nil {
		return h.writeValidateError(c, err)
	}
	if !enabled {
		// 2FA not enforced for this account; nothing to validate.
		verified, err := h.Service.ValidateLogin(ctx, userID, req.Token)
		if err != nil {
			return h.writeValidateError(c, err)
		}
		if !verified {
			return writeMessage(c, http.StatusUnauthorized, "invalid verification code")
		}
		return writeMessage(c, http.StatusOK, "2FA validation successful")
	}

	result, err := h.Auth.CompleteTwoFactorLogin(ctx, userID, req.Token, stringPtr(c.RealIP()))
	if err != nil {
		return h.writeValidateError(c, err)
	}
	return c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken:      result.AccessToken,
		ExpiresIn:        result.ExpiresIn,
		RefreshToken:     result.RefreshToken,
		RefreshExpiresIn: result.RefreshExpiresIn,
	})
}

// Disable turns 2FA off after one final code check.
func (h *TwoFactorHandler) Disable(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.TwoFactorDisableRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	if err := h.Service.Disable(c.Request().Context(), userID, req.Token); err != nil {
		return writeServiceError(c, err)
	}
	return writeMessage(c, http.StatusOK, "2FA disabled successfully")
}

func (h *TwoFactorHandler) Status(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	enabled, err := h.Service.Status(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.TwoFactorStatusResponse{TwoFactorEnabled: enabled})
}

// BackupCodes issues a fresh set of single-use recovery codes. The
// plaintext appears in this response only.
func (h *TwoFactorHandler) BackupCodes(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	codes, err := h.Service.GenerateBackupCodes(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.BackupCodesResponse{
		BackupCodes: codes,
		Message:     "store these codes securely, they will not be shown again",
	})
}

// writeValidateError keeps the login-time endpoint from confirming
// whether an account exists.
func (h *TwoFactorHandler) writeValidateError(c echo.Context, err error) error {
	if errors.Is(err, service.ErrUserNotFound) {
		return writeMessage(c, http.StatusUnauthorized, "invalid verification code")
	}
	return writeServiceError(c, err)
}

func (h *TwoFactorHandler) validate(payload any) error {
	if h.Validator == nil {
		return nil
	}
	return h.Validator.Struct(payload)
}
