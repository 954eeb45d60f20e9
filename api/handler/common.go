package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cvstudio/internal/service"

	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

func writeMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"message": message})
}

// writeServiceError maps service sentinels onto status codes. Internal
// failures surface as a generic 500 with no detail.
func writeServiceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidTwoFactorCode):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		status = http.StatusConflict
	case errors.Is(err, service.ErrEmailNotVerified), errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrTwoFactorAlreadyEnabled),
		errors.Is(err, service.ErrTwoFactorNotSetUp),
		errors.Is(err, service.ErrTwoFactorMisconfigured),
		errors.Is(err, service.ErrUnknownSection),
		errors.Is(err, service.ErrUnknownPlan),
		errors.Is(err, service.ErrCheckoutIncomplete):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrCVNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrBillingNotConfigured):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		return writeMessage(c, status, "internal server error")
	}
	return writeError(c, status, err)
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
