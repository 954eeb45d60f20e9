package handler

import (
	"errors"
	"net/http"

	"cvstudio/api/middleware"
	"cvstudio/internal/dto"
	"cvstudio/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type BillingHandler struct {
	Service    *service.BillingService
	Newsletter *service.NewsletterService
	Validate   *validator.Validate
}

func NewBillingHandler(svc *service.BillingService, newsletter *service.NewsletterService, validate *validator.Validate) *BillingHandler {
	return &BillingHandler{Service: svc, Newsletter: newsletter, Validate: validate}
}

func (h *BillingHandler) Plans(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Service.Plans())
}

func (h *BillingHandler) CreateCheckout(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.CheckoutRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	url, err := h.Service.CreateCheckoutSession(c.Request().Context(), userID, req.Plan)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CheckoutResponse{URL: url})
}

// ConfirmCheckout handles the success redirect: the client posts the
// checkout session id back so the subscription row can be recorded.
func (h *BillingHandler) ConfirmCheckout(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.CheckoutConfirmRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	subscription, err := h.Service.ConfirmCheckout(c.Request().Context(), userID, req.SessionID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SubscriptionResponse{
		Status:           string(subscription.Status),
		Plan:             subscription.Plan,
		CurrentPeriodEnd: subscription.CurrentPeriodEnd,
	})
}

func (h *BillingHandler) Subscription(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	subscription, err := h.Service.GetSubscription(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.SubscriptionResponse{
		Status:           string(subscription.Status),
		Plan:             subscription.Plan,
		CurrentPeriodEnd: subscription.CurrentPeriodEnd,
	})
}

func (h *BillingHandler) NewsletterSubscribe(c echo.Context) error {
	var req dto.NewsletterSubscribeRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Newsletter.Subscribe(c.Request().Context(), req.Email); err != nil {
		return writeServiceError(c, err)
	}
	return writeMessage(c, http.StatusOK, "subscribed to newsletter")
}

func (h *BillingHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
