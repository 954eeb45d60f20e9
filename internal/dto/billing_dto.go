package dto

type CheckoutRequest struct {
	Plan string `json:"plan" validate:"required"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type CheckoutConfirmRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type NewsletterSubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}
