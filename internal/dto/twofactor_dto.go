package dto

type TwoFactorSetupResponse struct {
	Secret  string `json:"secret"`
	QRCode  string `json:"qr_code"`
	Message string `json:"message"`
}

type TwoFactorVerifyRequest struct {
	Token string `json:"token" validate:"required,len=6,numeric"`
}

type TwoFactorValidateRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Token  string `json:"token" validate:"required"`
}

type TwoFactorDisableRequest struct {
	Token string `json:"token" validate:"required"`
}

type TwoFactorStatusResponse struct {
	TwoFactorEnabled bool `json:"two_factor_enabled"`
}

type BackupCodesResponse struct {
	BackupCodes []string `json:"backup_codes"`
	Message     string   `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
