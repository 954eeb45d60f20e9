package service

type RegisterInput struct {
	Email            string
	Password         string
	Name             string
	MarketingConsent bool
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress *string
}

type LoginResult struct {
	AccessToken      string
	ExpiresIn        int64
	RefreshToken     string
	RefreshExpiresIn int64

	// RequiresTwoFactor means no tokens were issued yet: the caller must
	// complete the /2fa/validate step for UserID first.
	RequiresTwoFactor bool
	UserID            string
}

type UpdateProfileInput struct {
	Name             *string
	MarketingConsent *bool
}
