package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SubscriptionSnapshot is the billing state frozen at request entry.
type SubscriptionSnapshot struct {
	Status           string
	Plan             string
	CurrentPeriodEnd *time.Time
}

func (s *SubscriptionSnapshot) IsActive() bool {
	if s == nil {
		return false
	}
	return s.Status == "active" || s.Status == "trialing"
}

// Identity is the resolved caller, attached once by RequireAuth and
// treated as immutable by everything downstream.
type Identity struct {
	UserID           uuid.UUID
	Email            string
	Role             string
	TwoFactorEnabled bool
	Subscription     *SubscriptionSnapshot
}

const contextIdentityKey = "auth_identity"

func SetIdentity(c echo.Context, identity Identity) {
	c.Set(contextIdentityKey, identity)
}

func IdentityFromContext(c echo.Context) (Identity, bool) {
	value := c.Get(contextIdentityKey)
	identity, ok := value.(Identity)
	return identity, ok
}

func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	return identity.UserID, true
}

func RoleFromContext(c echo.Context) (string, bool) {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return "", false
	}
	return identity.Role, true
}
