package routes

import (
	"time"

	"cvstudio/api/handler"
	"cvstudio/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	TwoFactor      *handler.TwoFactorHandler
	CV             *handler.CVHandler
	Billing        *handler.BillingHandler
	Admin          *handler.AdminHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	twoFactorHandler *handler.TwoFactorHandler,
	cvHandler *handler.CVHandler,
	billingHandler *handler.BillingHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		TwoFactor:      twoFactorHandler,
		CV:             cvHandler,
		Billing:        billingHandler,
		Admin:          adminHandler,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.POST("/auth/register", r.Auth.Register, r.AuthRate.Middleware())
	e.POST("/auth/verify-email", r.Auth.VerifyEmail, r.AuthRate.Middleware())
	e.POST("/auth/login", r.Auth.Login, r.LoginRate.Middleware())
	e.POST("/auth/refresh", r.Auth.Refresh, r.AuthRate.Middleware())
	e.POST("/auth/logout", r.Auth.Logout, r.AuthMiddleware.RequireAuth)
	e.POST("/auth/password/forgot", r.Auth.PasswordForgot, r.LoginRate.Middleware())
	e.POST("/auth/password/reset", r.Auth.PasswordReset, r.AuthRate.Middleware())
	e.POST("/auth/password/change", r.Auth.PasswordChange, r.AuthMiddleware.RequireAuth)

	e.GET("/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)
	e.PATCH("/me", r.Auth.UpdateProfile, r.AuthMiddleware.RequireAuth)

	// /2fa/validate is the only unauthenticated 2FA endpoint: it runs
	// between password check and token issuance.
	e.POST("/2fa/setup", r.TwoFactor.Setup, r.AuthMiddleware.RequireAuth)
	e.POST("/2fa/verify", r.TwoFactor.Verify, r.AuthMiddleware.RequireAuth)
	e.POST("/2fa/validate", r.TwoFactor.Validate, r.LoginRate.Middleware())
	e.POST("/2fa/disable", r.TwoFactor.Disable, r.AuthMiddleware.RequireAuth)
	e.GET("/2fa/status", r.TwoFactor.Status, r.AuthMiddleware.RequireAuth)
	e.POST("/2fa/backup-codes", r.TwoFactor.BackupCodes, r.AuthMiddleware.RequireAuth)

	e.GET("/templates", r.CV.Templates)
	e.POST("/cvs", r.CV.Create, r.AuthMiddleware.RequireAuth)
	e.GET("/cvs", r.CV.List, r.AuthMiddleware.RequireAuth)
	e.GET("/cvs/:id", r.CV.Get, r.AuthMiddleware.RequireAuth)
	e.PUT("/cvs/:id", r.CV.Update, r.AuthMiddleware.RequireAuth)
	e.PUT("/cvs/:id/sections/:section", r.CV.UpdateSection, r.AuthMiddleware.RequireAuth)
	e.GET("/cvs/:id/export", r.CV.Export, r.AuthMiddleware.RequireAuth, middleware.RequireActiveSubscription())
	e.DELETE("/cvs/:id", r.CV.Delete, r.AuthMiddleware.RequireAuth)

	e.GET("/pricing", r.Billing.Plans)
	e.GET("/billing/plans", r.Billing.Plans)
	e.POST("/billing/checkout", r.Billing.CreateCheckout, r.AuthMiddleware.RequireAuth)
	e.POST("/billing/checkout/confirm", r.Billing.ConfirmCheckout, r.AuthMiddleware.RequireAuth)
	e.GET("/billing/subscription", r.Billing.Subscription, r.AuthMiddleware.RequireAuth)
	e.POST("/newsletter/subscribe", r.Billing.NewsletterSubscribe, r.AuthRate.Middleware())

	e.GET("/admin/dashboard", r.Admin.Dashboard, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
	e.GET("/admin/users", r.Admin.ListUsers, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
	e.POST("/admin/users/:id/deactivate", r.Admin.DeactivateUser, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
	e.DELETE("/admin/users/:id", r.Admin.DeleteUser, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
	e.GET("/admin/analytics", r.Admin.Analytics, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
}
