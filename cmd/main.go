package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"cvstudio/api/handler"
	apiMiddleware "cvstudio/api/middleware"
	"cvstudio/api/routes"
	"cvstudio/config"
	"cvstudio/internal/repository"
	"cvstudio/internal/service"
	"cvstudio/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}

	validate := validator.New()

	jwtManager := utils.JWTManager{
		Secret:          []byte(cfg.JWTSecret),
		Issuer:          cfg.JWTIssuer,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}

	userRepo := repository.NewUserRepository(db)
	backupCodeRepo := repository.NewBackupCodeRepository(db)
	verificationRepo := repository.NewVerificationTokenRepository(db)
	cvRepo := repository.NewCVRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	eventRepo := repository.NewAnalyticsEventRepository(db)

	emailSender := service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppBaseURL)
	if emailSender == nil {
		logger.Warn("RESEND_API_KEY not set, transactional email disabled")
	}

	totpCodec := service.NewTOTPCodec(cfg.TOTPIssuer)
	twoFactorService := service.NewTwoFactorService(
		userRepo,
		backupCodeRepo,
		eventRepo,
		totpCodec,
		logger,
		service.TwoFactorConfig{
			DevBypass:    cfg.DevBypass2FA,
			DevUserID:    cfg.DevUserID,
			DevUserEmail: cfg.DevUserEmail,
		},
	)

	var sender service.EmailSender
	if emailSender != nil {
		sender = emailSender
	}
	authService := service.NewAuthService(
		userRepo,
		verificationRepo,
		eventRepo,
		sender,
		service.BcryptPasswordHasher{},
		service.JWTTokenIssuer{Manager: &jwtManager},
		twoFactorService,
		service.RealClock{},
		service.AuthConfig{
			AccessTokenTTL:       cfg.AccessTokenTTL,
			RefreshTokenTTL:      cfg.RefreshTokenTTL,
			VerificationTokenTTL: 24 * time.Hour,
			ResetTokenTTL:        30 * time.Minute,
		},
	)

	// Expired verification tokens are dead rows; sweep them hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			if err := authService.PurgeExpiredTokens(context.Background()); err != nil {
				logger.WithError(err).Warn("verification token sweep failed")
			}
			<-ticker.C
		}
	}()

	cvService := service.NewCVService(cvRepo, eventRepo)
	billingService := service.NewBillingService(subscriptionRepo, userRepo, eventRepo, service.BillingConfig{
		SecretKey:  cfg.StripeSecretKey,
		SuccessURL: cfg.StripeSuccessURL,
		CancelURL:  cfg.StripeCancelURL,
		Plans:      billingPlans(cfg),
	})
	newsletterService := service.NewNewsletterService(
		service.NewMailchimpClient(cfg.MailchimpAPIKey, cfg.MailchimpListID),
		userRepo,
		eventRepo,
	)
	adminService := service.NewAdminService(userRepo, cvRepo, subscriptionRepo, eventRepo)

	authHandler := handler.NewAuthHandler(authService, validate)
	authHandler.CookieDomain = cfg.CookieDomain
	authHandler.SecureCookies = cfg.SecureCookies

	twoFactorHandler := handler.NewTwoFactorHandler(twoFactorService, authService, validate)
	cvHandler := handler.NewCVHandler(cvService, validate)
	billingHandler := handler.NewBillingHandler(billingService, newsletterService, validate)
	adminHandler := handler.NewAdminHandler(adminService)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{
		JWT:   &jwtManager,
		Users: userRepo,
		Config: apiMiddleware.AuthConfig{
			SkipAuth:     cfg.SkipAuth,
			DevUserID:    cfg.DevUserID,
			DevUserEmail: cfg.DevUserEmail,
		},
	}
	if cfg.SkipAuth {
		logger.Warn("SKIP_AUTH is on, every request runs as the dev user")
	}

	router := routes.NewRouter(app, authHandler, twoFactorHandler, cvHandler, billingHandler, adminHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func billingPlans(cfg *config.Config) []service.Plan {
	plans := make([]service.Plan, 0, 2)
	if cfg.StripeMonthlyPrice != "" {
		plans = append(plans, service.Plan{
			ID:       "pro_monthly",
			Name:     "Pro Monthly",
			PriceID:  cfg.StripeMonthlyPrice,
			Amount:   999,
			Currency: "usd",
			Interval: "month",
			Features: []string{"unlimited CVs", "all templates", "PDF export"},
		})
	}
	if cfg.StripeYearlyPrice != "" {
		plans = append(plans, service.Plan{
			ID:       "pro_yearly",
			Name:     "Pro Yearly",
			PriceID:  cfg.StripeYearlyPrice,
			Amount:   9900,
			Currency: "usd",
			Interval: "year",
			Features: []string{"unlimited CVs", "all templates", "PDF export", "2 months free"},
		})
	}
	return plans
}
