package service

import (
	"context"
	"encoding/json"
	"time"

	"cvstudio/internal/entity"
	"cvstudio/internal/repository"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"gorm.io/datatypes"
)

type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	PriceID  string   `json:"-"`
	Amount   int64    `json:"amount"`
	Currency string   `json:"currency"`
	Interval string   `json:"interval"`
	Features []string `json:"features"`
}

type BillingConfig struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Plans      []Plan
}

// BillingService creates Stripe checkout sessions and serves the local
// subscription read model. The local row is written when the client
// confirms a paid checkout session; webhook-driven sync lives outside
// this service.
type BillingService struct {
	subscriptions repository.SubscriptionRepository
	users         repository.UserRepository
	events        repository.AnalyticsEventRepository
	config        BillingConfig

	retrieveSession func(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

func NewBillingService(
	subscriptions repository.SubscriptionRepository,
	users repository.UserRepository,
	events repository.AnalyticsEventRepository,
	config BillingConfig,
) *BillingService {
	if config.SecretKey != "" {
		stripe.Key = config.SecretKey
	}
	return &BillingService{
		subscriptions: subscriptions,
		users:         users,
		events:        events,
		config:        config,
		retrieveSession: func(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
			params := &stripe.CheckoutSessionParams{}
			params.Context = ctx
			params.AddExpand("subscription")
			return session.Get(sessionID, params)
		},
	}
}

func (s *BillingService) Plans() []Plan {
	return s.config.Plans
}

func (s *BillingService) CreateCheckoutSession(ctx context.Context, userID uuid.UUID, planID string) (string, error) {
	if s.config.SecretKey == "" {
		return "", ErrBillingNotConfigured
	}

	plan, ok := s.findPlan(planID)
	if !ok {
		return "", ErrUnknownPlan
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(plan.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.config.SuccessURL),
		CancelURL:         stripe.String(s.config.CancelURL),
		CustomerEmail:     stripe.String(user.Email),
		ClientReferenceID: stripe.String(user.ID.String()),
	}
	params.Context = ctx
	params.AddMetadata("plan", plan.ID)

	checkoutSession, err := session.New(params)
	if err != nil {
		return "", err
	}

	s.logEvent(ctx, user.ID, entity.EventCheckoutStarted, plan.ID)
	return checkoutSession.URL, nil
}

// ConfirmCheckout is called from the checkout success redirect. It
// retrieves the session from Stripe, checks it belongs to the caller
// and is paid, and upserts the local subscription row.
func (s *BillingService) ConfirmCheckout(ctx context.Context, userID uuid.UUID, sessionID string) (*entity.Subscription, error) {
	if s.config.SecretKey == "" {
		return nil, ErrBillingNotConfigured
	}

	checkoutSession, err := s.retrieveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if checkoutSession.ClientReferenceID != userID.String() {
		return nil, ErrForbidden
	}
	if checkoutSession.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, ErrCheckoutIncomplete
	}

	subscription := &entity.Subscription{
		UserID: userID,
		Status: entity.SubscriptionActive,
		Plan:   checkoutSession.Metadata["plan"],
	}
	if checkoutSession.Customer != nil {
		subscription.StripeCustomerID = &checkoutSession.Customer.ID
	}
	if checkoutSession.Subscription != nil {
		subscription.StripeSubscriptionID = &checkoutSession.Subscription.ID
		if checkoutSession.Subscription.CurrentPeriodEnd > 0 {
			periodEnd := time.Unix(checkoutSession.Subscription.CurrentPeriodEnd, 0)
			subscription.CurrentPeriodEnd = &periodEnd
		}
	}

	if err := s.subscriptions.Upsert(ctx, subscription); err != nil {
		return nil, err
	}

	s.logEvent(ctx, userID, entity.EventCheckoutCompleted, subscription.Plan)
	return subscription, nil
}

// GetSubscription returns the stored billing state; users without a
// subscription row get an inactive placeholder rather than an error.
func (s *BillingService) GetSubscription(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error) {
	subscription, err := s.subscriptions.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return &entity.Subscription{
			UserID: userID,
			Status: entity.SubscriptionInactive,
		}, nil
	}
	return subscription, nil
}

func (s *BillingService) findPlan(planID string) (Plan, bool) {
	for _, plan := range s.config.Plans {
		if plan.ID == planID {
			return plan, true
		}
	}
	return Plan{}, false
}

func (s *BillingService) logEvent(ctx context.Context, userID uuid.UUID, action entity.EventAction, planID string) {
	if s.events == nil {
		return
	}
	metadata, _ := json.Marshal(map[string]any{"plan": planID})
	_ = s.events.Log(ctx, &entity.AnalyticsEvent{
		UserID:   &userID,
		Action:   action,
		Metadata: datatypes.JSON(metadata),
	})
}
