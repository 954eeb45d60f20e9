package service

import (
	"context"
	"testing"
	"time"

	"cvstudio/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type billingFixture struct {
	svc           *BillingService
	users         *fakeUserRepo
	subscriptions *fakeSubscriptionRepo
	events        *fakeEventRepo
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	users := newFakeUserRepo()
	subscriptions := newFakeSubscriptionRepo()
	events := &fakeEventRepo{}
	svc := NewBillingService(subscriptions, users, events, BillingConfig{
		SecretKey: "sk_test_key",
		Plans: []Plan{
			{ID: "pro_monthly", Name: "Pro Monthly", PriceID: "price_123", Amount: 999, Currency: "usd", Interval: "month"},
		},
	})
	return &billingFixture{svc: svc, users: users, subscriptions: subscriptions, events: events}
}

func paidSession(userID uuid.UUID, plan string) *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		ClientReferenceID: userID.String(),
		PaymentStatus:     stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:          map[string]string{"plan": plan},
		Customer:          &stripe.Customer{ID: "cus_123"},
		Subscription: &stripe.Subscription{
			ID:               "sub_123",
			CurrentPeriodEnd: time.Now().Add(30 * 24 * time.Hour).Unix(),
		},
	}
}

func TestConfirmCheckoutRecordsSubscription(t *testing.T) {
	f := newBillingFixture(t)
	userID := uuid.New()
	f.svc.retrieveSession = func(context.Context, string) (*stripe.CheckoutSession, error) {
		return paidSession(userID, "pro_monthly"), nil
	}

	subscription, err := f.svc.ConfirmCheckout(context.Background(), userID, "cs_test_123")
	require.NoError(t, err)
	require.Equal(t, entity.SubscriptionActive, subscription.Status)
	require.Equal(t, "pro_monthly", subscription.Plan)
	require.NotNil(t, subscription.StripeCustomerID)
	require.Equal(t, "cus_123", *subscription.StripeCustomerID)
	require.NotNil(t, subscription.CurrentPeriodEnd)

	stored, err := f.subscriptions.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.True(t, stored.Status.IsActive())

	require.Contains(t, f.events.actions(), entity.EventCheckoutCompleted)
}

func TestConfirmCheckoutRejectsForeignSession(t *testing.T) {
	f := newBillingFixture(t)
	f.svc.retrieveSession = func(context.Context, string) (*stripe.CheckoutSession, error) {
		return paidSession(uuid.New(), "pro_monthly"), nil
	}

	userID := uuid.New()
	_, err := f.svc.ConfirmCheckout(context.Background(), userID, "cs_test_123")
	require.ErrorIs(t, err, ErrForbidden)

	stored, err := f.subscriptions.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestConfirmCheckoutRejectsUnpaidSession(t *testing.T) {
	f := newBillingFixture(t)
	userID := uuid.New()
	f.svc.retrieveSession = func(context.Context, string) (*stripe.CheckoutSession, error) {
		checkoutSession := paidSession(userID, "pro_monthly")
		checkoutSession.PaymentStatus = stripe.CheckoutSessionPaymentStatusUnpaid
		return checkoutSession, nil
	}

	_, err := f.svc.ConfirmCheckout(context.Background(), userID, "cs_test_123")
	require.ErrorIs(t, err, ErrCheckoutIncomplete)

	stored, err := f.subscriptions.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestConfirmCheckoutWithoutBillingConfigured(t *testing.T) {
	svc := NewBillingService(newFakeSubscriptionRepo(), newFakeUserRepo(), &fakeEventRepo{}, BillingConfig{})
	_, err := svc.ConfirmCheckout(context.Background(), uuid.New(), "cs_test_123")
	require.ErrorIs(t, err, ErrBillingNotConfigured)
}

func TestGetSubscriptionDefaultsToInactive(t *testing.T) {
	f := newBillingFixture(t)
	subscription, err := f.svc.GetSubscription(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Equal(t, entity.SubscriptionInactive, subscription.Status)
	require.False(t, subscription.Status.IsActive())
}
