package service

import (
	"context"
	"testing"

	"cvstudio/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	svc           *AdminService
	users         *fakeUserRepo
	cvs           *fakeCVRepo
	subscriptions *fakeSubscriptionRepo
	events        *fakeEventRepo
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	users := newFakeUserRepo()
	cvs := newFakeCVRepo()
	subscriptions := newFakeSubscriptionRepo()
	events := &fakeEventRepo{}
	return &adminFixture{
		svc:           NewAdminService(users, cvs, subscriptions, events),
		users:         users,
		cvs:           cvs,
		subscriptions: subscriptions,
		events:        events,
	}
}

func TestAdminDashboardCounts(t *testing.T) {
	f := newAdminFixture(t)
	user := f.users.put(entity.User{Email: "alice@example.com", IsActive: true})
	require.NoError(t, f.cvs.Create(context.Background(), &entity.CV{UserID: user.ID, Title: "CV"}))
	require.NoError(t, f.subscriptions.Upsert(context.Background(), &entity.Subscription{
		UserID: user.ID,
		Status: entity.SubscriptionActive,
	}))

	stats, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Users)
	require.Equal(t, int64(1), stats.CVs)
	require.Equal(t, int64(1), stats.ActiveSubscriptions)
}

func TestAdminDeactivateUnknownUser(t *testing.T) {
	f := newAdminFixture(t)
	require.ErrorIs(t, f.svc.DeactivateUser(context.Background(), uuid.New()), ErrUserNotFound)
	require.ErrorIs(t, f.svc.DeleteUser(context.Background(), uuid.New()), ErrUserNotFound)
}

// A deactivated account must stay reachable for admin operations even
// though regular lookups filter it out.
func TestAdminDeleteAfterDeactivate(t *testing.T) {
	f := newAdminFixture(t)
	user := f.users.put(entity.User{Email: "alice@example.com", IsActive: true})

	require.NoError(t, f.svc.DeactivateUser(context.Background(), user.ID))

	hidden, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Nil(t, hidden, "regular lookup must hide the deactivated account")

	require.NoError(t, f.svc.DeleteUser(context.Background(), user.ID))

	_, ok := f.users.get(user.ID)
	require.False(t, ok, "account must be gone after delete")
}

func TestAdminDeactivateIsIdempotent(t *testing.T) {
	f := newAdminFixture(t)
	user := f.users.put(entity.User{Email: "alice@example.com", IsActive: true})

	require.NoError(t, f.svc.DeactivateUser(context.Background(), user.ID))
	require.NoError(t, f.svc.DeactivateUser(context.Background(), user.ID))

	stored, ok := f.users.get(user.ID)
	require.True(t, ok)
	require.False(t, stored.IsActive)
}
