package service

import (
	"context"

	"cvstudio/internal/entity"
	"cvstudio/internal/repository"

	"github.com/google/uuid"
)

type DashboardStats struct {
	Users               int64 `json:"users"`
	CVs                 int64 `json:"cvs"`
	ActiveSubscriptions int64 `json:"active_subscriptions"`
}

type AdminService struct {
	users         repository.UserRepository
	cvs           repository.CVRepository
	subscriptions repository.SubscriptionRepository
	events        repository.AnalyticsEventRepository
}

func NewAdminService(
	users repository.UserRepository,
	cvs repository.CVRepository,
	subscriptions repository.SubscriptionRepository,
	events repository.AnalyticsEventRepository,
) *AdminService {
	return &AdminService{
		users:         users,
		cvs:           cvs,
		subscriptions: subscriptions,
		events:        events,
	}
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	cvs, err := s.cvs.Count(ctx)
	if err != nil {
		return nil, err
	}
	subscriptions, err := s.subscriptions.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		Users:               users,
		CVs:                 cvs,
		ActiveSubscriptions: subscriptions,
	}, nil
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

// DeactivateUser is idempotent: deactivating an already inactive
// account succeeds, so the lookup must not filter on is_active.
func (s *AdminService) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByIDAny(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.users.Deactivate(ctx, userID)
}

// DeleteUser removes the account permanently, deactivated or not;
// owned CVs, subscription and 2FA backup codes cascade at the
// database level.
func (s *AdminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByIDAny(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.users.Delete(ctx, userID)
}

func (s *AdminService) RecentEvents(ctx context.Context, limit int) ([]entity.AnalyticsEvent, error) {
	return s.events.ListRecent(ctx, limit)
}
