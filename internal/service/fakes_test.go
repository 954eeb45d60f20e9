package service

import (
	"context"
	"sync"
	"time"

	"cvstudio/internal/entity"

	"github.com/google/uuid"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]entity.User)}
}

func (r *fakeUserRepo) put(user entity.User) entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) get(id uuid.UUID) (entity.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	return user, ok
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	stored := r.put(*user)
	user.ID = stored.ID
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.get(id)
	if !ok || !user.IsActive {
		return nil, nil
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) FindByIDAny(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.get(id)
	if !ok {
		return nil, nil
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) FindByIDWithSubscription(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email && user.IsActive {
			copied := user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.put(*user)
	return nil
}

func (r *fakeUserRepo) VerifyEmail(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil
	}
	now := time.Now()
	user.EmailVerifiedAt = &now
	r.users[userID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil
	}
	user.PasswordHash = &passwordHash
	r.users[userID] = user
	return nil
}

func (r *fakeUserRepo) UpdateTwoFactor(_ context.Context, userID uuid.UUID, secret *string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil
	}
	user.TwoFactorSecret = secret
	user.TwoFactorEnabled = enabled
	r.users[userID] = user
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil
	}
	now := time.Now()
	user.LastLoginAt = &now
	r.users[userID] = user
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]entity.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil
	}
	user.IsActive = false
	r.users[userID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

type fakeBackupCodeRepo struct {
	mu     sync.Mutex
	hashes map[uuid.UUID]map[string]struct{}
}

func newFakeBackupCodeRepo() *fakeBackupCodeRepo {
	return &fakeBackupCodeRepo{hashes: make(map[uuid.UUID]map[string]struct{})}
}

func (r *fakeBackupCodeRepo) Replace(_ context.Context, userID uuid.UUID, codeHashes []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(map[string]struct{}, len(codeHashes))
	for _, hash := range codeHashes {
		set[hash] = struct{}{}
	}
	r.hashes[userID] = set
	return nil
}

func (r *fakeBackupCodeRepo) Consume(_ context.Context, userID uuid.UUID, codeHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.hashes[userID]
	if !ok {
		return false, nil
	}
	if _, ok := set[codeHash]; !ok {
		return false, nil
	}
	delete(set, codeHash)
	return true, nil
}

func (r *fakeBackupCodeRepo) DeleteAllByUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hashes, userID)
	return nil
}

func (r *fakeBackupCodeRepo) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.hashes[userID])), nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []entity.AnalyticsEvent
}

func (r *fakeEventRepo) Log(_ context.Context, event *entity.AnalyticsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepo) ListRecent(_ context.Context, limit int) ([]entity.AnalyticsEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.AnalyticsEvent(nil), r.events...), nil
}

func (r *fakeEventRepo) actions() []entity.EventAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]entity.EventAction, 0, len(r.events))
	for _, event := range r.events {
		actions = append(actions, event.Action)
	}
	return actions
}

type fakeVerificationRepo struct {
	mu     sync.Mutex
	tokens []entity.VerificationToken
	sweeps int
}

func (r *fakeVerificationRepo) Create(_ context.Context, token *entity.VerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.tokens = append(r.tokens, *token)
	return nil
}

func (r *fakeVerificationRepo) FindValid(_ context.Context, tokenHash string, tokenType entity.VerificationType) (*entity.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tokens {
		token := r.tokens[i]
		if token.TokenHash == tokenHash && token.Type == tokenType && token.UsedAt == nil && token.ExpiresAt.After(time.Now()) {
			copied := token
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeVerificationRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range r.tokens {
		if r.tokens[i].ID == id {
			r.tokens[i].UsedAt = &now
		}
	}
	return nil
}

func (r *fakeVerificationRepo) DeleteExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweeps++
	kept := r.tokens[:0]
	for _, token := range r.tokens {
		if token.ExpiresAt.After(time.Now()) {
			kept = append(kept, token)
		}
	}
	r.tokens = kept
	return nil
}

type fakeSubscriptionRepo struct {
	mu            sync.Mutex
	subscriptions map[uuid.UUID]entity.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subscriptions: make(map[uuid.UUID]entity.Subscription)}
}

func (r *fakeSubscriptionRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subscription, ok := r.subscriptions[userID]
	if !ok {
		return nil, nil
	}
	copied := subscription
	return &copied, nil
}

func (r *fakeSubscriptionRepo) Upsert(_ context.Context, subscription *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if subscription.ID == uuid.Nil {
		subscription.ID = uuid.New()
	}
	r.subscriptions[subscription.UserID] = *subscription
	return nil
}

func (r *fakeSubscriptionRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, subscription := range r.subscriptions {
		if subscription.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

type fakeCVRepo struct {
	mu  sync.Mutex
	cvs map[uuid.UUID]entity.CV
}

func newFakeCVRepo() *fakeCVRepo {
	return &fakeCVRepo{cvs: make(map[uuid.UUID]entity.CV)}
}

func (r *fakeCVRepo) Create(_ context.Context, cv *entity.CV) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cv.ID == uuid.Nil {
		cv.ID = uuid.New()
	}
	r.cvs[cv.ID] = *cv
	return nil
}

func (r *fakeCVRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.CV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cv, ok := r.cvs[id]
	if !ok {
		return nil, nil
	}
	copied := cv
	return &copied, nil
}

func (r *fakeCVRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]entity.CV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cvs []entity.CV
	for _, cv := range r.cvs {
		if cv.UserID == userID {
			cvs = append(cvs, cv)
		}
	}
	return cvs, nil
}

func (r *fakeCVRepo) Update(_ context.Context, cv *entity.CV) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cvs[cv.ID] = *cv
	return nil
}

func (r *fakeCVRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cvs, id)
	return nil
}

func (r *fakeCVRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.cvs)), nil
}

type fakeEmailSender struct {
	mu              sync.Mutex
	verifyTokens    map[string]string
	resetTokens     map[string]string
	verifySendCount int
}

func newFakeEmailSender() *fakeEmailSender {
	return &fakeEmailSender{
		verifyTokens: make(map[string]string),
		resetTokens:  make(map[string]string),
	}
}

func (s *fakeEmailSender) SendVerificationEmail(_ context.Context, email string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifyTokens[email] = token
	s.verifySendCount++
	return nil
}

func (s *fakeEmailSender) SendPasswordResetEmail(_ context.Context, email string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetTokens[email] = token
	return nil
}

// fakeHasher keeps the password tests off bcrypt.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(hash string, password string) bool {
	return hash == "hashed:"+password
}
