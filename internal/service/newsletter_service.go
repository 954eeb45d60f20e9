package service

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cvstudio/internal/entity"
	"cvstudio/internal/repository"
	"cvstudio/internal/utils"

	"github.com/google/uuid"
)

// MailchimpClient upserts list members over the Mailchimp v3 API. The
// datacenter is the suffix of the API key ("...-us21").
type MailchimpClient struct {
	APIKey     string
	ListID     string
	HTTPClient *http.Client
	BaseURL    string
}

func NewMailchimpClient(apiKey string, listID string) *MailchimpClient {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(listID) == "" {
		return nil
	}
	parts := strings.Split(apiKey, "-")
	if len(parts) != 2 {
		return nil
	}
	return &MailchimpClient{
		APIKey:     apiKey,
		ListID:     listID,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    fmt.Sprintf("https://%s.api.mailchimp.com/3.0", parts[1]),
	}
}

func (c *MailchimpClient) Subscribe(ctx context.Context, email string) error {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	memberHash := hex.EncodeToString(sum[:])

	payload, err := json.Marshal(map[string]any{
		"email_address": email,
		"status_if_new": "subscribed",
		"status":        "subscribed",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/lists/%s/members/%s", c.BaseURL, c.ListID, memberHash)
	request, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.SetBasicAuth("anystring", c.APIKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.HTTPClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("mailchimp subscribe failed with status %d", response.StatusCode)
	}
	return nil
}

type NewsletterService struct {
	client *MailchimpClient
	users  repository.UserRepository
	events repository.AnalyticsEventRepository
}

func NewNewsletterService(client *MailchimpClient, users repository.UserRepository, events repository.AnalyticsEventRepository) *NewsletterService {
	return &NewsletterService{client: client, users: users, events: events}
}

// Subscribe adds the address to the marketing list and, when it belongs
// to a known account, records the consent on the user row.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return ErrInvalidInput
	}
	if s.client == nil {
		return errors.New("newsletter is not configured")
	}

	if err := s.client.Subscribe(ctx, email); err != nil {
		return err
	}

	var userID *uuid.UUID
	if user, err := s.users.FindByEmail(ctx, email); err == nil && user != nil {
		user.MarketingConsent = true
		_ = s.users.Update(ctx, user)
		userID = &user.ID
	}

	if s.events != nil {
		_ = s.events.Log(ctx, &entity.AnalyticsEvent{
			UserID: userID,
			Action: entity.EventNewsletterOptIn,
		})
	}
	return nil
}
