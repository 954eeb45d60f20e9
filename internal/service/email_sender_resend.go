package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/resendlabs/resend-go"
)

// ResendEmailSender delivers transactional mail through the Resend API.
type ResendEmailSender struct {
	Client     *resend.Client
	From       string
	AppBaseURL string
	VerifyPath string
	ResetPath  string
}

func NewResendEmailSender(apiKey string, from string, appBaseURL string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return nil
	}
	return &ResendEmailSender{
		Client:     resend.NewClient(apiKey),
		From:       from,
		AppBaseURL: strings.TrimRight(appBaseURL, "/"),
		VerifyPath: "/verify-email",
		ResetPath:  "/reset-password",
	}
}

func (s *ResendEmailSender) SendVerificationEmail(ctx context.Context, email string, token string) error {
	link := s.buildURL(s.VerifyPath, token)
	return s.send(ctx, email,
		"Verify your email",
		fmt.Sprintf("<p>Click to verify your email:</p><p><a href=%q>Verify Email</a></p>", link),
		fmt.Sprintf("Verify your email: %s", link),
	)
}

func (s *ResendEmailSender) SendPasswordResetEmail(ctx context.Context, email string, token string) error {
	link := s.buildURL(s.ResetPath, token)
	return s.send(ctx, email,
		"Reset your password",
		fmt.Sprintf("<p>Click to reset your password:</p><p><a href=%q>Reset Password</a></p>", link),
		fmt.Sprintf("Reset your password: %s", link),
	)
}

func (s *ResendEmailSender) buildURL(path string, token string) string {
	if s.AppBaseURL == "" {
		return token
	}
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s%s?token=%s", s.AppBaseURL, path, token)
}

// send builds the request through the SDK but attaches the caller's
// context before performing it; Emails.Send has no context variant in
// this resend-go release.
func (s *ResendEmailSender) send(ctx context.Context, to string, subject string, html string, text string) error {
	req, err := s.Client.NewRequest("POST", "emails", &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	if err != nil {
		return err
	}
	var resp resend.SendEmailResponse
	_, err = s.Client.Perform(req.WithContext(ctx), &resp)
	return err
}
