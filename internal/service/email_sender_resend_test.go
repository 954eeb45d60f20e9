package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewResendEmailSenderRequiresConfig(t *testing.T) {
	require.Nil(t, NewResendEmailSender("", "noreply@example.com", "https://app.example.com"))
	require.Nil(t, NewResendEmailSender("re_key", "   ", "https://app.example.com"))
	require.NotNil(t, NewResendEmailSender("re_key", "noreply@example.com", "https://app.example.com"))
}

func TestResendEmailSenderBuildsTokenLinks(t *testing.T) {
	sender := NewResendEmailSender("re_key", "noreply@example.com", "https://app.example.com/")
	require.NotNil(t, sender)

	require.Equal(t, "https://app.example.com/verify-email?token=abc", sender.buildURL(sender.VerifyPath, "abc"))
	require.Equal(t, "https://app.example.com/reset-password?token=abc", sender.buildURL(sender.ResetPath, "abc"))
}

// A canceled context must abort the API call before any network I/O,
// which also proves the caller's context reaches the HTTP request.
func TestResendEmailSenderHonorsContext(t *testing.T) {
	sender := NewResendEmailSender("re_key", "noreply@example.com", "https://app.example.com")
	require.NotNil(t, sender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.SendVerificationEmail(ctx, "user@example.com", "token")
	require.ErrorIs(t, err, context.Canceled)

	err = sender.SendPasswordResetEmail(ctx, "user@example.com", "token")
	require.ErrorIs(t, err, context.Canceled)
}
