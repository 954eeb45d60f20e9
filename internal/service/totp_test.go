package service

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestTOTPCodecGenerateSecret(t *testing.T) {
	codec := NewTOTPCodec("CV Studio")

	secret, uri, err := codec.GenerateSecret("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, secret)
	require.True(t, strings.HasPrefix(uri, "otpauth://totp/"))
	require.Contains(t, uri, "CV%20Studio")
	require.Contains(t, uri, "alice@example.com")
}

func TestTOTPCodecValidateCode(t *testing.T) {
	codec := NewTOTPCodec("CV Studio")
	secret, _, err := codec.GenerateSecret("alice@example.com")
	require.NoError(t, err)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	require.True(t, codec.ValidateCode(secret, code))
}

func TestTOTPCodecAcceptsAdjacentWindow(t *testing.T) {
	codec := NewTOTPCodec("CV Studio")
	secret, _, err := codec.GenerateSecret("alice@example.com")
	require.NoError(t, err)

	// Skew of one period in both directions covers client clock drift.
	previous, err := totp.GenerateCode(secret, time.Now().Add(-30*time.Second))
	require.NoError(t, err)
	next, err := totp.GenerateCode(secret, time.Now().Add(30*time.Second))
	require.NoError(t, err)

	require.True(t, codec.ValidateCode(secret, previous))
	require.True(t, codec.ValidateCode(secret, next))
}

func TestTOTPCodecRejectsOutsideWindow(t *testing.T) {
	codec := NewTOTPCodec("CV Studio")
	secret, _, err := codec.GenerateSecret("alice@example.com")
	require.NoError(t, err)

	// Codes two or more periods away lie outside the accepted skew. The
	// accepted set includes +60s in case validation crosses a period
	// boundary mid-test; a stale code can still collide with an accepted
	// one by chance, so skip on collision instead of failing.
	now := time.Now()
	valid := make(map[string]struct{})
	for _, offset := range []time.Duration{-30 * time.Second, 0, 30 * time.Second, 60 * time.Second} {
		code, err := totp.GenerateCode(secret, now.Add(offset))
		require.NoError(t, err)
		valid[code] = struct{}{}
	}

	for _, offset := range []time.Duration{-60 * time.Second, 90 * time.Second} {
		stale, err := totp.GenerateCode(secret, now.Add(offset))
		require.NoError(t, err)
		if _, ok := valid[stale]; ok {
			t.Skipf("code at offset %s collides with an accepted window", offset)
		}
		require.False(t, codec.ValidateCode(secret, stale), "code at offset %s must be rejected", offset)
	}
}

func TestTOTPCodecRejectsMalformedInput(t *testing.T) {
	codec := NewTOTPCodec("CV Studio")
	secret, _, err := codec.GenerateSecret("alice@example.com")
	require.NoError(t, err)

	for _, code := range []string{"", "12345", "1234567", "12345a", "abcdef", "12 456", "000000\n"} {
		require.False(t, codec.ValidateCode(secret, code), "code %q must be rejected", code)
	}
}

func TestTOTPCodecRejectsCodeAgainstGarbageSecret(t *testing.T) {
	codec := NewTOTPCodec("CV Studio")
	require.False(t, codec.ValidateCode("not-a-base32-secret!!!", "123456"))
}

func TestTOTPCodecQRCodeDataURI(t *testing.T) {
	codec := NewTOTPCodec("CV Studio")
	_, uri, err := codec.GenerateSecret("alice@example.com")
	require.NoError(t, err)

	dataURI, err := codec.QRCodeDataURI(uri)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dataURI, "data:image/png;base64,"))
	require.Greater(t, len(dataURI), 100)
}

func TestIsSixDigitCode(t *testing.T) {
	cases := map[string]bool{
		"000000":  true,
		"123456":  true,
		"999999":  true,
		"":        false,
		"12345":   false,
		"1234567": false,
		"12345a":  false,
		"12.456":  false,
		"１２３４５６":  false,
	}
	for code, want := range cases {
		require.Equal(t, want, IsSixDigitCode(code), "code %q", code)
	}
}
