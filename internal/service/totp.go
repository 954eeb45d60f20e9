package service

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTPCodec wraps secret generation and time-based code verification.
// It is pure: no storage, no side effects.
type TOTPCodec struct {
	Issuer    string
	Period    uint
	Skew      uint
	Digits    otp.Digits
	Algorithm otp.Algorithm
}

func NewTOTPCodec(issuer string) *TOTPCodec {
	return &TOTPCodec{
		Issuer:    issuer,
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// GenerateSecret returns a fresh base32 secret and the otpauth:// URI
// authenticator apps enroll from. The account name is display-only.
func (c *TOTPCodec) GenerateSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      c.issuer(),
		AccountName: accountName,
		SecretSize:  32,
		Period:      c.period(),
		Digits:      c.digits(),
		Algorithm:   c.algorithm(),
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// ValidateCode accepts codes valid one period before and after the
// current step (clock drift tolerance). Anything that is not exactly
// six ASCII digits is rejected before the library is consulted.
func (c *TOTPCodec) ValidateCode(secret string, code string) bool {
	if !IsSixDigitCode(code) {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, time.Now(), totp.ValidateOpts{
		Period:    c.period(),
		Skew:      c.skew(),
		Digits:    c.digits(),
		Algorithm: c.algorithm(),
	})
	return err == nil && ok
}

// QRCodeDataURI renders the otpauth URI as a 300x300 PNG data URI.
func (c *TOTPCodec) QRCodeDataURI(otpauthURI string) (string, error) {
	key, err := otp.NewKeyFromURL(otpauthURI)
	if err != nil {
		return "", err
	}
	img, err := key.Image(300, 300)
	if err != nil {
		return "", err
	}
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buffer.Bytes()), nil
}

func IsSixDigitCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

func (c *TOTPCodec) issuer() string {
	if strings.TrimSpace(c.Issuer) == "" {
		return "CV Studio"
	}
	return c.Issuer
}

func (c *TOTPCodec) period() uint {
	if c.Period == 0 {
		return 30
	}
	return c.Period
}

func (c *TOTPCodec) skew() uint {
	if c.Skew == 0 {
		return 1
	}
	return c.Skew
}

func (c *TOTPCodec) digits() otp.Digits {
	if c.Digits == 0 {
		return otp.DigitsSix
	}
	return c.Digits
}

func (c *TOTPCodec) algorithm() otp.Algorithm {
	if c.Algorithm == 0 {
		return otp.AlgorithmSHA1
	}
	return c.Algorithm
}
