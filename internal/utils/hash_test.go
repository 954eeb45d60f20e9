package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandomToken(t *testing.T) {
	first, err := GenerateRandomToken(32)
	require.NoError(t, err)
	second, err := GenerateRandomToken(32)
	require.NoError(t, err)

	require.NotEmpty(t, first)
	require.NotEqual(t, first, second)
}

func TestHashTokenIsDeterministic(t *testing.T) {
	require.Equal(t, HashToken("abc"), HashToken("abc"))
	require.NotEqual(t, HashToken("abc"), HashToken("abd"))
	require.NotContains(t, HashToken("abc"), "abc")
}

func TestGenerateBackupCodeFormat(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := GenerateBackupCode()
		require.NoError(t, err)
		require.Len(t, code, 11)
		require.Equal(t, byte('-'), code[5])

		for _, part := range strings.Split(code, "-") {
			require.Len(t, part, 5)
			require.Equal(t, strings.ToUpper(part), part)
		}
		seen[code] = struct{}{}
	}
	require.Len(t, seen, 50, "codes must not repeat")
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
	require.Equal(t, "", NormalizeEmail("   "))
}
