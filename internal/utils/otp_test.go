package utils

import (
	"encoding/base64"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateOTPStaysInSixDigitRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		n, err := strconv.Atoi(otp)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}

func TestNewSessionTokenIsOpaqueButDecodable(t *testing.T) {
	tok := NewSessionToken("alice@example.com")
	raw, err := base64.StdEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "alice@example.com_"))
}

func TestNewSessionTokenDiffersAcrossCalls(t *testing.T) {
	a := NewSessionToken("alice@example.com")
	b := NewSessionToken("alice@example.com")
	assert.NotEqual(t, a, b)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "secret123"))
	assert.False(t, VerifyPassword(hash, "secret124"))
}

func TestHashPasswordZeroCostUsesDefault(t *testing.T) {
	hash, err := HashPassword("secret123", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
