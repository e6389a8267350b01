package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerification(t *testing.T) {
	subject, body, err := Render(KindVerification, "123456")
	require.NoError(t, err)
	assert.Equal(t, "Your verification code", subject)
	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "activate your account")
}

func TestRenderPasswordReset(t *testing.T) {
	subject, body, err := Render(KindPasswordReset, "654321")
	require.NoError(t, err)
	assert.Equal(t, "Your password reset code", subject)
	assert.Contains(t, body, "654321")
	assert.Contains(t, body, "resetting your password")
}

func TestRenderUnknownKind(t *testing.T) {
	_, _, err := Render(Kind("carrier-pigeon"), "123456")
	assert.Error(t, err)
}
