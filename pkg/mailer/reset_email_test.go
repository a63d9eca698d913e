package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPasswordReset(t *testing.T) {
	data := NewPasswordResetData("Acme", "Jordan", "https://acme.test/password-reset/confirm/?token=abc", 30*time.Minute, "203.0.113.9")

	subject, text, html, err := RenderPasswordReset(data)
	require.NoError(t, err)

	assert.Equal(t, "Password reset on Acme", subject)
	assert.Contains(t, text, "https://acme.test/password-reset/confirm/?token=abc")
	assert.Contains(t, text, "30m0s")
	assert.Contains(t, html, "Hi Jordan,")
	assert.Contains(t, html, "203.0.113.9")
}

func TestRenderPasswordResetDefaultSite(t *testing.T) {
	subject, _, _, err := RenderPasswordReset(map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "Password reset on this site", subject)
}

func TestRenderPasswordResetEscapesName(t *testing.T) {
	data := NewPasswordResetData("Acme", "<script>x</script>", "https://acme.test/r", time.Minute, "")

	_, _, html, err := RenderPasswordReset(data)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>x</script>")
}
