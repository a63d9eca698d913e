package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizkypratama/go-accounts/pkg/helpers"
	"github.com/rizkypratama/go-accounts/pkg/mailer"
)

func TestPasswordResetFormRenders(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/password-reset/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Reset Your Password")
}

func TestPasswordResetRequestKnownEmail(t *testing.T) {
	app := newTestApp(t)
	u := app.registerUser(t, "testuser", "test@example.com", "testpass123")

	w := app.postForm("/password-reset/", url.Values{"email": {"test@example.com"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/password-reset/done/", w.Header().Get("Location"))

	require.Len(t, app.mails.jobs, 1)
	job := app.mails.jobs[0]
	assert.Equal(t, "test@example.com", job.To)
	assert.Equal(t, mailer.TemplatePasswordReset, job.Template)
	assert.Contains(t, job.Data["ResetURL"], "http://testsite.local/password-reset/confirm/?token=")

	// The emailed token resolves to the user.
	require.Len(t, app.tokens.tokens, 1)
	for tok, uid := range app.tokens.tokens {
		assert.Equal(t, u.ID, uid)
		assert.Contains(t, job.Data["ResetURL"], tok)
	}
}

func TestPasswordResetRequestUnknownEmail(t *testing.T) {
	app := newTestApp(t)
	app.registerUser(t, "testuser", "test@example.com", "testpass123")

	w := app.postForm("/password-reset/", url.Values{"email": {"nobody@example.com"}})

	// Identical redirect, no email, no token. The response gives no hint
	// whether the address is registered.
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/password-reset/done/", w.Header().Get("Location"))
	assert.Empty(t, app.mails.jobs)
	assert.Empty(t, app.tokens.tokens)
}

func TestPasswordResetRequestInvalidEmail(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/password-reset/", url.Values{"email": {"not-an-email"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please correct the errors below.")
	assert.Empty(t, app.mails.jobs)
}

func TestPasswordResetEmailSubject(t *testing.T) {
	data := mailer.NewPasswordResetData("Testsite", "Test", "http://testsite.local/x", resetTokenTTL, "127.0.0.1")

	subject, text, html, err := mailer.RenderPasswordReset(data)

	require.NoError(t, err)
	assert.Contains(t, subject, "Password reset")
	assert.Contains(t, text, "http://testsite.local/x")
	assert.Contains(t, html, "http://testsite.local/x")
}

func TestPasswordResetDonePage(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/password-reset/done/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Check your email")
}

func TestPasswordResetConfirmFormCarriesToken(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/password-reset/confirm/?token=abc123")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="abc123"`)
}

func TestPasswordResetConfirmChangesPassword(t *testing.T) {
	app := newTestApp(t)
	u := app.registerUser(t, "testuser", "test@example.com", "testpass123")
	require.NoError(t, app.tokens.Save(context.Background(), "reset-tok", u.ID, resetTokenTTL))

	w := app.postForm("/password-reset/confirm/", url.Values{
		"token":        {"reset-tok"},
		"new_password": {"newpass456"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login/", w.Header().Get("Location"))

	// New password works, old does not.
	got, err := app.repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(got.PasswordHash, "newpass456"))
	assert.False(t, helpers.CompareHashAndPassword(got.PasswordHash, "testpass123"))

	// Token is single use.
	assert.Empty(t, app.tokens.tokens)
}

func TestPasswordResetConfirmInvalidToken(t *testing.T) {
	app := newTestApp(t)
	app.registerUser(t, "testuser", "test@example.com", "testpass123")

	w := app.postForm("/password-reset/confirm/", url.Values{
		"token":        {"bogus"},
		"new_password": {"newpass456"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or has expired")
}

func TestPasswordResetConfirmShortPassword(t *testing.T) {
	app := newTestApp(t)
	u := app.registerUser(t, "testuser", "test@example.com", "testpass123")
	require.NoError(t, app.tokens.Save(context.Background(), "reset-tok", u.ID, resetTokenTTL))

	w := app.postForm("/password-reset/confirm/", url.Values{
		"token":        {"reset-tok"},
		"new_password": {"short"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please correct the errors below.")

	// Password unchanged, token still valid.
	got, err := app.repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, helpers.CompareHashAndPassword(got.PasswordHash, "testpass123"))
	assert.Len(t, app.tokens.tokens, 1)
}
