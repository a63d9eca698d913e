package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// TemplatePasswordReset is the job template name for password-reset mail.
const TemplatePasswordReset = "password_reset"

const resetSubjectPrefix = "Password reset"

var resetHTMLTpl = template.Must(template.New("password_reset").Parse(`<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Someone requested a password reset for the account registered to this
  address on {{.SiteName}}. If this was you, follow the link below within
  {{.ExpiresIn}}; otherwise you can safely ignore this message.</p>
  <p><a href="{{.ResetURL}}">Reset your password</a></p>
  <p>Request origin: {{.RequestIP}}</p>
</body>
</html>`))

// NewPasswordResetData builds the template data carried on an EmailJob.
func NewPasswordResetData(siteName, name, resetURL string, expiresIn time.Duration, requestIP string) map[string]any {
	return map[string]any{
		"SiteName":  siteName,
		"Name":      name,
		"ResetURL":  resetURL,
		"ExpiresIn": expiresIn.String(),
		"RequestIP": requestIP,
	}
}

// RenderPasswordReset renders the reset email. The subject always contains
// "Password reset" so downstream filters and tests can rely on it.
func RenderPasswordReset(data map[string]any) (subject, text, html string, err error) {
	site, _ := data["SiteName"].(string)
	if site == "" {
		site = "this site"
	}
	subject = fmt.Sprintf("%s on %s", resetSubjectPrefix, site)

	name, _ := data["Name"].(string)
	resetURL, _ := data["ResetURL"].(string)
	expires, _ := data["ExpiresIn"].(string)
	text = fmt.Sprintf("Hi %s,\n\nFollow this link to reset your password on %s (valid for %s):\n%s\n\nIf you did not request this, ignore this message.\n",
		name, site, expires, resetURL)

	var buf bytes.Buffer
	if err = resetHTMLTpl.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render password reset email: %w", err)
	}
	return subject, text, buf.String(), nil
}
