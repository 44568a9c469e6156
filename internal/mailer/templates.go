package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

// Subjects for the auth service's transactional emails.
const (
	SubjectVerifyEmail     = "Verify your email address"
	SubjectResetPassword   = "Reset your password"
	SubjectPasswordChanged = "Your password has been changed"
	SubjectEmailVerified   = "Your email address has been verified"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`
<p>Hi {{.Name}},</p>
<p>Welcome! Please confirm your email address by clicking the link below:</p>
<p><a href="{{.Link}}">Verify my email</a></p>
<p>The link is valid for {{.TTL}}. If you did not create this account, you can ignore this email.</p>
`))

var resetTmpl = template.Must(template.New("reset").Parse(`
<p>Hi {{.Name}},</p>
<p>We received a request to reset your password. Click the link below to choose a new one:</p>
<p><a href="{{.Link}}">Reset my password</a></p>
<p>The link is valid for {{.TTL}} and can be used once. If you did not request this, you can ignore this email; your password is unchanged.</p>
`))

var passwordChangedTmpl = template.Must(template.New("password_changed").Parse(`
<p>Hi {{.Name}},</p>
<p>Your password was just changed. All active sessions have been signed out.</p>
<p>If this was not you, reset your password immediately and contact support.</p>
`))

var emailVerifiedTmpl = template.Must(template.New("email_verified").Parse(`
<p>Hi {{.Name}},</p>
<p>Your email address has been verified. Your account is now fully active.</p>
`))

type linkEmail struct {
	Name string
	Link string
	TTL  string
}

type noticeEmail struct {
	Name string
}

// VerificationEmail renders the email-verification message. rawToken is the
// undigested one-time token; it appears only in this email.
func VerificationEmail(clientURL, name, rawToken, ttl string) (string, error) {
	return render(verificationTmpl, linkEmail{
		Name: name,
		Link: fmt.Sprintf("%s/verify-email/%s", strings.TrimRight(clientURL, "/"), rawToken),
		TTL:  ttl,
	})
}

// ResetEmail renders the password-reset message.
func ResetEmail(clientURL, name, rawToken, ttl string) (string, error) {
	return render(resetTmpl, linkEmail{
		Name: name,
		Link: fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(clientURL, "/"), rawToken),
		TTL:  ttl,
	})
}

// PasswordChangedEmail renders the confirmation sent after a completed reset.
func PasswordChangedEmail(name string) (string, error) {
	return render(passwordChangedTmpl, noticeEmail{Name: name})
}

// EmailVerifiedEmail renders the confirmation sent after verification.
func EmailVerifiedEmail(name string) (string, error) {
	return render(emailVerifiedTmpl, noticeEmail{Name: name})
}

func render(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return sb.String(), nil
}
