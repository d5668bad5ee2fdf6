package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	SubjectVerifyEmail   = "Verify your email"
	SubjectPasswordReset = "Reset your password"
	SubjectNotification  = "Welcome to Bookly"
)

// VerificationMessage renders the email verification mail for to.
func VerificationMessage(to, link string) (domain.MailMessage, error) {
	return render("verify_email.html", SubjectVerifyEmail, []string{to}, map[string]string{"Link": link})
}

// PasswordResetMessage renders the password reset mail for to.
func PasswordResetMessage(to, link string) (domain.MailMessage, error) {
	return render("password_reset.html", SubjectPasswordReset, []string{to}, map[string]string{"Link": link})
}

// NotificationMessage renders a plain notification. Empty subject or body
// fall back to the welcome text.
func NotificationMessage(to []string, subject, body string) (domain.MailMessage, error) {
	if subject == "" {
		subject = SubjectNotification
	}
	if body == "" {
		body = "Welcome to the app"
	}
	return render("notification.html", subject, to, map[string]string{"Body": body})
}

func render(name, subject string, to []string, data any) (domain.MailMessage, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return domain.MailMessage{}, fmt.Errorf("mail: render %s: %w", name, err)
	}
	return domain.MailMessage{To: to, Subject: subject, Body: buf.String()}, nil
}
