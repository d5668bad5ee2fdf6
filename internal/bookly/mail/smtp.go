package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
)

var ErrNoRecipients = errors.New("mail: no recipients")

// SMTPMailer sends HTML mail through an SMTP relay. Authentication is only
// attempted when Username is set.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// sendMail is swapped in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer returns an SMTPMailer for host:port.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		sendMail: smtp.SendMail,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg domain.MailMessage) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	send := m.sendMail
	if send == nil {
		send = smtp.SendMail
	}

	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	if err := send(addr, auth, m.From, msg.To, m.build(msg, time.Now())); err != nil {
		return fmt.Errorf("mail: smtp send: %w", err)
	}
	return nil
}

// build renders the RFC 5322 message.
func (m *SMTPMailer) build(msg domain.MailMessage, now time.Time) []byte {
	var b bytes.Buffer

	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}

	header("From", m.From)
	header("To", strings.Join(msg.To, ", "))
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", now.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="utf-8"`)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return b.Bytes()
}
