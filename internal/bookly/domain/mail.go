package domain

// MailMessage is one outbound email. Body is HTML.
type MailMessage struct {
	To      []string
	Subject string
	Body    string
}
