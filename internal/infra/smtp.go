package infra

import (
	"fmt"
	"io"
	"net/smtp"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends receipt e-mails through the configured SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     fmt.Sprintf("%s <%s>", cfg.BusinessName, cfg.SMTPUser),
	}
}

// SendReceipt sends body to a single recipient with the PDF read from
// attachment attached as filename. A nil attachment sends text only.
func (m *Mailer) SendReceipt(to, subject, body, filename string, attachment io.Reader) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if attachment != nil {
		if _, err := e.Attach(attachment, filename, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
