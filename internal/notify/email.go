package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/ledger-service/internal/config"
	"github.com/Dan9191/ledger-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(*email.Email) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.sendSMTP
	return s
}

func (s *Sender) sendSMTP(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}

// SendDueReminder sends the list of obligations due soon. Nothing is sent
// when items is empty.
func (s *Sender) SendDueReminder(to string, days int, items []models.ViewItem) error {
	if len(items) == 0 {
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("%d payments due in the next %d days", len(items), days)
	e.Text = []byte(reminderBody(days, items))

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send reminder to %s: %v", to, err)
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func reminderBody(days int, items []models.ViewItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following entries are due in the next %d days:\n\n", days)
	for _, item := range items {
		desc := ""
		switch {
		case item.Occurrence != nil:
			desc = item.Occurrence.Description
		case item.Entry != nil:
			desc = item.Entry.Description
		}
		sign := "+"
		if item.Type() == models.TypeExpense {
			sign = "-"
		}
		fmt.Fprintf(&b, "  %s  %s%s  %s\n", item.Date(), sign, item.Value().StringFixed(2), desc)
	}
	b.WriteString("\nProjected entries are settled once marked as received.\n")
	return b.String()
}
