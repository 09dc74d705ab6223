package notify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/UnknownOlympus/chronos/internal/i18n"
	"github.com/UnknownOlympus/chronos/internal/models"
	"gopkg.in/gomail.v2"
)

// ErrNoRecipients is returned when a mail has nobody to go to.
var ErrNoRecipients = errors.New("no mail recipients")

// Sender delivers composed messages. *gomail.Dialer implements it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mail sends leave submissions to HR and decisions to the employee.
type Mail struct {
	sender Sender
	from   string
	hr     []string
	texts  texts
}

// NewMail creates a mail notifier. Submissions are only mailed when hr is not empty.
func NewMail(sender Sender, from string, hr []string, lang string, localizer *i18n.Localizer) *Mail {
	return &Mail{sender: sender, from: from, hr: hr, texts: newTexts(localizer, lang)}
}

func (m *Mail) LeaveSubmitted(ctx context.Context, leave models.LeaveRequest) error {
	if len(m.hr) == 0 {
		return nil
	}
	return m.send(ctx, m.hr, m.texts.localizer.Get(m.texts.lang, "leave.submitted.title"), m.texts.submitted(leave))
}

func (m *Mail) LeaveDecided(ctx context.Context, leave models.LeaveRequest) error {
	if leave.Email == "" {
		return ErrNoRecipients
	}
	subject, body := m.texts.decided(leave)
	return m.send(ctx, []string{leave.Email}, subject, body)
}

// MonthlyReport mails an exported report as an attachment.
func (m *Mail) MonthlyReport(ctx context.Context, to []string, period, filename string, content []byte) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}
	data := map[string]any{"month": period}
	msg := m.message(to,
		m.texts.localizer.GetWithData(m.texts.lang, "report.monthly.subject", data),
		m.texts.localizer.GetWithData(m.texts.lang, "report.monthly.body", data))
	msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	}))
	return m.dial(ctx, msg)
}

func (m *Mail) send(ctx context.Context, to []string, subject, body string) error {
	return m.dial(ctx, m.message(to, subject, body))
}

func (m *Mail) message(to []string, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}

func (m *Mail) dial(ctx context.Context, msg *gomail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
