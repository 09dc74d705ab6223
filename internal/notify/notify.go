// Package notify delivers leave events to HR and employees.
package notify

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/chronos/internal/i18n"
	"github.com/UnknownOlympus/chronos/internal/models"
)

const dateLayout = "2006-01-02"

// Noop drops every notification.
type Noop struct{}

func (Noop) LeaveSubmitted(context.Context, models.LeaveRequest) error { return nil }
func (Noop) LeaveDecided(context.Context, models.LeaveRequest) error   { return nil }

// Notifier is one delivery channel.
type Notifier interface {
	LeaveSubmitted(ctx context.Context, leave models.LeaveRequest) error
	LeaveDecided(ctx context.Context, leave models.LeaveRequest) error
}

// Multi fans every event out to all channels. A failing channel does not stop the others.
type Multi []Notifier

func (m Multi) LeaveSubmitted(ctx context.Context, leave models.LeaveRequest) error {
	var errs []error
	for _, n := range m {
		if err := n.LeaveSubmitted(ctx, leave); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) LeaveDecided(ctx context.Context, leave models.LeaveRequest) error {
	var errs []error
	for _, n := range m {
		if err := n.LeaveDecided(ctx, leave); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// texts renders leave events in one language.
type texts struct {
	localizer *i18n.Localizer
	lang      string
}

func newTexts(localizer *i18n.Localizer, lang string) texts {
	return texts{localizer: localizer, lang: i18n.NormalizeLanguageCode(lang)}
}

func (t texts) data(leave models.LeaveRequest) map[string]any {
	return map[string]any{
		"name":   leave.FirstName + " " + leave.LastName,
		"code":   leave.EmployeeCode,
		"type":   t.localizer.Get(t.lang, "leave.type."+string(leave.Type)),
		"start":  leave.StartDate.Format(dateLayout),
		"end":    leave.EndDate.Format(dateLayout),
		"days":   leave.Days,
		"status": t.localizer.Get(t.lang, "leave.status."+string(leave.Status)),
		"reason": leave.Reason,
	}
}

func (t texts) submitted(leave models.LeaveRequest) string {
	data := t.data(leave)
	text := t.localizer.Get(t.lang, "leave.submitted.title") + "\n" +
		t.localizer.GetWithData(t.lang, "leave.submitted.body", data)
	if leave.Reason != "" {
		text += "\n" + t.localizer.GetWithData(t.lang, "leave.submitted.reason", data)
	}
	return text
}

func (t texts) decided(leave models.LeaveRequest) (string, string) {
	data := t.data(leave)
	subject := t.localizer.GetWithData(t.lang, "leave.decided.subject", data)
	body := t.localizer.GetWithData(t.lang, "leave.decided.body", data)
	if leave.RejectionReason != nil && *leave.RejectionReason != "" {
		data["reason"] = *leave.RejectionReason
		body += "\n" + t.localizer.GetWithData(t.lang, "leave.decided.reason", data)
	}
	return subject, body
}
