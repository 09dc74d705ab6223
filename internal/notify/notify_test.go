package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/UnknownOlympus/chronos/internal/i18n"
	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/UnknownOlympus/chronos/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func localizer(t *testing.T) *i18n.Localizer {
	t.Helper()
	l, err := i18n.NewLocalizer()
	require.NoError(t, err)
	return l
}

func leaveRequest(status models.LeaveStatus) models.LeaveRequest {
	return models.LeaveRequest{
		ID:           7,
		EmployeeCode: "EMP001",
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@corp.io",
		Type:         models.LeaveAnnual,
		StartDate:    time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC),
		Days:         3,
		Reason:       "family trip",
		Status:       status,
	}
}

// telegramAPI answers sendMessage like the Bot API and records what it got.
type telegramAPI struct {
	mu       sync.Mutex
	requests []map[string]any
	fail     bool
}

func (a *telegramAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	_ = json.NewDecoder(r.Body).Decode(&payload)
	a.mu.Lock()
	a.requests = append(a.requests, payload)
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if a.fail || r.URL.Path != "/bottest-token/sendMessage" {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
		return
	}
	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":-100,"type":"group"},"text":"x"}}`))
}

func newTelegram(t *testing.T, api *telegramAPI, lang string) *notify.Telegram {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	tg, err := notify.NewTelegram(notify.TelegramConfig{
		Token:  "test-token",
		URL:    server.URL,
		ChatID: -100,
		Lang:   lang,
		Client: server.Client(),
	}, localizer(t))
	require.NoError(t, err)
	return tg
}

func TestTelegram(t *testing.T) {
	t.Parallel()

	t.Run("success - submission goes to the HR chat", func(t *testing.T) {
		t.Parallel()
		api := &telegramAPI{}
		tg := newTelegram(t, api, "en")

		err := tg.LeaveSubmitted(t.Context(), leaveRequest(models.LeavePending))

		require.NoError(t, err)
		require.Len(t, api.requests, 1)
		assert.Equal(t, "-100", fmt.Sprint(api.requests[0]["chat_id"]))
		text := fmt.Sprint(api.requests[0]["text"])
		assert.Contains(t, text, "New leave request")
		assert.Contains(t, text, "Jane Doe (EMP001) requested Annual leave from 2024-10-05 to 2024-10-07 (3 days).")
		assert.Contains(t, text, "Reason: family trip")
	})

	t.Run("success - decision in indonesian", func(t *testing.T) {
		t.Parallel()
		api := &telegramAPI{}
		tg := newTelegram(t, api, "id-ID")

		err := tg.LeaveDecided(t.Context(), leaveRequest(models.LeaveApproved))

		require.NoError(t, err)
		require.Len(t, api.requests, 1)
		assert.Equal(t, "Pengajuan cuti Anda disetujui (EMP001)", fmt.Sprint(api.requests[0]["text"]))
	})

	t.Run("error - api rejects the message", func(t *testing.T) {
		t.Parallel()
		api := &telegramAPI{fail: true}
		tg := newTelegram(t, api, "en")

		err := tg.LeaveSubmitted(t.Context(), leaveRequest(models.LeavePending))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send telegram message")
	})

	t.Run("error - canceled context sends nothing", func(t *testing.T) {
		t.Parallel()
		api := &telegramAPI{}
		tg := newTelegram(t, api, "en")
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err := tg.LeaveSubmitted(ctx, leaveRequest(models.LeavePending))

		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, api.requests)
	})
}

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	s.sent = append(s.sent, m...)
	return s.err
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestMail(t *testing.T) {
	t.Parallel()

	t.Run("success - rejection goes to the employee with the reason", func(t *testing.T) {
		t.Parallel()
		sender := &fakeSender{}
		mail := notify.NewMail(sender, "hr@corp.io", nil, "en", localizer(t))
		leave := leaveRequest(models.LeaveRejected)
		reason := "understaffed"
		leave.RejectionReason = &reason

		err := mail.LeaveDecided(t.Context(), leave)

		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		msg := sender.sent[0]
		assert.Equal(t, []string{"jane@corp.io"}, msg.GetHeader("To"))
		assert.Equal(t, []string{"Your leave request was rejected"}, msg.GetHeader("Subject"))
		body := render(t, msg)
		assert.Contains(t, body, "Hello Jane Doe")
		assert.Contains(t, body, "Reason: understaffed")
	})

	t.Run("success - submissions are skipped without HR recipients", func(t *testing.T) {
		t.Parallel()
		sender := &fakeSender{}
		mail := notify.NewMail(sender, "hr@corp.io", nil, "en", localizer(t))

		require.NoError(t, mail.LeaveSubmitted(t.Context(), leaveRequest(models.LeavePending)))
		assert.Empty(t, sender.sent)
	})

	t.Run("success - submissions go to HR", func(t *testing.T) {
		t.Parallel()
		sender := &fakeSender{}
		mail := notify.NewMail(sender, "noreply@corp.io", []string{"hr@corp.io"}, "en", localizer(t))

		require.NoError(t, mail.LeaveSubmitted(t.Context(), leaveRequest(models.LeavePending)))
		require.Len(t, sender.sent, 1)
		assert.Equal(t, []string{"hr@corp.io"}, sender.sent[0].GetHeader("To"))
		assert.Equal(t, []string{"New leave request"}, sender.sent[0].GetHeader("Subject"))
	})

	t.Run("error - employee without email", func(t *testing.T) {
		t.Parallel()
		mail := notify.NewMail(&fakeSender{}, "hr@corp.io", nil, "en", localizer(t))
		leave := leaveRequest(models.LeaveApproved)
		leave.Email = ""

		require.ErrorIs(t, mail.LeaveDecided(t.Context(), leave), notify.ErrNoRecipients)
	})

	t.Run("error - dial failure is wrapped", func(t *testing.T) {
		t.Parallel()
		mail := notify.NewMail(&fakeSender{err: assert.AnError}, "hr@corp.io", nil, "en", localizer(t))

		err := mail.LeaveDecided(t.Context(), leaveRequest(models.LeaveApproved))

		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("success - monthly report carries the attachment", func(t *testing.T) {
		t.Parallel()
		sender := &fakeSender{}
		mail := notify.NewMail(sender, "hr@corp.io", nil, "en", localizer(t))

		err := mail.MonthlyReport(t.Context(), []string{"boss@corp.io"}, "2024-09", "attendance-2024-09.xlsx", []byte("xlsx"))

		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, []string{"Attendance report 2024-09"}, sender.sent[0].GetHeader("Subject"))
		assert.Contains(t, render(t, sender.sent[0]), "attendance-2024-09.xlsx")
	})
}

type countingNotifier struct {
	calls int
	err   error
}

func (c *countingNotifier) LeaveSubmitted(context.Context, models.LeaveRequest) error {
	c.calls++
	return c.err
}

func (c *countingNotifier) LeaveDecided(context.Context, models.LeaveRequest) error {
	c.calls++
	return c.err
}

func TestMulti(t *testing.T) {
	t.Parallel()
	failing := &countingNotifier{err: assert.AnError}
	ok := &countingNotifier{}
	multi := notify.Multi{failing, ok, notify.Noop{}}

	err := multi.LeaveSubmitted(t.Context(), leaveRequest(models.LeavePending))
	require.ErrorIs(t, err, assert.AnError)

	require.ErrorIs(t, multi.LeaveDecided(t.Context(), leaveRequest(models.LeaveApproved)), assert.AnError)
	assert.Equal(t, 2, failing.calls)
	assert.Equal(t, 2, ok.calls)
}

// blockingNotifier holds every delivery until released.
type blockingNotifier struct {
	release chan struct{}
	mu      sync.Mutex
	events  []string
	ctxErrs []error
	err     error
}

func (b *blockingNotifier) record(ctx context.Context, event string) error {
	<-b.release
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	b.ctxErrs = append(b.ctxErrs, ctx.Err())
	return b.err
}

func (b *blockingNotifier) LeaveSubmitted(ctx context.Context, _ models.LeaveRequest) error {
	return b.record(ctx, "submitted")
}

func (b *blockingNotifier) LeaveDecided(ctx context.Context, _ models.LeaveRequest) error {
	return b.record(ctx, "decided")
}

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("success - returns before delivery and drains on wait", func(t *testing.T) {
		t.Parallel()
		next := &blockingNotifier{release: make(chan struct{})}
		async := notify.NewAsync(discardLogger(), next, time.Minute)

		ctx, cancel := context.WithCancel(t.Context())
		start := time.Now()
		require.NoError(t, async.LeaveSubmitted(ctx, leaveRequest(models.LeavePending)))
		require.NoError(t, async.LeaveDecided(ctx, leaveRequest(models.LeaveApproved)))
		assert.Less(t, time.Since(start), time.Second)

		// the request is over before the channel answers
		cancel()
		close(next.release)
		async.Wait()

		assert.ElementsMatch(t, []string{"submitted", "decided"}, next.events)
		assert.Equal(t, []error{nil, nil}, next.ctxErrs)
	})

	t.Run("success - delivery errors are swallowed", func(t *testing.T) {
		t.Parallel()
		next := &blockingNotifier{release: make(chan struct{}), err: assert.AnError}
		close(next.release)
		async := notify.NewAsync(discardLogger(), next, 0)

		require.NoError(t, async.LeaveSubmitted(t.Context(), leaveRequest(models.LeavePending)))
		async.Wait()

		assert.Equal(t, []string{"submitted"}, next.events)
	})

	t.Run("error - slow delivery hits the timeout", func(t *testing.T) {
		t.Parallel()
		var got error
		done := make(chan struct{})
		slow := notifierFunc(func(ctx context.Context) error {
			defer close(done)
			<-ctx.Done()
			got = ctx.Err()
			return got
		})
		async := notify.NewAsync(discardLogger(), slow, 10*time.Millisecond)

		require.NoError(t, async.LeaveDecided(t.Context(), leaveRequest(models.LeaveRejected)))
		async.Wait()

		<-done
		require.ErrorIs(t, got, context.DeadlineExceeded)
	})
}

type notifierFunc func(ctx context.Context) error

func (f notifierFunc) LeaveSubmitted(ctx context.Context, _ models.LeaveRequest) error { return f(ctx) }
func (f notifierFunc) LeaveDecided(ctx context.Context, _ models.LeaveRequest) error   { return f(ctx) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
