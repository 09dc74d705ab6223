// Package jobs runs scheduled background work.
package jobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/chronos/internal/apperr"
	"github.com/robfig/cron/v3"
)

// DefaultMonthlySchedule fires at 07:00 on the first day of every month.
const DefaultMonthlySchedule = "0 7 1 * *"

const defaultJobTimeout = 5 * time.Minute

// ReportExporter builds the monthly workbook.
type ReportExporter interface {
	PreviousMonth() (int, int)
	ExportMonthlyAttendance(ctx context.Context, month, year int) (*bytes.Buffer, string, error)
}

// ReportMailer delivers the workbook.
type ReportMailer interface {
	MonthlyReport(ctx context.Context, to []string, period, filename string, content []byte) error
}

// MonthlyReport mails last month's attendance report to a fixed list of recipients.
type MonthlyReport struct {
	log        *slog.Logger
	exporter   ReportExporter
	mailer     ReportMailer
	recipients []string
	timeout    time.Duration
}

// NewMonthlyReport creates the job. A zero timeout uses five minutes.
func NewMonthlyReport(
	log *slog.Logger,
	exporter ReportExporter,
	mailer ReportMailer,
	recipients []string,
	timeout time.Duration,
) *MonthlyReport {
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return &MonthlyReport{
		log:        log,
		exporter:   exporter,
		mailer:     mailer,
		recipients: recipients,
		timeout:    timeout,
	}
}

// Run implements cron.Job.
func (j *MonthlyReport) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.Send(ctx); err != nil {
		j.log.Error("Monthly report failed", "error", err)
	}
}

// Send exports the previous month and mails it. An empty month is skipped.
func (j *MonthlyReport) Send(ctx context.Context) error {
	month, year := j.exporter.PreviousMonth()
	period := fmt.Sprintf("%04d-%02d", year, month)

	buffer, filename, err := j.exporter.ExportMonthlyAttendance(ctx, month, year)
	if errors.Is(err, apperr.ErrNotFound) {
		j.log.Info("No attendance to report", "period", period)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to export report for %s: %w", period, err)
	}

	if err = j.mailer.MonthlyReport(ctx, j.recipients, period, filename, buffer.Bytes()); err != nil {
		return fmt.Errorf("failed to mail report for %s: %w", period, err)
	}

	j.log.Info("Monthly report sent", "period", period, "recipients", len(j.recipients))
	return nil
}

// NewScheduler returns a cron scheduler evaluating specs in loc. Overlapping runs are skipped.
func NewScheduler(log *slog.Logger, loc *time.Location) *cron.Cron {
	logger := cronLogger{log: log}
	return cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
}

// Schedule registers job under spec.
func Schedule(c *cron.Cron, spec string, job cron.Job) error {
	if _, err := c.AddJob(spec, job); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
