package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/chronos/internal/apperr"
	"github.com/UnknownOlympus/chronos/internal/metrics"
	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/UnknownOlympus/chronos/internal/report"
	"github.com/UnknownOlympus/chronos/internal/repository"
)

// MonthlyReport is the attendance of every non-terminated employee in one month.
type MonthlyReport struct {
	Month     int                              `json:"month"`
	Year      int                              `json:"year"`
	Employees []models.EmployeeAttendanceStats `json:"employees"`
}

// Reports builds cross-employee attendance reports.
type Reports struct {
	store   repository.ReportManager
	metrics *metrics.Metrics
	opts    Options
}

// NewReports creates the report service.
func NewReports(store repository.ReportManager, m *metrics.Metrics, opts Options) *Reports {
	return &Reports{store: store, metrics: m, opts: opts.withDefaults()}
}

// MonthlyAttendance returns per-employee statistics of the month. Zero month or
// year means the current one.
func (r *Reports) MonthlyAttendance(ctx context.Context, month, year int) (MonthlyReport, error) {
	started := time.Now()
	defer r.metrics.ObserveReport("json", started)

	return r.monthly(ctx, month, year)
}

// ExportMonthlyAttendance renders the monthly report as an xlsx workbook and
// returns it with a suggested file name.
func (r *Reports) ExportMonthlyAttendance(ctx context.Context, month, year int) (*bytes.Buffer, string, error) {
	started := time.Now()
	defer r.metrics.ObserveReport("xlsx", started)

	monthly, err := r.monthly(ctx, month, year)
	if err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("attendance-%04d-%02d", monthly.Year, monthly.Month)
	buffer, err := report.GenerateAttendanceReport(name, monthly.Employees)
	if errors.Is(err, report.ErrNoRows) {
		return nil, "", apperr.Wrap(apperr.ErrNotFound, err)
	}
	if err != nil {
		return nil, "", apperr.Internal(err)
	}

	return buffer, name + ".xlsx", nil
}

// PreviousMonth returns the month and year before the current one.
func (r *Reports) PreviousMonth() (int, int) {
	now := r.opts.Now().In(r.opts.Location)
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return int(prev.Month()), prev.Year()
}

func (r *Reports) monthly(ctx context.Context, month, year int) (MonthlyReport, error) {
	from, to, err := monthRange(r.opts.Now().In(r.opts.Location), month, year)
	if err != nil {
		return MonthlyReport{}, err
	}

	rows, err := r.store.MonthlyAttendanceReport(ctx, from, to)
	if err != nil {
		return MonthlyReport{}, apperr.Internal(err)
	}

	for i := range rows {
		rows[i].AvgWorkHours = round2(rows[i].AvgWorkHours)
		rows[i].TotalWorkHours = round2(rows[i].TotalWorkHours)
		rows[i].TotalOvertimeHours = round2(rows[i].TotalOvertimeHours)
	}

	return MonthlyReport{Month: int(from.Month()), Year: from.Year(), Employees: rows}, nil
}
