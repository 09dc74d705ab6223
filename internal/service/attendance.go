package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/UnknownOlympus/chronos/internal/apperr"
	"github.com/UnknownOlympus/chronos/internal/metrics"
	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/UnknownOlympus/chronos/internal/repository"
	"github.com/shopspring/decimal"
)

const notesSeparator = " | "

// CheckInput is the data captured by a check-in or check-out request.
type CheckInput struct {
	Latitude  *float64           `json:"latitude"  validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64           `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Location  string             `json:"location"  validate:"max=255"`
	Method    models.CheckMethod `json:"method"    validate:"omitempty,oneof=manual qr face location"`
	Notes     string             `json:"notes"     validate:"max=1000"`
}

// HistoryInput narrows an attendance history request. From and To go together.
type HistoryInput struct {
	From   string `form:"startDate" json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	To     string `form:"endDate"   json:"endDate"   validate:"omitempty,datetime=2006-01-02"`
	Limit  int    `form:"limit"     json:"limit"     validate:"gte=0"`
	Offset int    `form:"offset"    json:"offset"    validate:"gte=0"`
}

// TodayStatus tells whether the employee has checked in and out today.
type TodayStatus struct {
	IsCheckedIn  bool               `json:"isCheckedIn"`
	IsCheckedOut bool               `json:"isCheckedOut"`
	Attendance   *models.Attendance `json:"attendance"`
}

// Attendance is the attendance ledger: at most one record per employee and day.
type Attendance struct {
	log       *slog.Logger
	store     repository.AttendanceManager
	employees employeeResolver
	metrics   *metrics.Metrics
	opts      Options
}

// NewAttendance creates the attendance ledger.
func NewAttendance(
	log *slog.Logger,
	store repository.AttendanceManager,
	employees employeeResolver,
	m *metrics.Metrics,
	opts Options,
) *Attendance {
	return &Attendance{
		log:       log.With(slog.String("component", "attendance")),
		store:     store,
		employees: employees,
		metrics:   m,
		opts:      opts.withDefaults(),
	}
}

// CheckIn opens today's record. The status is decided here and never changes.
func (a *Attendance) CheckIn(ctx context.Context, accountID int64, in CheckInput) (models.Attendance, error) {
	if err := validateInput(in); err != nil {
		return models.Attendance{}, err
	}

	employee, err := a.employees.Resolve(ctx, accountID)
	if err != nil {
		return models.Attendance{}, err
	}

	now := a.opts.Now()
	status := attendanceStatus(now.In(a.opts.Location), a.opts.LateHour)

	record, err := a.store.InsertCheckIn(ctx, employee.ID, civilDate(now, a.opts.Location), status, mark(now, in))
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyCheckedIn) {
			a.metrics.AttendanceEvent("check_in", "rejected")
		}
		return models.Attendance{}, storeError(err, apperr.ErrNotFound)
	}

	a.metrics.AttendanceEvent("check_in", string(status))
	a.log.DebugContext(ctx, "checked in",
		slog.Int64("employee_id", employee.ID), slog.String("status", string(status)))

	return record, nil
}

// CheckOut closes today's open record and computes the worked hours.
func (a *Attendance) CheckOut(ctx context.Context, accountID int64, in CheckInput) (models.Attendance, error) {
	if err := validateInput(in); err != nil {
		return models.Attendance{}, err
	}

	employee, err := a.employees.Resolve(ctx, accountID)
	if err != nil {
		return models.Attendance{}, err
	}

	now := a.opts.Now()
	record, err := a.store.CloseAttendance(ctx, employee.ID, civilDate(now, a.opts.Location),
		func(open models.Attendance) models.CheckOutUpdate {
			hours, overtime := workHours(open.CheckInTime, now, a.opts.StandardHours)
			return models.CheckOutUpdate{
				CheckMark:     mark(now, in),
				WorkHours:     hours,
				OvertimeHours: overtime,
				Notes:         appendNotes(open.Notes, in.Notes),
			}
		})
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenAttendance) {
			a.metrics.AttendanceEvent("check_out", "rejected")
		}
		return models.Attendance{}, storeError(err, apperr.ErrNotFound)
	}

	a.metrics.AttendanceEvent("check_out", string(record.Status))

	return record, nil
}

// Today reports the state of today's record.
func (a *Attendance) Today(ctx context.Context, accountID int64) (TodayStatus, error) {
	employee, err := a.employees.Resolve(ctx, accountID)
	if err != nil {
		return TodayStatus{}, err
	}

	record, err := a.store.AttendanceOn(ctx, employee.ID, civilDate(a.opts.Now(), a.opts.Location))
	if errors.Is(err, repository.ErrNotFound) {
		return TodayStatus{}, nil
	}
	if err != nil {
		return TodayStatus{}, apperr.Internal(err)
	}

	return TodayStatus{
		IsCheckedIn:  true,
		IsCheckedOut: !record.IsOpen(),
		Attendance:   &record,
	}, nil
}

// History lists the caller's records newest first.
func (a *Attendance) History(ctx context.Context, accountID int64, in HistoryInput) ([]models.Attendance, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	rng := models.AttendanceRange{Limit: in.Limit, Offset: in.Offset}
	switch {
	case rng.Limit == 0:
		rng.Limit = defaultHistoryLimit
	case rng.Limit > maxHistoryLimit:
		rng.Limit = maxHistoryLimit
	}

	if (in.From == "") != (in.To == "") {
		return nil, apperr.Validation("validation failed", map[string]string{
			"startDate": "startDate and endDate must be given together",
		})
	}

	if in.From != "" {
		from, err := parseDate("startDate", in.From)
		if err != nil {
			return nil, err
		}
		to, err := parseDate("endDate", in.To)
		if err != nil {
			return nil, err
		}
		if to.Before(from) {
			return nil, apperr.Validation("validation failed", map[string]string{
				"endDate": "must not be before startDate",
			})
		}
		rng.From, rng.To = &from, &to
	}

	employee, err := a.employees.Resolve(ctx, accountID)
	if err != nil {
		return nil, err
	}

	records, err := a.store.AttendanceHistory(ctx, employee.ID, rng)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return records, nil
}

// MonthlyStats aggregates the caller's records of one month. Zero month or year
// means the current one.
func (a *Attendance) MonthlyStats(ctx context.Context, accountID int64, month, year int) (models.AttendanceStats, error) {
	from, to, err := monthRange(a.opts.Now().In(a.opts.Location), month, year)
	if err != nil {
		return models.AttendanceStats{}, err
	}

	employee, err := a.employees.Resolve(ctx, accountID)
	if err != nil {
		return models.AttendanceStats{}, err
	}

	stats, err := a.store.AttendanceStats(ctx, employee.ID, from, to)
	if err != nil {
		return models.AttendanceStats{}, apperr.Internal(err)
	}

	stats.AvgWorkHours = round2(stats.AvgWorkHours)
	stats.TotalWorkHours = round2(stats.TotalWorkHours)
	stats.TotalOvertimeHours = round2(stats.TotalOvertimeHours)

	return stats, nil
}

// monthRange returns [first day of month, first day of next month) as civil dates.
func monthRange(now time.Time, month, year int) (time.Time, time.Time, error) {
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}

	fields := map[string]string{}
	if month < 1 || month > 12 {
		fields["month"] = "must be between 1 and 12"
	}
	if year < 2000 || year > 9999 {
		fields["year"] = "must be between 2000 and 9999"
	}
	if len(fields) > 0 {
		return time.Time{}, time.Time{}, apperr.Validation("validation failed", fields)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

// attendanceStatus is late from the first second of lateHour on, in local time.
func attendanceStatus(local time.Time, lateHour int) models.AttendanceStatus {
	if local.Hour() >= lateHour {
		return models.AttendanceLate
	}
	return models.AttendancePresent
}

// workHours returns the worked and overtime hours between in and out, rounded to 2 decimals.
func workHours(in, out time.Time, standard float64) (float64, float64) {
	hours := round2(out.Sub(in).Hours())
	return hours, round2(math.Max(0, hours-standard))
}

func appendNotes(prior, next string) string {
	switch {
	case next == "":
		return prior
	case prior == "":
		return next
	}
	return prior + notesSeparator + next
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func mark(now time.Time, in CheckInput) models.CheckMark {
	method := in.Method
	if method == "" {
		method = models.MethodManual
	}
	return models.CheckMark{
		Time:      now,
		Location:  in.Location,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Method:    method,
		Notes:     in.Notes,
	}
}
