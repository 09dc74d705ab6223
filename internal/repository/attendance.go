package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/jackc/pgx/v5"
)

// InsertCheckIn opens the attendance record of the employee for workDate.
// The unique (employee_id, work_date) constraint makes concurrent attempts safe:
// every attempt but the first gets ErrAlreadyCheckedIn.
func (r *Repository) InsertCheckIn(
	ctx context.Context,
	employeeID int64,
	workDate time.Time,
	status models.AttendanceStatus,
	mark models.CheckMark,
) (models.Attendance, error) {
	row := r.db.QueryRow(
		ctx,
		InsertCheckInSQL,
		employeeID,
		workDate,
		mark.Time,
		mark.Location,
		mark.Latitude,
		mark.Longitude,
		mark.Method,
		status,
		mark.Notes,
	)

	record, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Attendance{}, ErrAlreadyCheckedIn
		}
		return models.Attendance{}, fmt.Errorf("failed to insert check-in: %w", mapUniqueViolation(err))
	}

	return record, nil
}

// CloseAttendance locks the open record of the employee for workDate, asks closeFn
// for the check-out values and stores them. It returns ErrNoOpenAttendance when no
// open record exists.
func (r *Repository) CloseAttendance(
	ctx context.Context,
	employeeID int64,
	workDate time.Time,
	closeFn func(open models.Attendance) models.CheckOutUpdate,
) (models.Attendance, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.Attendance{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	open, err := scanAttendance(tx.QueryRow(ctx, SelectOpenAttendanceForUpdateSQL, employeeID, workDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Attendance{}, ErrNoOpenAttendance
		}
		return models.Attendance{}, fmt.Errorf("failed to lock open attendance: %w", err)
	}

	upd := closeFn(open)

	closed, err := scanAttendance(tx.QueryRow(
		ctx,
		UpdateCheckOutSQL,
		open.ID,
		upd.Time,
		upd.Location,
		upd.Latitude,
		upd.Longitude,
		upd.Method,
		upd.WorkHours,
		upd.OvertimeHours,
		upd.Notes,
	))
	if err != nil {
		return models.Attendance{}, fmt.Errorf("failed to update check-out: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Attendance{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return closed, nil
}

// AttendanceOn returns the record of the employee for workDate, or ErrNotFound.
func (r *Repository) AttendanceOn(ctx context.Context, employeeID int64, workDate time.Time) (models.Attendance, error) {
	record, err := scanAttendance(r.db.QueryRow(ctx, SelectAttendanceOnSQL, employeeID, workDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Attendance{}, ErrNotFound
		}
		return models.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return record, nil
}

// AttendanceHistory returns the records of the employee newest first. When the
// range has both bounds only work dates inside it, inclusive, are returned.
func (r *Repository) AttendanceHistory(
	ctx context.Context,
	employeeID int64,
	rng models.AttendanceRange,
) ([]models.Attendance, error) {
	rows, err := r.db.Query(ctx, SelectAttendanceHistorySQL, employeeID, rng.From, rng.To, rng.Limit, rng.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance history: %w", err)
	}
	defer rows.Close()

	records := make([]models.Attendance, 0)
	for rows.Next() {
		record, scanErr := scanAttendance(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", scanErr)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance rows: %w", err)
	}

	return records, nil
}

// AttendanceStats aggregates the records of the employee with work dates in [from, to).
func (r *Repository) AttendanceStats(
	ctx context.Context,
	employeeID int64,
	from, to time.Time,
) (models.AttendanceStats, error) {
	var stats models.AttendanceStats

	err := r.db.QueryRow(ctx, SelectAttendanceStatsSQL, employeeID, from, to).Scan(
		&stats.TotalDays,
		&stats.PresentDays,
		&stats.LateDays,
		&stats.AvgWorkHours,
		&stats.TotalWorkHours,
		&stats.TotalOvertimeHours,
	)
	if err != nil {
		return models.AttendanceStats{}, fmt.Errorf("failed to get attendance stats: %w", err)
	}

	return stats, nil
}

func scanAttendance(row rowScanner) (models.Attendance, error) {
	var record models.Attendance
	err := row.Scan(
		&record.ID,
		&record.EmployeeID,
		&record.WorkDate,
		&record.CheckInTime,
		&record.CheckInLocation,
		&record.CheckInLatitude,
		&record.CheckInLongitude,
		&record.CheckInMethod,
		&record.CheckOutTime,
		&record.CheckOutLocation,
		&record.CheckOutLatitude,
		&record.CheckOutLongitude,
		&record.CheckOutMethod,
		&record.WorkHours,
		&record.OvertimeHours,
		&record.Status,
		&record.Notes,
		&record.CreatedAt,
	)
	return record, err
}
