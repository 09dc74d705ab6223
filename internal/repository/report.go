package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/chronos/internal/models"
)

// MonthlyAttendanceReport aggregates the attendance of every non-terminated employee
// with work dates in [from, to). Employees without records get zero rows of stats.
func (r *Repository) MonthlyAttendanceReport(
	ctx context.Context,
	from, to time.Time,
) ([]models.EmployeeAttendanceStats, error) {
	rows, err := r.db.Query(ctx, SelectMonthlyReportSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly report: %w", err)
	}
	defer rows.Close()

	report := make([]models.EmployeeAttendanceStats, 0)
	for rows.Next() {
		var item models.EmployeeAttendanceStats
		if err = rows.Scan(
			&item.EmployeeID,
			&item.EmployeeCode,
			&item.FullName,
			&item.Department,
			&item.TotalDays,
			&item.PresentDays,
			&item.LateDays,
			&item.AvgWorkHours,
			&item.TotalWorkHours,
			&item.TotalOvertimeHours,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		report = append(report, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}

	return report, nil
}
