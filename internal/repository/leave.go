package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/jackc/pgx/v5"
)

// InsertLeave stores a pending leave request and returns it with the employee details.
func (r *Repository) InsertLeave(ctx context.Context, input models.NewLeaveRequest) (models.LeaveRequest, error) {
	leave, err := scanLeave(r.db.QueryRow(
		ctx,
		InsertLeaveSQL,
		input.EmployeeID,
		input.Type,
		input.StartDate,
		input.EndDate,
		input.Days,
		input.Reason,
	))
	if err != nil {
		return models.LeaveRequest{}, fmt.Errorf("failed to insert leave request: %w", err)
	}

	return leave, nil
}

// ListLeaves returns leave requests newest first. A nil employeeID lists every employee.
func (r *Repository) ListLeaves(ctx context.Context, employeeID *int64) ([]models.LeaveRequest, error) {
	rows, err := r.db.Query(ctx, ListLeavesSQL, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	leaves := make([]models.LeaveRequest, 0)
	for rows.Next() {
		leave, scanErr := scanLeave(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan leave request row: %w", scanErr)
		}
		leaves = append(leaves, leave)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave request rows: %w", err)
	}

	return leaves, nil
}

// LeaveByID returns the leave request with the given id.
func (r *Repository) LeaveByID(ctx context.Context, id int64) (models.LeaveRequest, error) {
	leave, err := scanLeave(r.db.QueryRow(ctx, SelectLeaveByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.LeaveRequest{}, ErrNotFound
		}
		return models.LeaveRequest{}, fmt.Errorf("failed to get leave request %d: %w", id, err)
	}

	return leave, nil
}

// DecideLeave records the decision on a pending request. The update only matches
// pending rows, so of two concurrent decisions exactly one wins; the other gets
// ErrLeaveDecided. Unknown ids give ErrNotFound.
func (r *Repository) DecideLeave(
	ctx context.Context,
	id int64,
	decision models.LeaveDecision,
) (models.LeaveRequest, error) {
	leave, err := scanLeave(r.db.QueryRow(
		ctx,
		DecideLeaveSQL,
		id,
		decision.Status,
		decision.ApproverID,
		decision.DecidedAt,
		decision.RejectionReason,
	))
	if err == nil {
		return leave, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.LeaveRequest{}, fmt.Errorf("failed to decide leave request %d: %w", id, err)
	}

	var status models.LeaveStatus
	if err = r.db.QueryRow(ctx, SelectLeaveStatusSQL, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.LeaveRequest{}, ErrNotFound
		}
		return models.LeaveRequest{}, fmt.Errorf("failed to get status of leave request %d: %w", id, err)
	}

	return models.LeaveRequest{}, ErrLeaveDecided
}

func scanLeave(row rowScanner) (models.LeaveRequest, error) {
	var leave models.LeaveRequest
	err := row.Scan(
		&leave.ID,
		&leave.EmployeeID,
		&leave.EmployeeCode,
		&leave.FirstName,
		&leave.LastName,
		&leave.Email,
		&leave.Type,
		&leave.StartDate,
		&leave.EndDate,
		&leave.Days,
		&leave.Reason,
		&leave.Status,
		&leave.ApprovedBy,
		&leave.ApprovedAt,
		&leave.RejectionReason,
		&leave.CreatedAt,
	)
	return leave, err
}
