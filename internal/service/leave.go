package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/chronos/internal/access"
	"github.com/UnknownOlympus/chronos/internal/apperr"
	"github.com/UnknownOlympus/chronos/internal/metrics"
	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/UnknownOlympus/chronos/internal/repository"
)

const hoursPerDay = 24

// SubmitLeaveInput is a new leave request.
type SubmitLeaveInput struct {
	LeaveType models.LeaveType `json:"leaveType" validate:"required,oneof=annual sick personal emergency"`
	StartDate string           `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string           `json:"endDate"   validate:"required,datetime=2006-01-02"`
	Reason    string           `json:"reason"    validate:"max=1000"`
}

// DecideLeaveInput approves or rejects a pending request. The outcome travels as "action".
type DecideLeaveInput struct {
	Status          models.LeaveStatus `json:"action"          validate:"required,oneof=approved rejected"`
	RejectionReason string             `json:"rejectionReason" validate:"max=1000"`
}

// Leaves is the leave ledger.
type Leaves struct {
	log       *slog.Logger
	store     repository.LeaveManager
	employees employeeResolver
	notifier  Notifier
	metrics   *metrics.Metrics
	opts      Options
}

// NewLeaves creates the leave ledger.
func NewLeaves(
	log *slog.Logger,
	store repository.LeaveManager,
	employees employeeResolver,
	notifier Notifier,
	m *metrics.Metrics,
	opts Options,
) *Leaves {
	return &Leaves{
		log:       log.With(slog.String("component", "leaves")),
		store:     store,
		employees: employees,
		notifier:  notifier,
		metrics:   m,
		opts:      opts.withDefaults(),
	}
}

// Submit stores a pending leave request for the caller's employee.
func (l *Leaves) Submit(ctx context.Context, accountID int64, in SubmitLeaveInput) (models.LeaveRequest, error) {
	if err := validateInput(in); err != nil {
		return models.LeaveRequest{}, err
	}

	start, err := parseDate("startDate", in.StartDate)
	if err != nil {
		return models.LeaveRequest{}, err
	}
	end, err := parseDate("endDate", in.EndDate)
	if err != nil {
		return models.LeaveRequest{}, err
	}

	days := int(end.Sub(start).Hours()/hoursPerDay) + 1
	if end.Before(start) || days <= 0 {
		return models.LeaveRequest{}, apperr.Validation("validation failed", map[string]string{
			"endDate": "must not be before startDate",
		})
	}

	employee, err := l.employees.Resolve(ctx, accountID)
	if err != nil {
		return models.LeaveRequest{}, err
	}

	leave, err := l.store.InsertLeave(ctx, models.NewLeaveRequest{
		EmployeeID: employee.ID,
		Type:       in.LeaveType,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Reason:     strings.TrimSpace(in.Reason),
	})
	if err != nil {
		return models.LeaveRequest{}, apperr.Internal(err)
	}

	l.metrics.LeaveEvent("submitted", string(leave.Type))
	if err = l.notifier.LeaveSubmitted(ctx, leave); err != nil {
		l.log.WarnContext(ctx, "failed to notify about leave request",
			slog.Int64("leave_id", leave.ID), slog.Any("error", err))
	}

	return leave, nil
}

// List returns leave requests newest first. Callers who may only see their own
// requests get those of their employee.
func (l *Leaves) List(ctx context.Context, caller Caller) ([]models.LeaveRequest, error) {
	var employeeID *int64
	if !access.Can(caller.Role, access.PermissionLeaveViewAll) {
		employee, err := l.employees.Resolve(ctx, caller.AccountID)
		if err != nil {
			return nil, err
		}
		employeeID = &employee.ID
	}

	leaves, err := l.store.ListLeaves(ctx, employeeID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return leaves, nil
}

// Decide approves or rejects a pending request on behalf of the caller.
func (l *Leaves) Decide(ctx context.Context, caller Caller, id int64, in DecideLeaveInput) (models.LeaveRequest, error) {
	if !access.Can(caller.Role, access.PermissionLeaveDecide) {
		return models.LeaveRequest{}, apperr.ErrForbidden
	}
	if err := validateInput(in); err != nil {
		return models.LeaveRequest{}, err
	}

	decision := models.LeaveDecision{
		Status:     in.Status,
		ApproverID: caller.AccountID,
		DecidedAt:  l.opts.Now().UTC(),
	}
	if in.Status == models.LeaveRejected && in.RejectionReason != "" {
		reason := strings.TrimSpace(in.RejectionReason)
		decision.RejectionReason = &reason
	}

	leave, err := l.store.DecideLeave(ctx, id, decision)
	if err != nil {
		return models.LeaveRequest{}, storeError(err, apperr.ErrLeaveNotFound)
	}

	l.metrics.LeaveEvent("decided", string(leave.Status))
	l.log.InfoContext(ctx, "leave request decided",
		slog.Int64("leave_id", leave.ID),
		slog.String("status", string(leave.Status)),
		slog.Int64("approver_id", caller.AccountID),
	)

	if err = l.notifier.LeaveDecided(ctx, leave); err != nil {
		l.log.WarnContext(ctx, "failed to notify about leave decision",
			slog.Int64("leave_id", leave.ID), slog.Any("error", err))
	}

	return leave, nil
}
