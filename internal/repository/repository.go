package repository

import (
	"context"
	"errors"
	"time"

	"github.com/UnknownOlympus/chronos/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrEmailExists is returned when another account already uses the email.
	ErrEmailExists = errors.New("email already exists")
	// ErrEmployeeCodeExists is returned when another employee already uses the employee code.
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	// ErrAlreadyCheckedIn is returned when the employee already has an attendance record for the day.
	ErrAlreadyCheckedIn = errors.New("attendance already recorded for this day")
	// ErrNoOpenAttendance is returned when there is no open attendance record to close.
	ErrNoOpenAttendance = errors.New("no open attendance record for this day")
	// ErrLeaveDecided is returned when a leave request is no longer pending.
	ErrLeaveDecided = errors.New("leave request has already been decided")
)

// Repository is the PostgreSQL implementation of every manager interface below.
type Repository struct {
	db Database
}

// AccountManager covers the login identities.
type AccountManager interface {
	CreateAccount(ctx context.Context, email, passwordHash string, role models.Role) (models.Account, error)
	AccountByEmail(ctx context.Context, email string) (models.Account, error)
	AccountByID(ctx context.Context, id int64) (models.Account, error)
	ProfileByAccount(ctx context.Context, accountID int64) (models.Profile, error)
	UpdateAccountProfile(ctx context.Context, accountID int64, firstName, lastName, phone *string) error
	UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error
}

// EmployeeManager covers the employee directory.
type EmployeeManager interface {
	EmployeeByAccount(ctx context.Context, accountID int64) (models.Employee, error)
	EmployeeByID(ctx context.Context, id int64) (models.Employee, error)
	ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	CreateEmployee(ctx context.Context, input models.NewEmployee) (models.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, update models.EmployeeUpdate) (models.Employee, error)
	TerminateEmployee(ctx context.Context, id int64) (int64, error)
}

// AttendanceManager covers the attendance ledger.
type AttendanceManager interface {
	InsertCheckIn(
		ctx context.Context,
		employeeID int64,
		workDate time.Time,
		status models.AttendanceStatus,
		mark models.CheckMark,
	) (models.Attendance, error)
	CloseAttendance(
		ctx context.Context,
		employeeID int64,
		workDate time.Time,
		closeFn func(open models.Attendance) models.CheckOutUpdate,
	) (models.Attendance, error)
	AttendanceOn(ctx context.Context, employeeID int64, workDate time.Time) (models.Attendance, error)
	AttendanceHistory(ctx context.Context, employeeID int64, rng models.AttendanceRange) ([]models.Attendance, error)
	AttendanceStats(ctx context.Context, employeeID int64, from, to time.Time) (models.AttendanceStats, error)
}

// LeaveManager covers the leave ledger.
type LeaveManager interface {
	InsertLeave(ctx context.Context, input models.NewLeaveRequest) (models.LeaveRequest, error)
	ListLeaves(ctx context.Context, employeeID *int64) ([]models.LeaveRequest, error)
	LeaveByID(ctx context.Context, id int64) (models.LeaveRequest, error)
	DecideLeave(ctx context.Context, id int64, decision models.LeaveDecision) (models.LeaveRequest, error)
}

// ReportManager covers the cross-employee reports.
type ReportManager interface {
	MonthlyAttendanceReport(ctx context.Context, from, to time.Time) ([]models.EmployeeAttendanceStats, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database) *Repository {
	return &Repository{db: db}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// mapUniqueViolation turns a unique constraint error into the matching sentinel.
func mapUniqueViolation(err error) error {
	constraint, ok := violatedConstraint(err)
	if !ok {
		return err
	}
	switch constraint {
	case "accounts_email_key":
		return ErrEmailExists
	case "employees_employee_code_key":
		return ErrEmployeeCodeExists
	case "attendance_employee_day_key":
		return ErrAlreadyCheckedIn
	}
	return err
}
