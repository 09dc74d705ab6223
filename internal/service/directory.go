package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/chronos/internal/apperr"
	"github.com/UnknownOlympus/chronos/internal/auth"
	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/UnknownOlympus/chronos/internal/repository"
	"github.com/shopspring/decimal"
)

// statusAll lists employees of every status.
const statusAll = "all"

// Directory resolves accounts to employees and manages employee records.
type Directory struct {
	log   *slog.Logger
	store repository.EmployeeManager
	cache EmployeeCache
	opts  Options
}

// NewDirectory creates a Directory.
func NewDirectory(log *slog.Logger, store repository.EmployeeManager, cache EmployeeCache, opts Options) *Directory {
	return &Directory{
		log:   log.With(slog.String("component", "directory")),
		store: store,
		cache: cache,
		opts:  opts.withDefaults(),
	}
}

// CreateEmployeeInput is the payload of a new account with its employee profile.
type CreateEmployeeInput struct {
	Email            string          `json:"email"            validate:"required,email,max=255"`
	Password         string          `json:"password"         validate:"required,min=6,max=72"`
	Role             models.Role     `json:"role"             validate:"omitempty,oneof=employee manager hr admin"`
	EmployeeID       string          `json:"employeeId"       validate:"required,max=50"`
	FirstName        string          `json:"firstName"        validate:"required,max=100"`
	LastName         string          `json:"lastName"         validate:"required,max=100"`
	Phone            string          `json:"phone"            validate:"max=50"`
	Department       string          `json:"department"       validate:"required,max=100"`
	Position         string          `json:"position"         validate:"required,max=100"`
	HireDate         string          `json:"hireDate"         validate:"omitempty,datetime=2006-01-02"`
	Salary           decimal.Decimal `json:"salary"`
	Address          string          `json:"address"          validate:"max=500"`
	EmergencyContact string          `json:"emergencyContact" validate:"max=255"`
	BirthDate        string          `json:"birthDate"        validate:"omitempty,datetime=2006-01-02"`
	Gender           string          `json:"gender"           validate:"max=20"`
}

// UpdateEmployeeInput changes an employee. Nil fields are left as they are.
type UpdateEmployeeInput struct {
	FirstName        *string                `json:"firstName"        validate:"omitempty,min=1,max=100"`
	LastName         *string                `json:"lastName"         validate:"omitempty,min=1,max=100"`
	Phone            *string                `json:"phone"            validate:"omitempty,max=50"`
	Department       *string                `json:"department"       validate:"omitempty,min=1,max=100"`
	Position         *string                `json:"position"         validate:"omitempty,min=1,max=100"`
	Salary           *decimal.Decimal       `json:"salary"`
	Status           *models.EmployeeStatus `json:"status"           validate:"omitempty,oneof=active inactive terminated"`
	Address          *string                `json:"address"          validate:"omitempty,max=500"`
	EmergencyContact *string                `json:"emergencyContact" validate:"omitempty,max=255"`
	BirthDate        *string                `json:"birthDate"        validate:"omitempty,datetime=2006-01-02"`
	Gender           *string                `json:"gender"           validate:"omitempty,max=20"`
	Email            *string                `json:"email"            validate:"omitempty,email,max=255"`
	Role             *models.Role           `json:"role"             validate:"omitempty,oneof=employee manager hr admin"`
}

// Resolve returns the employee linked to the account. Every attendance and leave
// operation starts here.
func (d *Directory) Resolve(ctx context.Context, accountID int64) (models.Employee, error) {
	cached, ok, err := d.cache.Get(ctx, accountID)
	if err != nil {
		d.log.WarnContext(ctx, "employee cache read failed", slog.Int64("account_id", accountID), slog.Any("error", err))
	}
	if ok {
		return cached, nil
	}

	employee, err := d.store.EmployeeByAccount(ctx, accountID)
	if err != nil {
		return models.Employee{}, storeError(err, apperr.ErrEmployeeNotFound)
	}

	if err = d.cache.Set(ctx, employee); err != nil {
		d.log.WarnContext(ctx, "employee cache write failed", slog.Int64("account_id", accountID), slog.Any("error", err))
	}

	return employee, nil
}

// List returns employees ordered by name. An empty status lists active employees,
// "all" lists every status.
func (d *Directory) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	switch filter.Status {
	case "":
		filter.Status = string(models.EmployeeActive)
	case statusAll:
		filter.Status = ""
	default:
		if !models.EmployeeStatus(filter.Status).Valid() {
			return nil, apperr.Validation("validation failed", map[string]string{
				"status": "must be one of: active, inactive, terminated, all",
			})
		}
	}

	employees, err := d.store.ListEmployees(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return employees, nil
}

// Get returns an employee by id. Terminated employees are returned too.
func (d *Directory) Get(ctx context.Context, id int64) (models.Employee, error) {
	employee, err := d.store.EmployeeByID(ctx, id)
	if err != nil {
		return models.Employee{}, storeError(err, apperr.ErrEmployeeNotFound)
	}
	return employee, nil
}

// Create stores a new active account and its employee profile atomically.
func (d *Directory) Create(ctx context.Context, in CreateEmployeeInput) (models.Employee, error) {
	if err := validateInput(in); err != nil {
		return models.Employee{}, err
	}
	if in.Salary.IsNegative() {
		return models.Employee{}, negativeSalary()
	}

	hireDate := civilDate(d.opts.Now(), d.opts.Location)
	if in.HireDate != "" {
		parsed, err := parseDate("hireDate", in.HireDate)
		if err != nil {
			return models.Employee{}, err
		}
		hireDate = parsed
	}

	var birthDate *time.Time
	if in.BirthDate != "" {
		parsed, err := parseDate("birthDate", in.BirthDate)
		if err != nil {
			return models.Employee{}, err
		}
		birthDate = &parsed
	}

	role := in.Role
	if role == "" {
		role = models.RoleEmployee
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.Employee{}, apperr.Internal(err)
	}

	employee, err := d.store.CreateEmployee(ctx, models.NewEmployee{
		Email:            normalizeEmail(in.Email),
		PasswordHash:     hash,
		Role:             role,
		Code:             strings.TrimSpace(in.EmployeeID),
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		Phone:            strings.TrimSpace(in.Phone),
		Department:       strings.TrimSpace(in.Department),
		Position:         strings.TrimSpace(in.Position),
		HireDate:         hireDate,
		Salary:           in.Salary,
		Address:          in.Address,
		EmergencyContact: in.EmergencyContact,
		BirthDate:        birthDate,
		Gender:           in.Gender,
	})
	if err != nil {
		return models.Employee{}, storeError(err, apperr.ErrEmployeeNotFound)
	}

	d.log.InfoContext(ctx, "employee created",
		slog.Int64("employee_id", employee.ID), slog.String("employee_code", employee.Code))

	return employee, nil
}

// Update changes the employee and, when email or role are given, its account in one transaction.
func (d *Directory) Update(ctx context.Context, id int64, in UpdateEmployeeInput) (models.Employee, error) {
	if err := validateInput(in); err != nil {
		return models.Employee{}, err
	}
	if in.Salary != nil && in.Salary.IsNegative() {
		return models.Employee{}, negativeSalary()
	}

	update := models.EmployeeUpdate{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Phone:            in.Phone,
		Department:       in.Department,
		Position:         in.Position,
		Salary:           in.Salary,
		Status:           in.Status,
		Address:          in.Address,
		EmergencyContact: in.EmergencyContact,
		Gender:           in.Gender,
		Role:             in.Role,
	}
	if in.BirthDate != nil {
		parsed, err := parseDate("birthDate", *in.BirthDate)
		if err != nil {
			return models.Employee{}, err
		}
		update.BirthDate = &parsed
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		update.Email = &email
	}

	employee, err := d.store.UpdateEmployee(ctx, id, update)
	if err != nil {
		return models.Employee{}, storeError(err, apperr.ErrEmployeeNotFound)
	}

	d.forget(ctx, employee.AccountID)

	return employee, nil
}

// Terminate moves the employee to the terminated status. The record is kept.
func (d *Directory) Terminate(ctx context.Context, id int64) (models.Employee, error) {
	accountID, err := d.store.TerminateEmployee(ctx, id)
	if err != nil {
		return models.Employee{}, storeError(err, apperr.ErrEmployeeNotFound)
	}

	d.forget(ctx, accountID)
	d.log.InfoContext(ctx, "employee terminated", slog.Int64("employee_id", id))

	return d.Get(ctx, id)
}

func (d *Directory) forget(ctx context.Context, accountID int64) {
	if err := d.cache.Delete(ctx, accountID); err != nil {
		d.log.WarnContext(ctx, "employee cache delete failed", slog.Int64("account_id", accountID), slog.Any("error", err))
	}
}

func negativeSalary() error {
	return apperr.Validation("validation failed", map[string]string{"salary": "must not be negative"})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// storeError translates repository errors. notFound is used for repository.ErrNotFound.
func storeError(err error, notFound *apperr.AppError) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.Wrap(notFound, err)
	case errors.Is(err, repository.ErrEmailExists):
		return apperr.Wrap(apperr.ErrEmailExists, err)
	case errors.Is(err, repository.ErrEmployeeCodeExists):
		return apperr.Wrap(apperr.ErrEmployeeCodeExists, err)
	case errors.Is(err, repository.ErrAlreadyCheckedIn):
		return apperr.Wrap(apperr.ErrAlreadyCheckedIn, err)
	case errors.Is(err, repository.ErrNoOpenAttendance):
		return apperr.Wrap(apperr.ErrNoOpenCheckIn, err)
	case errors.Is(err, repository.ErrLeaveDecided):
		return apperr.Wrap(apperr.ErrLeaveDecided, err)
	}
	return apperr.Internal(fmt.Errorf("store: %w", err))
}
