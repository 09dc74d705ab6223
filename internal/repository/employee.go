package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/jackc/pgx/v5"
)

// EmployeeByAccount returns the employee linked to the account.
func (r *Repository) EmployeeByAccount(ctx context.Context, accountID int64) (models.Employee, error) {
	employee, err := scanEmployee(r.db.QueryRow(ctx, SelectEmployeeByAccountSQL, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, ErrNotFound
		}
		return models.Employee{}, fmt.Errorf("failed to get employee of account %d: %w", accountID, err)
	}

	return employee, nil
}

// EmployeeByID returns the employee with the given id, terminated ones included.
func (r *Repository) EmployeeByID(ctx context.Context, id int64) (models.Employee, error) {
	return employeeByID(ctx, r.db, id)
}

// ListEmployees returns the employees matching the filter ordered by name.
// Empty filter fields match every value.
func (r *Repository) ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	rows, err := r.db.Query(ctx, ListEmployeesSQL, filter.Status, filter.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		employee, scanErr := scanEmployee(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", scanErr)
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee rows: %w", err)
	}

	return employees, nil
}

// CreateEmployee creates an account and its employee profile in one transaction.
// Either both rows are stored or neither is. Duplicate emails and employee codes
// are reported as ErrEmailExists and ErrEmployeeCodeExists.
func (r *Repository) CreateEmployee(ctx context.Context, input models.NewEmployee) (models.Employee, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var exists bool
	if err = tx.QueryRow(ctx, AccountEmailExistsSQL, input.Email, int64(0)).Scan(&exists); err != nil {
		return models.Employee{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return models.Employee{}, ErrEmailExists
	}

	if err = tx.QueryRow(ctx, EmployeeCodeExistsSQL, input.Code).Scan(&exists); err != nil {
		return models.Employee{}, fmt.Errorf("failed to check employee code: %w", err)
	}
	if exists {
		return models.Employee{}, ErrEmployeeCodeExists
	}

	employee := models.Employee{
		Code:             input.Code,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Phone:            input.Phone,
		Department:       input.Department,
		Position:         input.Position,
		HireDate:         input.HireDate,
		Salary:           input.Salary,
		Address:          input.Address,
		EmergencyContact: input.EmergencyContact,
		BirthDate:        input.BirthDate,
		Gender:           input.Gender,
		Email:            input.Email,
		Role:             input.Role,
	}

	err = tx.QueryRow(ctx, InsertEmployeeAccountSQL, input.Email, input.PasswordHash, input.Role).
		Scan(&employee.AccountID)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to insert account: %w", mapUniqueViolation(err))
	}

	err = tx.QueryRow(
		ctx,
		InsertEmployeeSQL,
		employee.AccountID,
		input.Code,
		input.FirstName,
		input.LastName,
		input.Phone,
		input.Department,
		input.Position,
		input.HireDate,
		input.Salary,
		input.Address,
		input.EmergencyContact,
		input.BirthDate,
		input.Gender,
	).Scan(&employee.ID, &employee.Status, &employee.CreatedAt)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to insert employee: %w", mapUniqueViolation(err))
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Employee{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return employee, nil
}

// UpdateEmployee applies the update to the employee and, when email or role are
// given, to its account, all in one transaction. It returns the stored result.
func (r *Repository) UpdateEmployee(
	ctx context.Context,
	id int64,
	update models.EmployeeUpdate,
) (models.Employee, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var accountID int64
	err = tx.QueryRow(
		ctx,
		UpdateEmployeeSQL,
		id,
		update.FirstName,
		update.LastName,
		update.Phone,
		update.Department,
		update.Position,
		update.Salary,
		update.Status,
		update.Address,
		update.EmergencyContact,
		update.BirthDate,
		update.Gender,
	).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, ErrNotFound
		}
		return models.Employee{}, fmt.Errorf("failed to update employee %d: %w", id, err)
	}

	if update.Email != nil || update.Role != nil {
		if update.Email != nil {
			var exists bool
			if err = tx.QueryRow(ctx, AccountEmailExistsSQL, *update.Email, accountID).Scan(&exists); err != nil {
				return models.Employee{}, fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return models.Employee{}, ErrEmailExists
			}
		}

		if _, err = tx.Exec(ctx, UpdateEmployeeAccountSQL, accountID, update.Email, update.Role); err != nil {
			return models.Employee{}, fmt.Errorf("failed to update account %d: %w", accountID, mapUniqueViolation(err))
		}
	}

	employee, err := employeeByID(ctx, tx, id)
	if err != nil {
		return models.Employee{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Employee{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return employee, nil
}

// TerminateEmployee marks the employee terminated and returns its account id.
// The row itself is kept.
func (r *Repository) TerminateEmployee(ctx context.Context, id int64) (int64, error) {
	var accountID int64
	if err := r.db.QueryRow(ctx, TerminateEmployeeSQL, id).Scan(&accountID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to terminate employee %d: %w", id, err)
	}

	return accountID, nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func employeeByID(ctx context.Context, q queryRower, id int64) (models.Employee, error) {
	employee, err := scanEmployee(q.QueryRow(ctx, SelectEmployeeByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, ErrNotFound
		}
		return models.Employee{}, fmt.Errorf("failed to get employee %d: %w", id, err)
	}

	return employee, nil
}

func scanEmployee(row rowScanner) (models.Employee, error) {
	var employee models.Employee
	err := row.Scan(
		&employee.ID,
		&employee.AccountID,
		&employee.Code,
		&employee.FirstName,
		&employee.LastName,
		&employee.Phone,
		&employee.Department,
		&employee.Position,
		&employee.HireDate,
		&employee.Salary,
		&employee.Status,
		&employee.Address,
		&employee.EmergencyContact,
		&employee.BirthDate,
		&employee.Gender,
		&employee.Email,
		&employee.Role,
		&employee.CreatedAt,
	)
	return employee, err
}
