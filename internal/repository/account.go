package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/jackc/pgx/v5"
)

// CreateAccount inserts a new active account. It returns ErrEmailExists when the
// email is already taken, whether detected by the conflict clause or by a racing insert.
func (r *Repository) CreateAccount(
	ctx context.Context,
	email, passwordHash string,
	role models.Role,
) (models.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, InsertAccountSQL, email, passwordHash, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, ErrEmailExists
		}
		return models.Account{}, fmt.Errorf("failed to insert account: %w", mapUniqueViolation(err))
	}

	return account, nil
}

// AccountByEmail returns the account registered with the email.
func (r *Repository) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, SelectAccountByEmailSQL, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

// AccountByID returns the account with the given id.
func (r *Repository) AccountByID(ctx context.Context, id int64) (models.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, SelectAccountByIDSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, fmt.Errorf("failed to get account %d: %w", id, err)
	}

	return account, nil
}

// ProfileByAccount returns the account together with its employee profile, if one exists.
func (r *Repository) ProfileByAccount(ctx context.Context, accountID int64) (models.Profile, error) {
	var profile models.Profile

	err := r.db.QueryRow(ctx, SelectProfileSQL, accountID).Scan(
		&profile.ID, &profile.Email, &profile.PasswordHash, &profile.Role, &profile.IsActive, &profile.CreatedAt,
		&profile.EmployeeID, &profile.EmployeeCode, &profile.FirstName, &profile.LastName,
		&profile.Phone, &profile.Department, &profile.Position, &profile.HireDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("failed to get profile of account %d: %w", accountID, err)
	}

	return profile, nil
}

// UpdateAccountProfile changes the personal fields of the employee linked to the account.
// Nil values keep the stored ones. It returns ErrNotFound when the account has no employee.
func (r *Repository) UpdateAccountProfile(
	ctx context.Context,
	accountID int64,
	firstName, lastName, phone *string,
) error {
	cmdTag, err := r.db.Exec(ctx, UpdateAccountProfileSQL, accountID, firstName, lastName, phone)
	if err != nil {
		return fmt.Errorf("failed to update profile of account %d: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdatePassword stores a new password hash for the account.
func (r *Repository) UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error {
	cmdTag, err := r.db.Exec(ctx, UpdatePasswordSQL, accountID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password of account %d: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanAccount(row rowScanner) (models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.Role, &account.IsActive, &account.CreatedAt,
	)
	return account, err
}
