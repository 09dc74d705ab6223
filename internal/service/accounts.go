package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/chronos/internal/apperr"
	"github.com/UnknownOlympus/chronos/internal/auth"
	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/UnknownOlympus/chronos/internal/repository"
)

// RegisterInput creates a self-registered account. It always gets the employee role.
type RegisterInput struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput are the credentials of a login.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput changes the caller's personal fields. Nil fields are kept.
type UpdateProfileInput struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName"  validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone"     validate:"omitempty,max=50"`
}

// ChangePasswordInput replaces the caller's password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,max=72"`
}

// Session is an issued access token with the account it belongs to.
type Session struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Account   models.Account   `json:"user"`
	Employee  *models.Employee `json:"employee,omitempty"`
}

// Accounts handles registration, login and the caller's own profile.
type Accounts struct {
	log       *slog.Logger
	store     repository.AccountManager
	employees employeeResolver
	cache     EmployeeCache
	issuer    *auth.Issuer
}

// NewAccounts creates the account service.
func NewAccounts(
	log *slog.Logger,
	store repository.AccountManager,
	employees employeeResolver,
	cache EmployeeCache,
	issuer *auth.Issuer,
) *Accounts {
	return &Accounts{
		log:       log.With(slog.String("component", "accounts")),
		store:     store,
		employees: employees,
		cache:     cache,
		issuer:    issuer,
	}
}

// Register creates an active employee account and logs it in.
func (a *Accounts) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if err := validateInput(in); err != nil {
		return Session{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, apperr.Internal(err)
	}

	account, err := a.store.CreateAccount(ctx, normalizeEmail(in.Email), hash, models.RoleEmployee)
	if err != nil {
		return Session{}, storeError(err, apperr.ErrNotFound)
	}

	a.log.InfoContext(ctx, "account registered", slog.Int64("account_id", account.ID))

	return a.session(account, nil)
}

// Login checks the credentials of an active account and issues a token.
func (a *Accounts) Login(ctx context.Context, in LoginInput) (Session, error) {
	if err := validateInput(in); err != nil {
		return Session{}, err
	}

	account, err := a.store.AccountByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, apperr.Internal(err)
	}

	if !account.IsActive || !auth.CheckPassword(account.PasswordHash, in.Password) {
		return Session{}, apperr.ErrInvalidCredentials
	}

	var employee *models.Employee
	resolved, err := a.employees.Resolve(ctx, account.ID)
	switch {
	case err == nil:
		employee = &resolved
	case !errors.Is(err, apperr.ErrEmployeeNotFound):
		return Session{}, err
	}

	return a.session(account, employee)
}

// Authenticate verifies a bearer token and checks that its account still exists and is active.
func (a *Accounts) Authenticate(ctx context.Context, token string) (Caller, error) {
	if token == "" {
		return Caller{}, apperr.ErrMissingToken
	}

	claims, err := a.issuer.Verify(token)
	if err != nil {
		return Caller{}, apperr.Wrap(apperr.ErrInvalidToken, err)
	}

	account, err := a.store.AccountByID(ctx, claims.AccountID)
	if errors.Is(err, repository.ErrNotFound) {
		return Caller{}, apperr.ErrAccountInactive
	}
	if err != nil {
		return Caller{}, apperr.Internal(err)
	}
	if !account.IsActive {
		return Caller{}, apperr.ErrAccountInactive
	}

	return Caller{AccountID: account.ID, Email: account.Email, Role: account.Role}, nil
}

// Profile returns the caller's account with its employee profile, if any.
func (a *Accounts) Profile(ctx context.Context, accountID int64) (models.Profile, error) {
	profile, err := a.store.ProfileByAccount(ctx, accountID)
	if err != nil {
		return models.Profile{}, storeError(err, apperr.ErrAccountInactive)
	}
	return profile, nil
}

// UpdateProfile changes the personal fields of the caller's employee.
func (a *Accounts) UpdateProfile(ctx context.Context, accountID int64, in UpdateProfileInput) (models.Profile, error) {
	if err := validateInput(in); err != nil {
		return models.Profile{}, err
	}

	if err := a.store.UpdateAccountProfile(ctx, accountID, in.FirstName, in.LastName, in.Phone); err != nil {
		return models.Profile{}, storeError(err, apperr.ErrEmployeeNotFound)
	}

	if err := a.cache.Delete(ctx, accountID); err != nil {
		a.log.WarnContext(ctx, "employee cache delete failed", slog.Int64("account_id", accountID), slog.Any("error", err))
	}

	return a.Profile(ctx, accountID)
}

// ChangePassword replaces the password after checking the current one.
func (a *Accounts) ChangePassword(ctx context.Context, accountID int64, in ChangePasswordInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	account, err := a.store.AccountByID(ctx, accountID)
	if err != nil {
		return storeError(err, apperr.ErrAccountInactive)
	}

	if !auth.CheckPassword(account.PasswordHash, in.CurrentPassword) {
		return apperr.Validation("validation failed", map[string]string{
			"currentPassword": "is incorrect",
		})
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return apperr.Internal(err)
	}

	if err = a.store.UpdatePassword(ctx, accountID, hash); err != nil {
		return storeError(err, apperr.ErrAccountInactive)
	}

	a.log.InfoContext(ctx, "password changed", slog.Int64("account_id", accountID))

	return nil
}

func (a *Accounts) session(account models.Account, employee *models.Employee) (Session, error) {
	identity := auth.Identity{AccountID: account.ID, Email: account.Email, Role: account.Role}
	if employee != nil {
		identity.EmployeeCode = employee.Code
	}

	token, expiresAt, err := a.issuer.Issue(identity)
	if err != nil {
		return Session{}, apperr.Internal(err)
	}

	return Session{Token: token, ExpiresAt: expiresAt, Account: account, Employee: employee}, nil
}
