package models

import "time"

// Role is the coarse access level of an account.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// Account is the login identity: credential, role and active flag.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is an account joined with its optional employee profile.
type Profile struct {
	Account
	EmployeeID   *int64     `json:"employeeDbId,omitempty"`
	EmployeeCode *string    `json:"employeeId,omitempty"`
	FirstName    *string    `json:"firstName,omitempty"`
	LastName     *string    `json:"lastName,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Department   *string    `json:"department,omitempty"`
	Position     *string    `json:"position,omitempty"`
	HireDate     *time.Time `json:"hireDate,omitempty"`
}
