package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeStatus is the employment state of an employee record.
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeInactive   EmployeeStatus = "inactive"
	EmployeeTerminated EmployeeStatus = "terminated"
)

// Valid reports whether the status is one of the known values.
func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeActive, EmployeeInactive, EmployeeTerminated:
		return true
	}
	return false
}

// Employee represents the HR profile linked one-to-one with an account.
// It carries the human-assigned employee code, contact details, organisational
// placement and the employment status. Terminated employees are never removed.
type Employee struct {
	ID               int64           `json:"id"`               // Unique identifier for the employee
	AccountID        int64           `json:"accountId"`        // Account the employee logs in with
	Code             string          `json:"employeeId"`       // Human-assigned unique employee code
	FirstName        string          `json:"firstName"`        // First name of the employee
	LastName         string          `json:"lastName"`         // Last name of the employee
	Phone            string          `json:"phone"`            // Phone number of the employee
	Department       string          `json:"department"`       // Department the employee belongs to
	Position         string          `json:"position"`         // Job position of the employee
	HireDate         time.Time       `json:"hireDate"`         // Date the employee was hired
	Salary           decimal.Decimal `json:"salary"`           // Monthly salary
	Status           EmployeeStatus  `json:"status"`           // Employment status
	Address          string          `json:"address"`          // Home address
	EmergencyContact string          `json:"emergencyContact"` // Emergency contact details
	BirthDate        *time.Time      `json:"birthDate"`        // Date of birth, if known
	Gender           string          `json:"gender"`           // Gender as entered by HR
	Email            string          `json:"email"`            // Email of the linked account
	Role             Role            `json:"role"`             // Role of the linked account
	CreatedAt        time.Time       `json:"createdAt"`        // Timestamp of when the employee record was created
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// EmployeeFilter narrows an employee listing.
type EmployeeFilter struct {
	Status     string // empty means every status
	Department string // empty means every department
}

// NewEmployee holds everything needed to create an account together with its employee profile.
type NewEmployee struct {
	Email            string
	PasswordHash     string
	Role             Role
	Code             string
	FirstName        string
	LastName         string
	Phone            string
	Department       string
	Position         string
	HireDate         time.Time
	Salary           decimal.Decimal
	Address          string
	EmergencyContact string
	BirthDate        *time.Time
	Gender           string
}

// EmployeeUpdate describes a change of an employee profile. Nil pointers leave
// the corresponding column untouched.
type EmployeeUpdate struct {
	FirstName        *string
	LastName         *string
	Phone            *string
	Department       *string
	Position         *string
	Salary           *decimal.Decimal
	Status           *EmployeeStatus
	Address          *string
	EmergencyContact *string
	BirthDate        *time.Time
	Gender           *string
	Email            *string
	Role             *Role
}
