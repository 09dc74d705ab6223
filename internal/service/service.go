// Package service holds the attendance and leave domain: the employee directory,
// the attendance and leave ledgers, accounts and reports.
package service

import (
	"context"
	"time"

	"github.com/UnknownOlympus/chronos/internal/models"
)

const (
	defaultLateHour      = 8
	defaultStandardHours = 8
	defaultHistoryLimit  = 50
	maxHistoryLimit      = 200
)

// Caller is the authenticated identity invoking an operation.
type Caller struct {
	AccountID int64
	Email     string
	Role      models.Role
}

// Options configures the attendance rules.
type Options struct {
	// Location is the zone calendar days and the late threshold are evaluated in.
	Location *time.Location
	// LateHour is the first wall-clock hour that counts as late.
	LateHour int
	// StandardHours is the length of a working day before overtime starts.
	StandardHours float64
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.LateHour <= 0 {
		o.LateHour = defaultLateHour
	}
	if o.StandardHours <= 0 {
		o.StandardHours = defaultStandardHours
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// EmployeeCache keeps account to employee lookups close at hand.
type EmployeeCache interface {
	Get(ctx context.Context, accountID int64) (models.Employee, bool, error)
	Set(ctx context.Context, employee models.Employee) error
	Delete(ctx context.Context, accountID int64) error
}

// Notifier tells people about leave requests.
type Notifier interface {
	LeaveSubmitted(ctx context.Context, leave models.LeaveRequest) error
	LeaveDecided(ctx context.Context, leave models.LeaveRequest) error
}

// employeeResolver is the part of the directory the ledgers depend on.
type employeeResolver interface {
	Resolve(ctx context.Context, accountID int64) (models.Employee, error)
}
