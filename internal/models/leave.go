package models

import "time"

// LeaveType enumerates the kinds of leave an employee can request.
type LeaveType string

const (
	LeaveAnnual    LeaveType = "annual"
	LeaveSick      LeaveType = "sick"
	LeavePersonal  LeaveType = "personal"
	LeaveEmergency LeaveType = "emergency"
)

// Valid reports whether the leave type is known.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveAnnual, LeaveSick, LeavePersonal, LeaveEmergency:
		return true
	}
	return false
}

// LeaveStatus is the approval state of a leave request. Only pending transitions.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// Terminal reports whether the status can no longer change.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveApproved || s == LeaveRejected
}

// LeaveRequest is a request for leave by one employee.
type LeaveRequest struct {
	ID              int64       `json:"id"`
	EmployeeID      int64       `json:"employeeDbId"`
	EmployeeCode    string      `json:"employeeId"`
	FirstName       string      `json:"firstName"`
	LastName        string      `json:"lastName"`
	Email           string      `json:"email,omitempty"`
	Type            LeaveType   `json:"leaveType"`
	StartDate       time.Time   `json:"startDate"`
	EndDate         time.Time   `json:"endDate"`
	Days            int         `json:"daysRequested"`
	Reason          string      `json:"reason"`
	Status          LeaveStatus `json:"status"`
	ApprovedBy      *int64      `json:"approvedBy"`
	ApprovedAt      *time.Time  `json:"approvedAt"`
	RejectionReason *string     `json:"rejectionReason"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// NewLeaveRequest is the submission stored as a pending request.
type NewLeaveRequest struct {
	EmployeeID int64
	Type       LeaveType
	StartDate  time.Time
	EndDate    time.Time
	Days       int
	Reason     string
}

// LeaveDecision is the outcome recorded on a pending request.
type LeaveDecision struct {
	Status          LeaveStatus
	ApproverID      int64
	DecidedAt       time.Time
	RejectionReason *string
}
