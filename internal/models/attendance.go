package models

import "time"

// AttendanceStatus is decided once, at check-in.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
)

// CheckMethod tags how a check-in or check-out was captured.
type CheckMethod string

const (
	MethodManual   CheckMethod = "manual"
	MethodQR       CheckMethod = "qr"
	MethodFace     CheckMethod = "face"
	MethodLocation CheckMethod = "location"
)

// Valid reports whether the method is one of the known methods.
func (m CheckMethod) Valid() bool {
	switch m {
	case MethodManual, MethodQR, MethodFace, MethodLocation:
		return true
	}
	return false
}

// Attendance is one check-in/check-out pair of an employee on a calendar day.
// The record is open while CheckOutTime is nil.
type Attendance struct {
	ID                int64            `json:"id"`
	EmployeeID        int64            `json:"employeeId"`
	WorkDate          time.Time        `json:"workDate"`
	CheckInTime       time.Time        `json:"checkInTime"`
	CheckInLocation   string           `json:"checkInLocation"`
	CheckInLatitude   *float64         `json:"checkInLatitude"`
	CheckInLongitude  *float64         `json:"checkInLongitude"`
	CheckInMethod     CheckMethod      `json:"checkInMethod"`
	CheckOutTime      *time.Time       `json:"checkOutTime"`
	CheckOutLocation  *string          `json:"checkOutLocation"`
	CheckOutLatitude  *float64         `json:"checkOutLatitude"`
	CheckOutLongitude *float64         `json:"checkOutLongitude"`
	CheckOutMethod    *CheckMethod     `json:"checkOutMethod"`
	WorkHours         *float64         `json:"workHours"`
	OvertimeHours     *float64         `json:"overtimeHours"`
	Status            AttendanceStatus `json:"status"`
	Notes             string           `json:"notes"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// IsOpen reports whether the record still waits for a check-out.
func (a Attendance) IsOpen() bool {
	return a.CheckOutTime == nil
}

// CheckMark is the data captured at a check-in or check-out.
type CheckMark struct {
	Time      time.Time
	Location  string
	Latitude  *float64
	Longitude *float64
	Method    CheckMethod
	Notes     string
}

// CheckOutUpdate is what the ledger writes to an open record at check-out.
type CheckOutUpdate struct {
	CheckMark
	WorkHours     float64
	OvertimeHours float64
	Notes         string // the full, already concatenated notes
}

// AttendanceRange narrows a history query. From and To are inclusive calendar days.
type AttendanceRange struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// AttendanceStats aggregates one employee's records for a month.
type AttendanceStats struct {
	TotalDays          int     `json:"totalDays"`
	PresentDays        int     `json:"presentDays"`
	LateDays           int     `json:"lateDays"`
	AvgWorkHours       float64 `json:"avgWorkHours"`
	TotalWorkHours     float64 `json:"totalWorkHours"`
	TotalOvertimeHours float64 `json:"totalOvertimeHours"`
}

// EmployeeAttendanceStats is a monthly stats row of the cross-employee report.
type EmployeeAttendanceStats struct {
	EmployeeID   int64  `json:"employeeDbId"`
	EmployeeCode string `json:"employeeId"`
	FullName     string `json:"fullName"`
	Department   string `json:"department"`
	AttendanceStats
}
