package api_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/chronos/internal/apperr"
	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/UnknownOlympus/chronos/internal/service"
)

// tokens maps bearer tokens to callers.
var tokens = map[string]service.Caller{
	"employee-token": {AccountID: 1, Email: "jane@corp.io", Role: models.RoleEmployee},
	"manager-token":  {AccountID: 2, Email: "ann@corp.io", Role: models.RoleManager},
	"hr-token":       {AccountID: 3, Email: "hr@corp.io", Role: models.RoleHR},
	"inactive-token": {},
}

var day = time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)

type fakeServices struct {
	err error

	lastCheck    service.CheckInput
	lastHistory  service.HistoryInput
	lastFilter   models.EmployeeFilter
	lastCreate   service.CreateEmployeeInput
	lastDecide   service.DecideLeaveInput
	lastCaller   service.Caller
	lastMonth    int
	lastYear     int
	lastID       int64
	panicOnToday bool
}

func (f *fakeServices) Register(_ context.Context, in service.RegisterInput) (service.Session, error) {
	if f.err != nil {
		return service.Session{}, f.err
	}
	return service.Session{
		Token:   "new-token",
		Account: models.Account{ID: 10, Email: in.Email, Role: models.RoleEmployee, IsActive: true},
	}, nil
}

func (f *fakeServices) Login(_ context.Context, in service.LoginInput) (service.Session, error) {
	if in.Password != "secret1" {
		return service.Session{}, apperr.ErrInvalidCredentials
	}
	return service.Session{
		Token:    "employee-token",
		Account:  models.Account{ID: 1, Email: in.Email, Role: models.RoleEmployee, IsActive: true},
		Employee: &models.Employee{ID: 5, Code: "EMP001"},
	}, nil
}

func (f *fakeServices) Authenticate(_ context.Context, token string) (service.Caller, error) {
	if token == "" {
		return service.Caller{}, apperr.ErrMissingToken
	}
	caller, found := tokens[token]
	if !found {
		return service.Caller{}, apperr.ErrInvalidToken
	}
	if caller.AccountID == 0 {
		return service.Caller{}, apperr.ErrAccountInactive
	}
	return caller, nil
}

func (f *fakeServices) Profile(_ context.Context, accountID int64) (models.Profile, error) {
	return models.Profile{Account: models.Account{ID: accountID}}, f.err
}

func (f *fakeServices) UpdateProfile(_ context.Context, accountID int64, in service.UpdateProfileInput) (models.Profile, error) {
	return models.Profile{Account: models.Account{ID: accountID}, FirstName: in.FirstName}, f.err
}

func (f *fakeServices) ChangePassword(context.Context, int64, service.ChangePasswordInput) error {
	return f.err
}

func (f *fakeServices) CheckIn(_ context.Context, _ int64, in service.CheckInput) (models.Attendance, error) {
	f.lastCheck = in
	if f.err != nil {
		return models.Attendance{}, f.err
	}
	return models.Attendance{ID: 1, EmployeeID: 5, WorkDate: day, Status: models.AttendanceLate}, nil
}

func (f *fakeServices) CheckOut(_ context.Context, _ int64, in service.CheckInput) (models.Attendance, error) {
	f.lastCheck = in
	if f.err != nil {
		return models.Attendance{}, f.err
	}
	return models.Attendance{ID: 1, EmployeeID: 5, WorkDate: day, CheckOutTime: &day}, nil
}

func (f *fakeServices) Today(context.Context, int64) (service.TodayStatus, error) {
	if f.panicOnToday {
		panic("boom")
	}
	return service.TodayStatus{}, f.err
}

func (f *fakeServices) History(_ context.Context, _ int64, in service.HistoryInput) ([]models.Attendance, error) {
	f.lastHistory = in
	return []models.Attendance{{ID: 1}, {ID: 2}}, f.err
}

func (f *fakeServices) MonthlyStats(_ context.Context, _ int64, month, year int) (models.AttendanceStats, error) {
	f.lastMonth, f.lastYear = month, year
	return models.AttendanceStats{TotalDays: 3}, f.err
}

func (f *fakeServices) List(_ context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	f.lastFilter = filter
	return []models.Employee{{ID: 1}}, f.err
}

func (f *fakeServices) Get(_ context.Context, id int64) (models.Employee, error) {
	f.lastID = id
	if f.err != nil {
		return models.Employee{}, f.err
	}
	return models.Employee{ID: id, Code: "EMP001"}, nil
}

func (f *fakeServices) Create(_ context.Context, in service.CreateEmployeeInput) (models.Employee, error) {
	f.lastCreate = in
	return models.Employee{ID: 9, Code: in.EmployeeID}, f.err
}

func (f *fakeServices) Update(_ context.Context, id int64, _ service.UpdateEmployeeInput) (models.Employee, error) {
	f.lastID = id
	return models.Employee{ID: id}, f.err
}

func (f *fakeServices) Terminate(_ context.Context, id int64) (models.Employee, error) {
	f.lastID = id
	return models.Employee{ID: id, Status: models.EmployeeTerminated}, f.err
}

// leaveFake is separate because List clashes with the directory's List.
type leaveFake struct {
	*fakeServices
}

func (l leaveFake) Submit(_ context.Context, _ int64, in service.SubmitLeaveInput) (models.LeaveRequest, error) {
	return models.LeaveRequest{ID: 3, Type: in.LeaveType, Status: models.LeavePending, Days: 3}, l.err
}

func (l leaveFake) List(_ context.Context, caller service.Caller) ([]models.LeaveRequest, error) {
	l.lastCaller = caller
	return []models.LeaveRequest{{ID: 3}}, l.err
}

func (l leaveFake) Decide(_ context.Context, caller service.Caller, id int64, in service.DecideLeaveInput) (models.LeaveRequest, error) {
	l.lastCaller, l.lastID, l.lastDecide = caller, id, in
	if l.err != nil {
		return models.LeaveRequest{}, l.err
	}
	return models.LeaveRequest{ID: id, Status: in.Status}, nil
}

func (f *fakeServices) MonthlyAttendance(_ context.Context, month, year int) (service.MonthlyReport, error) {
	f.lastMonth, f.lastYear = month, year
	return service.MonthlyReport{Month: month, Year: year}, f.err
}

func (f *fakeServices) ExportMonthlyAttendance(_ context.Context, month, year int) (*bytes.Buffer, string, error) {
	f.lastMonth, f.lastYear = month, year
	if f.err != nil {
		return nil, "", f.err
	}
	return bytes.NewBufferString("xlsx-bytes"), "attendance-2024-10.xlsx", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
