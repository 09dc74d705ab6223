package service_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/UnknownOlympus/chronos/internal/models"
	"github.com/UnknownOlympus/chronos/internal/repository"
	"github.com/UnknownOlympus/chronos/internal/service"
)

// memStore is an in-memory stand-in for the PostgreSQL repository.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	accounts   map[int64]models.Account
	employees  map[int64]models.Employee
	attendance []models.Attendance
	leaves     []models.LeaveRequest
	lookups    int
	failWith   error
}

var (
	_ repository.AccountManager    = (*memStore)(nil)
	_ repository.EmployeeManager   = (*memStore)(nil)
	_ repository.AttendanceManager = (*memStore)(nil)
	_ repository.LeaveManager      = (*memStore)(nil)
	_ repository.ReportManager     = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		accounts:  make(map[int64]models.Account),
		employees: make(map[int64]models.Employee),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// seedEmployee stores an active account with its employee and returns the employee.
func (s *memStore) seedEmployee(code, first string, role models.Role) models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := models.Account{ID: s.id(), Email: strings.ToLower(code) + "@corp.io", Role: role, IsActive: true}
	s.accounts[account.ID] = account

	employee := models.Employee{
		ID:         s.id(),
		AccountID:  account.ID,
		Code:       code,
		FirstName:  first,
		LastName:   "Doe",
		Department: "Ops",
		Position:   "Analyst",
		Status:     models.EmployeeActive,
		Email:      account.Email,
		Role:       role,
	}
	s.employees[employee.ID] = employee

	return employee
}

func (s *memStore) CreateAccount(_ context.Context, email, hash string, role models.Role) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Email == email {
			return models.Account{}, repository.ErrEmailExists
		}
	}
	account := models.Account{ID: s.id(), Email: email, PasswordHash: hash, Role: role, IsActive: true}
	s.accounts[account.ID] = account
	return account, nil
}

func (s *memStore) AccountByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return models.Account{}, repository.ErrNotFound
}

func (s *memStore) AccountByID(_ context.Context, id int64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return models.Account{}, s.failWith
	}
	a, ok := s.accounts[id]
	if !ok {
		return models.Account{}, repository.ErrNotFound
	}
	return a, nil
}

func (s *memStore) ProfileByAccount(_ context.Context, accountID int64) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[accountID]
	if !ok {
		return models.Profile{}, repository.ErrNotFound
	}
	profile := models.Profile{Account: a}
	for _, e := range s.employees {
		if e.AccountID == accountID {
			profile.EmployeeID = &e.ID
			profile.EmployeeCode = &e.Code
			profile.FirstName = &e.FirstName
			profile.LastName = &e.LastName
			profile.Phone = &e.Phone
		}
	}
	return profile, nil
}

func (s *memStore) UpdateAccountProfile(_ context.Context, accountID int64, first, last, phone *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.employees {
		if e.AccountID != accountID {
			continue
		}
		if first != nil {
			e.FirstName = *first
		}
		if last != nil {
			e.LastName = *last
		}
		if phone != nil {
			e.Phone = *phone
		}
		s.employees[id] = e
		return nil
	}
	return repository.ErrNotFound
}

func (s *memStore) UpdatePassword(_ context.Context, accountID int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[accountID]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = hash
	s.accounts[accountID] = a
	return nil
}

func (s *memStore) EmployeeByAccount(_ context.Context, accountID int64) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookups++
	if s.failWith != nil {
		return models.Employee{}, s.failWith
	}
	for _, e := range s.employees {
		if e.AccountID == accountID {
			return e, nil
		}
	}
	return models.Employee{}, repository.ErrNotFound
}

func (s *memStore) EmployeeByID(_ context.Context, id int64) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok {
		return models.Employee{}, repository.ErrNotFound
	}
	return e, nil
}

func (s *memStore) ListEmployees(_ context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]models.Employee, 0)
	for _, e := range s.employees {
		if filter.Status != "" && string(e.Status) != filter.Status {
			continue
		}
		if filter.Department != "" && e.Department != filter.Department {
			continue
		}
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].FirstName < list[j].FirstName })
	return list, nil
}

func (s *memStore) CreateEmployee(_ context.Context, in models.NewEmployee) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Email == in.Email {
			return models.Employee{}, repository.ErrEmailExists
		}
	}
	for _, e := range s.employees {
		if e.Code == in.Code {
			return models.Employee{}, repository.ErrEmployeeCodeExists
		}
	}

	account := models.Account{ID: s.id(), Email: in.Email, PasswordHash: in.PasswordHash, Role: in.Role, IsActive: true}
	s.accounts[account.ID] = account

	employee := models.Employee{
		ID:         s.id(),
		AccountID:  account.ID,
		Code:       in.Code,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Department: in.Department,
		Position:   in.Position,
		HireDate:   in.HireDate,
		Salary:     in.Salary,
		BirthDate:  in.BirthDate,
		Status:     models.EmployeeActive,
		Email:      in.Email,
		Role:       in.Role,
	}
	s.employees[employee.ID] = employee
	return employee, nil
}

func (s *memStore) UpdateEmployee(_ context.Context, id int64, u models.EmployeeUpdate) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok {
		return models.Employee{}, repository.ErrNotFound
	}
	if u.Email != nil {
		for _, a := range s.accounts {
			if a.Email == *u.Email && a.ID != e.AccountID {
				return models.Employee{}, repository.ErrEmailExists
			}
		}
		e.Email = *u.Email
	}
	if u.FirstName != nil {
		e.FirstName = *u.FirstName
	}
	if u.Department != nil {
		e.Department = *u.Department
	}
	if u.Salary != nil {
		e.Salary = *u.Salary
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
	if u.Role != nil {
		e.Role = *u.Role
	}
	s.employees[id] = e
	return e, nil
}

func (s *memStore) TerminateEmployee(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	e.Status = models.EmployeeTerminated
	s.employees[id] = e
	return e.AccountID, nil
}

func (s *memStore) InsertCheckIn(
	_ context.Context,
	employeeID int64,
	workDate time.Time,
	status models.AttendanceStatus,
	mark models.CheckMark,
) (models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.attendance {
		if r.EmployeeID == employeeID && r.WorkDate.Equal(workDate) {
			return models.Attendance{}, repository.ErrAlreadyCheckedIn
		}
	}
	record := models.Attendance{
		ID:               s.id(),
		EmployeeID:       employeeID,
		WorkDate:         workDate,
		CheckInTime:      mark.Time,
		CheckInLocation:  mark.Location,
		CheckInLatitude:  mark.Latitude,
		CheckInLongitude: mark.Longitude,
		CheckInMethod:    mark.Method,
		Status:           status,
		Notes:            mark.Notes,
	}
	s.attendance = append(s.attendance, record)
	return record, nil
}

func (s *memStore) CloseAttendance(
	_ context.Context,
	employeeID int64,
	workDate time.Time,
	closeFn func(models.Attendance) models.CheckOutUpdate,
) (models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.attendance {
		if r.EmployeeID != employeeID || !r.WorkDate.Equal(workDate) || !r.IsOpen() {
			continue
		}
		update := closeFn(r)
		r.CheckOutTime = &update.Time
		r.CheckOutLocation = &update.Location
		r.CheckOutMethod = &update.Method
		r.WorkHours = &update.WorkHours
		r.OvertimeHours = &update.OvertimeHours
		r.Notes = update.Notes
		s.attendance[i] = r
		return r, nil
	}
	return models.Attendance{}, repository.ErrNoOpenAttendance
}

func (s *memStore) AttendanceOn(_ context.Context, employeeID int64, workDate time.Time) (models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.attendance {
		if r.EmployeeID == employeeID && r.WorkDate.Equal(workDate) {
			return r, nil
		}
	}
	return models.Attendance{}, repository.ErrNotFound
}

func (s *memStore) AttendanceHistory(
	_ context.Context,
	employeeID int64,
	rng models.AttendanceRange,
) ([]models.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]models.Attendance, 0)
	for i := len(s.attendance) - 1; i >= 0; i-- {
		r := s.attendance[i]
		if r.EmployeeID != employeeID {
			continue
		}
		if rng.From != nil && (r.WorkDate.Before(*rng.From) || r.WorkDate.After(*rng.To)) {
			continue
		}
		records = append(records, r)
	}
	if rng.Offset >= len(records) {
		return []models.Attendance{}, nil
	}
	records = records[rng.Offset:]
	if len(records) > rng.Limit {
		records = records[:rng.Limit]
	}
	return records, nil
}

func (s *memStore) AttendanceStats(
	_ context.Context,
	employeeID int64,
	from, to time.Time,
) (models.AttendanceStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return models.AttendanceStats{}, s.failWith
	}
	return s.stats(employeeID, from, to), nil
}

func (s *memStore) stats(employeeID int64, from, to time.Time) models.AttendanceStats {
	var stats models.AttendanceStats
	closed := 0
	for _, r := range s.attendance {
		if r.EmployeeID != employeeID || r.WorkDate.Before(from) || !r.WorkDate.Before(to) {
			continue
		}
		stats.TotalDays++
		if r.Status == models.AttendanceLate {
			stats.LateDays++
		} else {
			stats.PresentDays++
		}
		if r.WorkHours != nil {
			closed++
			stats.TotalWorkHours += *r.WorkHours
			stats.TotalOvertimeHours += *r.OvertimeHours
		}
	}
	if closed > 0 {
		stats.AvgWorkHours = stats.TotalWorkHours / float64(closed)
	}
	return stats
}

func (s *memStore) MonthlyAttendanceReport(_ context.Context, from, to time.Time) ([]models.EmployeeAttendanceStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]models.EmployeeAttendanceStats, 0)
	for _, e := range s.employees {
		if e.Status == models.EmployeeTerminated {
			continue
		}
		rows = append(rows, models.EmployeeAttendanceStats{
			EmployeeID:      e.ID,
			EmployeeCode:    e.Code,
			FullName:        e.FullName(),
			Department:      e.Department,
			AttendanceStats: s.stats(e.ID, from, to),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].EmployeeID < rows[j].EmployeeID })
	return rows, nil
}

func (s *memStore) InsertLeave(_ context.Context, in models.NewLeaveRequest) (models.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.employees[in.EmployeeID]
	leave := models.LeaveRequest{
		ID:           s.id(),
		EmployeeID:   in.EmployeeID,
		EmployeeCode: e.Code,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		Type:         in.Type,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Days:         in.Days,
		Reason:       in.Reason,
		Status:       models.LeavePending,
	}
	s.leaves = append(s.leaves, leave)
	return leave, nil
}

func (s *memStore) ListLeaves(_ context.Context, employeeID *int64) ([]models.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leaves := make([]models.LeaveRequest, 0)
	for i := len(s.leaves) - 1; i >= 0; i-- {
		if employeeID == nil || s.leaves[i].EmployeeID == *employeeID {
			leaves = append(leaves, s.leaves[i])
		}
	}
	return leaves, nil
}

func (s *memStore) LeaveByID(_ context.Context, id int64) (models.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.leaves {
		if l.ID == id {
			return l, nil
		}
	}
	return models.LeaveRequest{}, repository.ErrNotFound
}

func (s *memStore) DecideLeave(_ context.Context, id int64, d models.LeaveDecision) (models.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.leaves {
		if l.ID != id {
			continue
		}
		if l.Status != models.LeavePending {
			return models.LeaveRequest{}, repository.ErrLeaveDecided
		}
		l.Status = d.Status
		l.ApprovedBy = &d.ApproverID
		l.ApprovedAt = &d.DecidedAt
		l.RejectionReason = d.RejectionReason
		s.leaves[i] = l
		return l, nil
	}
	return models.LeaveRequest{}, repository.ErrNotFound
}

// memCache is an EmployeeCache backed by a map.
type memCache struct {
	mu      sync.Mutex
	entries map[int64]models.Employee
	deleted []int64
	err     error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[int64]models.Employee)}
}

func (c *memCache) Get(_ context.Context, accountID int64) (models.Employee, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return models.Employee{}, false, c.err
	}
	e, ok := c.entries[accountID]
	return e, ok, nil
}

func (c *memCache) Set(_ context.Context, employee models.Employee) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[employee.AccountID] = employee
	return nil
}

func (c *memCache) Delete(_ context.Context, accountID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, accountID)
	delete(c.entries, accountID)
	return c.err
}

// recordingNotifier remembers what it was asked to send.
type recordingNotifier struct {
	mu        sync.Mutex
	submitted []models.LeaveRequest
	decided   []models.LeaveRequest
	err       error
}

func (n *recordingNotifier) LeaveSubmitted(_ context.Context, leave models.LeaveRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted = append(n.submitted, leave)
	return n.err
}

func (n *recordingNotifier) LeaveDecided(_ context.Context, leave models.LeaveRequest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decided = append(n.decided, leave)
	return n.err
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires every service over one memStore.
type fixture struct {
	store     *memStore
	cache     *memCache
	notifier  *recordingNotifier
	clock     *clock
	directory *service.Directory
	attend    *service.Attendance
	leaves    *service.Leaves
	reports   *service.Reports
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		store:    newMemStore(),
		cache:    newMemCache(),
		notifier: &recordingNotifier{},
		clock:    &clock{now: now},
	}
	opts := service.Options{Location: time.UTC, Now: f.clock.Now}
	log := discardLogger()

	f.directory = service.NewDirectory(log, f.store, f.cache, opts)
	f.attend = service.NewAttendance(log, f.store, f.directory, nil, opts)
	f.leaves = service.NewLeaves(log, f.store, f.directory, f.notifier, nil, opts)
	f.reports = service.NewReports(f.store, nil, opts)
	return f
}
