package repository

const accountColumns = `id, email, password_hash, role, is_active, created_at`

const InsertAccountSQL = `
INSERT INTO accounts (email, password_hash, role)
VALUES ($1, $2, $3)
ON CONFLICT (email) DO NOTHING
RETURNING ` + accountColumns

const SelectAccountByEmailSQL = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

const SelectAccountByIDSQL = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

const SelectProfileSQL = `
SELECT
    a.id, a.email, a.password_hash, a.role, a.is_active, a.created_at,
    e.id, e.employee_code, e.first_name, e.last_name, e.phone, e.department, e.position, e.hire_date
FROM
    accounts a
LEFT JOIN
    employees e ON e.account_id = a.id
WHERE
    a.id = $1
`

const UpdateAccountProfileSQL = `
UPDATE employees SET
    first_name = COALESCE($2, first_name),
    last_name = COALESCE($3, last_name),
    phone = COALESCE($4, phone),
    updated_at = now()
WHERE account_id = $1
`

const UpdatePasswordSQL = `UPDATE accounts SET password_hash = $2, updated_at = now() WHERE id = $1`

const employeeColumns = `
    e.id, e.account_id, e.employee_code, e.first_name, e.last_name, e.phone, e.department,
    e.position, e.hire_date, e.salary, e.status, e.address, e.emergency_contact, e.birth_date,
    e.gender, a.email, a.role, e.created_at`

const SelectEmployeeByAccountSQL = `
SELECT` + employeeColumns + `
FROM employees e
JOIN accounts a ON a.id = e.account_id
WHERE e.account_id = $1
`

const SelectEmployeeByIDSQL = `
SELECT` + employeeColumns + `
FROM employees e
JOIN accounts a ON a.id = e.account_id
WHERE e.id = $1
`

const ListEmployeesSQL = `
SELECT` + employeeColumns + `
FROM employees e
JOIN accounts a ON a.id = e.account_id
WHERE ($1::text = '' OR e.status = $1::text)
    AND ($2::text = '' OR e.department = $2::text)
ORDER BY e.first_name, e.last_name, e.id
`

const AccountEmailExistsSQL = `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1 AND id <> $2)`

const EmployeeCodeExistsSQL = `SELECT EXISTS (SELECT 1 FROM employees WHERE employee_code = $1)`

const InsertEmployeeAccountSQL = `
INSERT INTO accounts (email, password_hash, role, is_active)
VALUES ($1, $2, $3, TRUE)
RETURNING id
`

const InsertEmployeeSQL = `
INSERT INTO employees (
    account_id, employee_code, first_name, last_name, phone, department, position,
    hire_date, salary, status, address, emergency_contact, birth_date, gender
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active', $10, $11, $12, $13)
RETURNING id, status, created_at
`

const UpdateEmployeeSQL = `
UPDATE employees SET
    first_name = COALESCE($2, first_name),
    last_name = COALESCE($3, last_name),
    phone = COALESCE($4, phone),
    department = COALESCE($5, department),
    position = COALESCE($6, position),
    salary = COALESCE($7, salary),
    status = COALESCE($8, status),
    address = COALESCE($9, address),
    emergency_contact = COALESCE($10, emergency_contact),
    birth_date = COALESCE($11, birth_date),
    gender = COALESCE($12, gender),
    updated_at = now()
WHERE id = $1
RETURNING account_id
`

const UpdateEmployeeAccountSQL = `
UPDATE accounts SET
    email = COALESCE($2, email),
    role = COALESCE($3, role),
    updated_at = now()
WHERE id = $1
`

const TerminateEmployeeSQL = `
UPDATE employees SET status = 'terminated', updated_at = now()
WHERE id = $1
RETURNING account_id
`

const attendanceColumns = `
    id, employee_id, work_date, check_in_time, check_in_location, check_in_latitude,
    check_in_longitude, check_in_method, check_out_time, check_out_location, check_out_latitude,
    check_out_longitude, check_out_method, work_hours::float8, overtime_hours::float8, status,
    notes, created_at`

const InsertCheckInSQL = `
INSERT INTO attendance (
    employee_id, work_date, check_in_time, check_in_location, check_in_latitude,
    check_in_longitude, check_in_method, status, notes
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (employee_id, work_date) DO NOTHING
RETURNING` + attendanceColumns

const SelectOpenAttendanceForUpdateSQL = `
SELECT` + attendanceColumns + `
FROM attendance
WHERE employee_id = $1 AND work_date = $2 AND check_out_time IS NULL
FOR UPDATE
`

const UpdateCheckOutSQL = `
UPDATE attendance SET
    check_out_time = $2,
    check_out_location = $3,
    check_out_latitude = $4,
    check_out_longitude = $5,
    check_out_method = $6,
    work_hours = $7,
    overtime_hours = $8,
    notes = $9,
    updated_at = now()
WHERE id = $1
RETURNING` + attendanceColumns

const SelectAttendanceOnSQL = `
SELECT` + attendanceColumns + `
FROM attendance
WHERE employee_id = $1 AND work_date = $2
`

const SelectAttendanceHistorySQL = `
SELECT` + attendanceColumns + `
FROM attendance
WHERE employee_id = $1
    AND ($2::date IS NULL OR (work_date >= $2::date AND work_date <= $3::date))
ORDER BY work_date DESC, check_in_time DESC
LIMIT $4 OFFSET $5
`

const statsAggregates = `
    COUNT(a.id),
    COUNT(a.id) FILTER (WHERE a.status = 'present'),
    COUNT(a.id) FILTER (WHERE a.status = 'late'),
    COALESCE(ROUND(AVG(a.work_hours), 2), 0)::float8,
    COALESCE(SUM(a.work_hours), 0)::float8,
    COALESCE(SUM(a.overtime_hours), 0)::float8`

const SelectAttendanceStatsSQL = `
SELECT` + statsAggregates + `
FROM attendance a
WHERE a.employee_id = $1
    AND a.work_date >= $2
    AND a.work_date < $3
`

const SelectMonthlyReportSQL = `
SELECT
    e.id,
    e.employee_code,
    e.first_name || ' ' || e.last_name,
    e.department,` + statsAggregates + `
FROM
    employees e
LEFT JOIN
    attendance a ON a.employee_id = e.id AND a.work_date >= $1 AND a.work_date < $2
WHERE
    e.status <> 'terminated'
GROUP BY
    e.id
ORDER BY
    e.department, e.first_name, e.last_name, e.id
`

const leaveColumns = `
    lr.id, lr.employee_id, e.employee_code, e.first_name, e.last_name, a.email, lr.leave_type,
    lr.start_date, lr.end_date, lr.days_requested, lr.reason, lr.status, lr.approved_by,
    lr.approved_at, lr.rejection_reason, lr.created_at`

const leaveJoins = `
JOIN employees e ON e.id = lr.employee_id
JOIN accounts a ON a.id = e.account_id`

const InsertLeaveSQL = `
WITH ins AS (
    INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, days_requested, reason)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING *
)
SELECT` + leaveColumns + `
FROM ins lr` + leaveJoins

const ListLeavesSQL = `
SELECT` + leaveColumns + `
FROM leave_requests lr` + leaveJoins + `
WHERE ($1::bigint IS NULL OR lr.employee_id = $1)
ORDER BY lr.created_at DESC, lr.id DESC
`

const SelectLeaveByIDSQL = `
SELECT` + leaveColumns + `
FROM leave_requests lr` + leaveJoins + `
WHERE lr.id = $1
`

const DecideLeaveSQL = `
WITH upd AS (
    UPDATE leave_requests SET
        status = $2,
        approved_by = $3,
        approved_at = $4,
        rejection_reason = $5,
        updated_at = now()
    WHERE id = $1 AND status = 'pending'
    RETURNING *
)
SELECT` + leaveColumns + `
FROM upd lr` + leaveJoins

const SelectLeaveStatusSQL = `SELECT status FROM leave_requests WHERE id = $1`
