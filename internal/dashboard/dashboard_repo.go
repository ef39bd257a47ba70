package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// AdminCounts is the raw tally behind the admin dashboard.
type AdminCounts struct {
	TotalEmployees  int64
	ActiveEmployees int64
	PendingLeaves   int64
	OnLeaveToday    int64
	PresentToday    int64
}

// EmployeeCounts is the raw tally behind an employee's dashboard.
type EmployeeCounts struct {
	PendingRequests   int64
	ApprovedThisYear  int64
	LeaveDaysTaken    int64
	PresentThisMonth  int64
	OnLeaveThisMonth  int64
	RecordedThisMonth int64
}

//go:generate mockgen -source=dashboard_repo.go -destination=mock/dashboard_repo_mock.go -package=mock
type Repository interface {
	AdminCounts(ctx context.Context, today time.Time) (AdminCounts, error)
	EmployeeCounts(ctx context.Context, employeeID string, now time.Time) (EmployeeCounts, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AdminCounts(ctx context.Context, today time.Time) (AdminCounts, error) {
	var counts AdminCounts
	day := today.Format("2006-01-02")

	queries := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&counts.TotalEmployees, `SELECT COUNT(*) FROM employees`, nil},
		{&counts.ActiveEmployees, `SELECT COUNT(*) FROM employees WHERE status = 'ACTIVE'`, nil},
		{&counts.PendingLeaves, `SELECT COUNT(*) FROM leave_requests WHERE status = 'PENDING'`, nil},
		{&counts.OnLeaveToday, `SELECT COUNT(*) FROM attendance_records WHERE attendance_date = ? AND status = 'LEAVE'`, []any{day}},
		{&counts.PresentToday, `SELECT COUNT(*) FROM attendance_records WHERE attendance_date = ? AND status = 'PRESENT'`, []any{day}},
	}
	for _, q := range queries {
		if err := r.db.WithContext(ctx).Raw(q.query, q.args...).Scan(q.dest).Error; err != nil {
			return AdminCounts{}, err
		}
	}
	return counts, nil
}

func (r *repository) EmployeeCounts(ctx context.Context, employeeID string, now time.Time) (EmployeeCounts, error) {
	var counts EmployeeCounts
	year := now.Year()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	monthEnd := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Format("2006-01-02")

	queries := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&counts.PendingRequests,
			`SELECT COUNT(*) FROM leave_requests WHERE employee_id = ? AND status = 'PENDING'`,
			[]any{employeeID}},
		{&counts.ApprovedThisYear,
			`SELECT COUNT(*) FROM leave_requests WHERE employee_id = ? AND status = 'APPROVED' AND EXTRACT(YEAR FROM start_date) = ?`,
			[]any{employeeID, year}},
		{&counts.LeaveDaysTaken,
			`SELECT COALESCE(SUM(used), 0) FROM leave_balances WHERE employee_id = ? AND year = ?`,
			[]any{employeeID, year}},
		{&counts.PresentThisMonth,
			`SELECT COUNT(*) FROM attendance_records WHERE employee_id = ? AND status = 'PRESENT' AND attendance_date BETWEEN ? AND ?`,
			[]any{employeeID, monthStart, monthEnd}},
		{&counts.OnLeaveThisMonth,
			`SELECT COUNT(*) FROM attendance_records WHERE employee_id = ? AND status = 'LEAVE' AND attendance_date BETWEEN ? AND ?`,
			[]any{employeeID, monthStart, monthEnd}},
		{&counts.RecordedThisMonth,
			`SELECT COUNT(*) FROM attendance_records WHERE employee_id = ? AND attendance_date BETWEEN ? AND ?`,
			[]any{employeeID, monthStart, monthEnd}},
	}
	for _, q := range queries {
		if err := r.db.WithContext(ctx).Raw(q.query, q.args...).Scan(q.dest).Error; err != nil {
			return EmployeeCounts{}, err
		}
	}
	return counts, nil
}
