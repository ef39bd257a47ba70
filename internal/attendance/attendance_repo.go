package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActiveEmployee is the slim employee projection the generator iterates.
type ActiveEmployee struct {
	ID           uuid.UUID
	FullName     string
	EmployeeCode string
}

// ApprovedLeaveRef links a generated LEAVE day back to the covering request.
type ApprovedLeaveRef struct {
	ID        uuid.UUID
	LeaveType string
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *AttendanceRecord) error
	ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error)
	FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error)
	FindByDate(ctx context.Context, date time.Time) ([]AttendanceRecord, error)
	FindActiveEmployees(ctx context.Context) ([]ActiveEmployee, error)
	FindApprovedLeaveOn(ctx context.Context, employeeID string, date time.Time) (*ApprovedLeaveRef, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn routes statements through the enclosing *sql.Tx when one was attached
// via WithTx, so a day's generated records commit or roll back as a unit.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx != nil {
		db := r.db.Session(&gorm.Session{Context: ctx, NewDB: true})
		db.Statement.ConnPool = r.tx
		return db
	}
	return r.db.WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, rec *AttendanceRecord) error {
	return r.conn(ctx).Create(rec).Error
}

func (r *repository) ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&AttendanceRecord{}).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error) {
	var recs []AttendanceRecord
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", from, to).
		Order("attendance_date ASC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) ([]AttendanceRecord, error) {
	var recs []AttendanceRecord
	err := r.conn(ctx).
		Where("attendance_date = ?", date).
		Order("employee_id ASC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) FindActiveEmployees(ctx context.Context) ([]ActiveEmployee, error) {
	var empls []ActiveEmployee
	err := r.conn(ctx).
		Table("employees").
		Select("id", "full_name", "employee_code").
		Where("status = ?", "ACTIVE").
		Order("employee_code ASC").
		Scan(&empls).Error
	return empls, err
}

func (r *repository) FindApprovedLeaveOn(ctx context.Context, employeeID string, date time.Time) (*ApprovedLeaveRef, error) {
	var ref ApprovedLeaveRef
	err := r.conn(ctx).
		Table("leave_requests").
		Select("id", "leave_type").
		Where("employee_id = ?", employeeID).
		Where("status = ?", "APPROVED").
		Where("start_date <= ? AND end_date >= ?", date, date).
		Take(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}
