package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error)
	FindAll(ctx context.Context, limit, offset int) ([]LeaveRequest, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, l *LeaveRequest) error
	EmployeeIsActive(ctx context.Context, employeeID string) (bool, error)
	HasOverlappingLeave(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	HasApprovedOverlap(ctx context.Context, employeeID, excludeID string, startDate, endDate time.Time) (bool, error)
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
// via WithTx, so writes commit and roll back together with the caller's
// transaction.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx != nil {
		db := r.db.Session(&gorm.Session{Context: ctx, NewDB: true})
		db.Statement.ConnPool = r.tx
		return db
	}
	return r.db.WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Preload("Employee").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Preload("Employee").
		Where("employee_id = ?", employeeID).
		Order("applied_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Preload("Employee").
		Where("status = ?", status).
		Order("applied_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Preload("Employee").
		Order("applied_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Save(l).Error
}

func (r *repository) EmployeeIsActive(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Where("status = ?", "ACTIVE").
		Count(&count).Error
	return count > 0, err
}

// HasOverlappingLeave reports whether the employee already has a PENDING or
// APPROVED leave touching the given range. Rejected and cancelled leaves do
// not block new requests.
func (r *repository) HasOverlappingLeave(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

// HasApprovedOverlap reports whether another APPROVED leave of the employee
// touches the given range. Used as a final guard before approval, since a
// sibling request may have been approved after this one was filed.
func (r *repository) HasApprovedOverlap(ctx context.Context, employeeID, excludeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("id <> ?", excludeID).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

//go:generate mockgen -source=leave_repo.go -destination=mock/balance_repo_mock.go -package=mock
type BalanceRepository interface {
	WithTx(tx *sql.Tx) BalanceRepository
	CreateAll(ctx context.Context, balances []LeaveBalance) error
	FindByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	FindByEmployeeTypeYear(ctx context.Context, employeeID, leaveType string, year int) (*LeaveBalance, error)
	Update(ctx context.Context, b *LeaveBalance) error
}

type balanceRepository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) WithTx(tx *sql.Tx) BalanceRepository {
	return &balanceRepository{db: r.db, tx: tx}
}

func (r *balanceRepository) conn(ctx context.Context) *gorm.DB {
	if r.tx != nil {
		db := r.db.Session(&gorm.Session{Context: ctx, NewDB: true})
		db.Statement.ConnPool = r.tx
		return db
	}
	return r.db.WithContext(ctx)
}

func (r *balanceRepository) CreateAll(ctx context.Context, balances []LeaveBalance) error {
	return r.conn(ctx).Create(&balances).Error
}

func (r *balanceRepository) FindByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Order("leave_type ASC").
		Find(&balances).Error
	return balances, err
}

func (r *balanceRepository) FindByEmployeeTypeYear(ctx context.Context, employeeID, leaveType string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *balanceRepository) Update(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).Save(b).Error
}
