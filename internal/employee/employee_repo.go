package employee

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	Search(ctx context.Context, query, status string) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByCode(ctx context.Context, code string) (*Employee, error)
	FindActiveOptions(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, id string) error
	CreateLogin(ctx context.Context, login Login) error
	DeactivateLogin(ctx context.Context, employeeID string) error
	DeleteLogin(ctx context.Context, employeeID string) error
}

// Login is the credential row written alongside a new employee.
type Login struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Name       string
	Email      string
	Password   string
	Role       string
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn routes statements through the enclosing *sql.Tx when one was attached
// via WithTx, so the employee row and its login row commit atomically.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx != nil {
		db := r.db.Session(&gorm.Session{Context: ctx, NewDB: true})
		db.Statement.ConnPool = r.tx
		return db
	}
	return r.db.WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Order("employee_code ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) Search(ctx context.Context, query, status string) ([]Employee, error) {
	db := r.conn(ctx).Model(&Employee{})

	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + q + "%"
		db = db.Where(
			"full_name ILIKE ? OR employee_code ILIKE ? OR email ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var empls []Employee
	err := db.Order("employee_code ASC").Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		First(&empl, "employee_code = ?", code).Error
	return &empl, err
}

func (r *repository) FindActiveOptions(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Select("id", "employee_code", "full_name").
		Where("status = ?", StatusActive).
		Order("full_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).
		Where("id = ?", id).
		Delete(&Employee{}).Error
}

func (r *repository) CreateLogin(ctx context.Context, login Login) error {
	return r.conn(ctx).Exec(`
		INSERT INTO users (id, employee_id, name, email, password, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, TRUE, NOW(), NOW())`,
		login.ID, login.EmployeeID, login.Name, login.Email, login.Password, login.Role,
	).Error
}

func (r *repository) DeactivateLogin(ctx context.Context, employeeID string) error {
	return r.conn(ctx).Exec(`
		UPDATE users SET is_active = FALSE, updated_at = NOW()
		WHERE employee_id = ?`,
		employeeID,
	).Error
}

func (r *repository) DeleteLogin(ctx context.Context, employeeID string) error {
	return r.conn(ctx).Exec(`
		DELETE FROM users WHERE employee_id = ?`,
		employeeID,
	).Error
}
