package leave

import (
	"time"

	"github.com/google/uuid"
)

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`

	LeaveType string    `gorm:"type:varchar(10);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	AppliedAt       time.Time  `gorm:"not null"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ReviewedByName  *string    `gorm:"type:varchar(255)"`
	ReviewedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveBalance is one employee/type/year entitlement row. Remaining is kept
// denormalized so balance checks are a single read.
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_employee_type_year"`
	LeaveType  string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_leave_balance_employee_type_year"`
	Year       int       `gorm:"type:int;not null;uniqueIndex:uq_leave_balance_employee_type_year"`
	Total      int       `gorm:"type:int;not null"`
	Used       int       `gorm:"type:int;not null;default:0"`
	Remaining  int       `gorm:"type:int;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

type EmployeeRef struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName     string    `gorm:"column:full_name"`
	EmployeeCode string    `gorm:"column:employee_code"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
