package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Employee rows are never hard deleted. Deactivation flips Status so history
// (leaves, attendance) stays intact.
type Employee struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeCode  string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_code"`
	FullName      string    `gorm:"type:varchar(255);not null"`
	Email         string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	Phone         string    `gorm:"type:varchar(30)"`
	Designation   string    `gorm:"type:varchar(100)"`
	Department    string    `gorm:"type:varchar(100)"`
	DateOfJoining time.Time `gorm:"type:date;not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Employee) TableName() string {
	return "employees"
}
