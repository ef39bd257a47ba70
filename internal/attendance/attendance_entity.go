package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusLeave   = "LEAVE"
)

// AttendanceRecord is one employee-day. The unique index makes the daily
// generator idempotent even under concurrent runs.
type AttendanceRecord struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	AttendanceDate time.Time  `gorm:"type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	Status         string     `gorm:"type:varchar(10);not null"`
	LeaveRequestID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
