package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

// LeaveLifecycleEvent is emitted on apply, approve, reject and cancel so
// downstream consumers (payroll, notifications) can react to leave changes.
type LeaveLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	Status     string    `json:"status"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	TotalDays  int       `json:"total_days"`
	OccurredAt time.Time `json:"occurred_at"`
}
