package leave

// ApplyLeaveRequest carries no binding tags: the validator reports every
// invalid field at once instead of failing on the first one.
type ApplyLeaveRequest struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	EmployeeCode    string  `json:"employee_code,omitempty"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason,omitempty"`
	Status          string  `json:"status"`
	AppliedAt       string  `json:"applied_at"`
	ReviewedByName  *string `json:"reviewed_by_name,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

type LeaveBalanceResponse struct {
	EmployeeID          string  `json:"employee_id"`
	LeaveType           string  `json:"leave_type"`
	Year                int     `json:"year"`
	Total               int     `json:"total"`
	Used                int     `json:"used"`
	Remaining           int     `json:"remaining"`
	PercentageRemaining float64 `json:"percentage_remaining"`
}
