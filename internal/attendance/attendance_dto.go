package attendance

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	EmployeeCode   string  `json:"employee_code,omitempty"`
	AttendanceDate string  `json:"attendance_date"`
	Status         string  `json:"status"`
	LeaveRequestID *string `json:"leave_request_id,omitempty"`
}

type MonthlySummaryResponse struct {
	EmployeeID     string  `json:"employee_id"`
	Month          string  `json:"month"`
	WorkingDays    int     `json:"working_days"`
	PresentDays    int     `json:"present_days"`
	LeaveDays      int     `json:"leave_days"`
	AttendanceRate float64 `json:"attendance_rate"`
}

type GenerateResult struct {
	Date            string `json:"date"`
	Created         int    `json:"created"`
	SkippedExisting int    `json:"skipped_existing"`
	LeaveMarked     int    `json:"leave_marked"`
}

type CalendarDay struct {
	Date    string `json:"date"`
	InMonth bool   `json:"in_month"`
	Today   bool   `json:"today"`
	Status  string `json:"status,omitempty"`
}

type CalendarResponse struct {
	EmployeeID string          `json:"employee_id"`
	Month      string          `json:"month"`
	Weeks      [][]CalendarDay `json:"weeks"`
}
