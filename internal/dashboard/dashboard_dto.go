package dashboard

type AdminDashboardResponse struct {
	TotalEmployees       int64 `json:"total_employees"`
	ActiveEmployees      int64 `json:"active_employees"`
	PendingLeaveRequests int64 `json:"pending_leave_requests"`
	OnLeaveToday         int64 `json:"on_leave_today"`
	PresentToday         int64 `json:"present_today"`
}

type MyDashboardResponse struct {
	PendingRequests  int64   `json:"pending_requests"`
	ApprovedThisYear int64   `json:"approved_this_year"`
	LeaveDaysTaken   int64   `json:"leave_days_taken"`
	AttendanceRate   float64 `json:"attendance_rate"`
	PresentThisMonth int64   `json:"present_this_month"`
	OnLeaveThisMonth int64   `json:"on_leave_this_month"`
}
