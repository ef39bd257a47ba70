package attendance

import "math"

type Summary struct {
	WorkingDays int
	PresentDays int
	LeaveDays   int
}

// Summarize tallies records by status. WorkingDays is the number of recorded
// days, not the calendar length of the month.
func Summarize(records []AttendanceRecord) Summary {
	var s Summary
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			s.PresentDays++
		case StatusLeave:
			s.LeaveDays++
		}
	}
	s.WorkingDays = s.PresentDays + s.LeaveDays
	return s
}

// Rate is the present percentage over all recorded days, rounded to one
// decimal. Zero recorded days yields 0 rather than NaN.
func Rate(s Summary) float64 {
	if s.WorkingDays == 0 {
		return 0
	}
	rate := float64(s.PresentDays) / float64(s.WorkingDays) * 100
	return math.Round(rate*10) / 10
}
