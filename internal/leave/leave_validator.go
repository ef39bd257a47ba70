package leave

import (
	"time"
)

const (
	TypeCasual    = "CL"
	TypeSick      = "SL"
	TypeLossOfPay = "LOP"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELLED"
)

const dateLayout = "2006-01-02"

// FieldError is one field-level validation failure. A request produces one
// entry per invalid field, never just the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func IsValidType(t string) bool {
	switch t {
	case TypeCasual, TypeSick, TypeLossOfPay:
		return true
	default:
		return false
	}
}

// MinStartDate is the earliest acceptable start date: leave must be applied
// for at least one day in advance, never retroactively or same-day.
func MinStartDate(today time.Time) time.Time {
	return truncateToDate(today).AddDate(0, 0, 1)
}

// TotalDays returns the inclusive day count of a leave range. Inverted
// ranges yield 0, never a negative count.
func TotalDays(start, end time.Time) int {
	days := int(truncateToDate(end).Sub(truncateToDate(start)).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

// ValidateApply checks every field of an apply request independently against
// the given current date and returns the full set of failures.
func ValidateApply(req ApplyLeaveRequest, today time.Time) []FieldError {
	var errs []FieldError

	if req.LeaveType == "" {
		errs = append(errs, FieldError{Field: "leave_type", Message: "leave type is required"})
	} else if !IsValidType(req.LeaveType) {
		errs = append(errs, FieldError{Field: "leave_type", Message: "leave type must be one of CL, SL, LOP"})
	}

	var start, end time.Time
	var startOK, endOK bool

	if req.StartDate == "" {
		errs = append(errs, FieldError{Field: "start_date", Message: "start date is required"})
	} else if t, err := time.Parse(dateLayout, req.StartDate); err != nil {
		errs = append(errs, FieldError{Field: "start_date", Message: "start date must be formatted YYYY-MM-DD"})
	} else {
		start, startOK = t, true
	}

	if req.EndDate == "" {
		errs = append(errs, FieldError{Field: "end_date", Message: "end date is required"})
	} else if t, err := time.Parse(dateLayout, req.EndDate); err != nil {
		errs = append(errs, FieldError{Field: "end_date", Message: "end date must be formatted YYYY-MM-DD"})
	} else {
		end, endOK = t, true
	}

	if startOK && start.Before(MinStartDate(today)) {
		errs = append(errs, FieldError{Field: "start_date", Message: "start date must be at least one day in advance"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, FieldError{Field: "end_date", Message: "end date cannot be before start date"})
	}

	return errs
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
