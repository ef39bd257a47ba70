package leave_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
)

func TestTotalDays(t *testing.T) {
	day := func(v string) time.Time {
		d, err := time.Parse("2006-01-02", v)
		assert.NoError(t, err)
		return d
	}

	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"single day", "2026-03-02", "2026-03-02", 1},
		{"inclusive range", "2026-03-02", "2026-03-04", 3},
		{"across month boundary", "2026-02-27", "2026-03-02", 4},
		{"inverted range clamps to zero", "2026-03-04", "2026-03-02", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leave.TotalDays(day(tt.start), day(tt.end)))
		})
	}
}

func TestMinStartDate(t *testing.T) {
	today := time.Date(2026, 3, 1, 17, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), leave.MinStartDate(today))
}

func TestValidateApply(t *testing.T) {
	today := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	fields := func(errs []leave.FieldError) []string {
		out := make([]string, len(errs))
		for i, e := range errs {
			out[i] = e.Field
		}
		return out
	}

	t.Run("valid request", func(t *testing.T) {
		errs := leave.ValidateApply(leave.ApplyLeaveRequest{
			LeaveType: "CL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-04",
			Reason:    "family function",
		}, today)
		assert.Empty(t, errs)
	})

	t.Run("same day start rejected", func(t *testing.T) {
		errs := leave.ValidateApply(leave.ApplyLeaveRequest{
			LeaveType: "SL",
			StartDate: "2026-03-01",
			EndDate:   "2026-03-01",
		}, today)
		assert.Equal(t, []string{"start_date"}, fields(errs))
	})

	t.Run("all failures reported together", func(t *testing.T) {
		errs := leave.ValidateApply(leave.ApplyLeaveRequest{
			LeaveType: "VACATION",
			StartDate: "02-03-2026",
			EndDate:   "",
		}, today)
		assert.ElementsMatch(t, []string{"leave_type", "start_date", "end_date"}, fields(errs))
	})

	t.Run("end before start", func(t *testing.T) {
		errs := leave.ValidateApply(leave.ApplyLeaveRequest{
			LeaveType: "CL",
			StartDate: "2026-03-10",
			EndDate:   "2026-03-08",
		}, today)
		assert.Equal(t, []string{"end_date"}, fields(errs))
	})

	t.Run("missing everything", func(t *testing.T) {
		errs := leave.ValidateApply(leave.ApplyLeaveRequest{}, today)
		assert.Len(t, errs, 3)
	})

	t.Run("bad date format does not panic range checks", func(t *testing.T) {
		errs := leave.ValidateApply(leave.ApplyLeaveRequest{
			LeaveType: "LOP",
			StartDate: "2026-03-02",
			EndDate:   "not-a-date",
		}, today)
		assert.Equal(t, []string{"end_date"}, fields(errs))
	})
}

func TestDefaultBalances(t *testing.T) {
	employeeID := uuid.New()
	balances := leave.DefaultBalances(employeeID, 2026)
	assert.Len(t, balances, 3)

	byType := map[string]leave.LeaveBalance{}
	for _, b := range balances {
		byType[b.LeaveType] = b
		assert.Equal(t, employeeID, b.EmployeeID)
		assert.Equal(t, 2026, b.Year)
		assert.Equal(t, 0, b.Used)
		assert.Equal(t, b.Total, b.Remaining)
	}
	assert.Equal(t, 12, byType["CL"].Total)
	assert.Equal(t, 6, byType["SL"].Total)
	assert.Equal(t, 999, byType["LOP"].Total)
}
