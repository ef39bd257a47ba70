package attendance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/attendance"
)

func records(present, leave int) []attendance.AttendanceRecord {
	var recs []attendance.AttendanceRecord
	add := func(status string, n int) {
		for i := 0; i < n; i++ {
			recs = append(recs, attendance.AttendanceRecord{Status: status})
		}
	}
	add(attendance.StatusPresent, present)
	add(attendance.StatusLeave, leave)
	return recs
}

func TestSummarize(t *testing.T) {
	s := attendance.Summarize(records(20, 2))
	assert.Equal(t, 22, s.WorkingDays)
	assert.Equal(t, 20, s.PresentDays)
	assert.Equal(t, 2, s.LeaveDays)
}

func TestRate(t *testing.T) {
	tests := []struct {
		name    string
		present int
		leave   int
		want    float64
	}{
		{"rounds to one decimal", 20, 2, 90.9},
		{"full attendance", 22, 0, 100},
		{"no records", 0, 0, 0},
		{"all on leave", 0, 5, 0},
		{"two thirds", 2, 1, 66.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := attendance.Summarize(records(tt.present, tt.leave))
			assert.Equal(t, tt.want, attendance.Rate(s))
		})
	}
}
