package attendance

import "time"

// BuildMonthGrid lays the month out as full Sunday-to-Saturday weeks. Cells
// before the 1st and after the last day belong to adjacent months and carry
// no status.
func BuildMonthGrid(year int, month time.Month, today time.Time, records []AttendanceRecord) [][]CalendarDay {
	statusByDate := make(map[string]string, len(records))
	for _, r := range records {
		statusByDate[r.AttendanceDate.Format("2006-01-02")] = r.Status
	}
	todayKey := today.UTC().Format("2006-01-02")

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var weeks [][]CalendarDay
	for day := start; !day.After(end); day = day.AddDate(0, 0, 7) {
		week := make([]CalendarDay, 7)
		for i := 0; i < 7; i++ {
			d := day.AddDate(0, 0, i)
			key := d.Format("2006-01-02")
			cell := CalendarDay{
				Date:    key,
				InMonth: d.Month() == month,
				Today:   key == todayKey,
			}
			if cell.InMonth {
				cell.Status = statusByDate[key]
			}
			week[i] = cell
		}
		weeks = append(weeks, week)
	}
	return weeks
}
