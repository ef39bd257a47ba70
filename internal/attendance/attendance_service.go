package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	attendanceerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/attendance/errors"
)

// BalanceDeductor consumes leave balance for days the generator marks as
// LEAVE. Satisfied by the leave service.
type BalanceDeductor interface {
	Deduct(ctx context.Context, employeeID, leaveType string, days int) error
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, date time.Time) (GenerateResult, error)
	GetMine(ctx context.Context, employeeID string, year int, month time.Month) ([]AttendanceResponse, error)
	GetMonthlySummary(ctx context.Context, employeeID string, year int, month time.Month) (MonthlySummaryResponse, error)
	GetByDate(ctx context.Context, date time.Time) ([]AttendanceResponse, error)
	GetCalendar(ctx context.Context, employeeID string, year int, month time.Month) (CalendarResponse, error)
	ExportMonthlyReport(ctx context.Context, year int, month time.Month) ([]byte, string, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	deductor BalanceDeductor
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deductor BalanceDeductor, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, deductor: deductor, logger: l}
}

// Generate writes one record per active employee for the given date. Existing
// records are left untouched, so re-running a day is safe. Employees covered
// by an approved leave get a LEAVE record and one day deducted from the
// matching balance; everyone else is marked PRESENT.
func (s *service) Generate(ctx context.Context, date time.Time) (GenerateResult, error) {
	day := truncateToDate(date)
	today := truncateToDate(time.Now().UTC())
	if day.After(today) {
		return GenerateResult{}, attendanceerrors.ErrFutureDate
	}

	s.logger.Info("attendance generation started", zap.String("date", day.Format("2006-01-02")))

	employees, err := s.repo.FindActiveEmployees(ctx)
	if err != nil {
		s.logger.Error("attendance generation list employees failed", zap.Error(err))
		return GenerateResult{}, err
	}

	result := GenerateResult{Date: day.Format("2006-01-02")}
	for _, empl := range employees {
		employeeID := empl.ID.String()

		exists, err := s.repo.ExistsForDate(ctx, employeeID, day)
		if err != nil {
			s.logger.Error("attendance generation existence check failed",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			continue
		}
		if exists {
			result.SkippedExisting++
			continue
		}

		rec := &AttendanceRecord{
			ID:             uuid.New(),
			EmployeeID:     empl.ID,
			AttendanceDate: day,
			Status:         StatusPresent,
		}

		leaveRef, err := s.repo.FindApprovedLeaveOn(ctx, employeeID, day)
		switch {
		case err == nil:
			rec.Status = StatusLeave
			rec.LeaveRequestID = &leaveRef.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no approved leave, stays PRESENT
		default:
			s.logger.Error("attendance generation leave lookup failed",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			continue
		}

		if err := s.repo.Create(ctx, rec); err != nil {
			s.logger.Error("attendance generation persist failed",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			continue
		}
		result.Created++

		if rec.Status == StatusLeave {
			result.LeaveMarked++
			if s.deductor != nil {
				if err := s.deductor.Deduct(ctx, employeeID, leaveRef.LeaveType, 1); err != nil {
					s.logger.Error("attendance generation balance deduction failed",
						zap.String("employee_id", employeeID),
						zap.String("leave_type", leaveRef.LeaveType),
						zap.Error(err),
					)
				}
			}
		}
	}

	s.logger.Info("attendance generation finished",
		zap.String("date", result.Date),
		zap.Int("created", result.Created),
		zap.Int("skipped_existing", result.SkippedExisting),
		zap.Int("leave_marked", result.LeaveMarked),
	)
	return result, nil
}

func (s *service) GetMine(ctx context.Context, employeeID string, year int, month time.Month) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidEmployeeID
	}
	from, to := monthRange(year, month)
	recs, err := s.repo.FindByEmployeeAndRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(recs), nil
}

func (s *service) GetMonthlySummary(ctx context.Context, employeeID string, year int, month time.Month) (MonthlySummaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return MonthlySummaryResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	from, to := monthRange(year, month)
	recs, err := s.repo.FindByEmployeeAndRange(ctx, employeeID, from, to)
	if err != nil {
		return MonthlySummaryResponse{}, err
	}

	summary := Summarize(recs)
	return MonthlySummaryResponse{
		EmployeeID:     employeeID,
		Month:          fmt.Sprintf("%04d-%02d", year, month),
		WorkingDays:    summary.WorkingDays,
		PresentDays:    summary.PresentDays,
		LeaveDays:      summary.LeaveDays,
		AttendanceRate: Rate(summary),
	}, nil
}

func (s *service) GetByDate(ctx context.Context, date time.Time) ([]AttendanceResponse, error) {
	day := truncateToDate(date)
	recs, err := s.repo.FindByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	employees, err := s.repo.FindActiveEmployees(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]ActiveEmployee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	resp := mapToListResponse(recs)
	for i, r := range recs {
		if e, ok := byID[r.EmployeeID]; ok {
			resp[i].EmployeeName = e.FullName
			resp[i].EmployeeCode = e.EmployeeCode
		}
	}
	return resp, nil
}

func (s *service) GetCalendar(ctx context.Context, employeeID string, year int, month time.Month) (CalendarResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return CalendarResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	from, to := monthRange(year, month)
	recs, err := s.repo.FindByEmployeeAndRange(ctx, employeeID, from, to)
	if err != nil {
		return CalendarResponse{}, err
	}

	return CalendarResponse{
		EmployeeID: employeeID,
		Month:      fmt.Sprintf("%04d-%02d", year, month),
		Weeks:      BuildMonthGrid(year, month, time.Now().UTC(), recs),
	}, nil
}

var reportHeader = []string{"Employee Code", "Name", "Working Days", "Present", "Leave", "Attendance Rate (%)"}

func (s *service) ExportMonthlyReport(ctx context.Context, year int, month time.Month) ([]byte, string, error) {
	employees, err := s.repo.FindActiveEmployees(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, "", err
		}
	}

	from, to := monthRange(year, month)
	for row, empl := range employees {
		recs, err := s.repo.FindByEmployeeAndRange(ctx, empl.ID.String(), from, to)
		if err != nil {
			return nil, "", err
		}
		summary := Summarize(recs)

		values := []any{
			empl.EmployeeCode,
			empl.FullName,
			summary.WorkingDays,
			summary.PresentDays,
			summary.LeaveDays,
			Rate(summary),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("attendance-%04d-%02d.xlsx", year, month)
	s.logger.Info("attendance report generated",
		zap.String("filename", filename),
		zap.Int("employees", len(employees)),
	)
	return buf.Bytes(), filename, nil
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, -1)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mapToResponse(a AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		Status:         a.Status,
	}
	if a.LeaveRequestID != nil {
		v := a.LeaveRequestID.String()
		resp.LeaveRequestID = &v
	}
	return resp
}

func mapToListResponse(recs []AttendanceRecord) []AttendanceResponse {
	resp := make([]AttendanceResponse, len(recs))
	for i, r := range recs {
		resp[i] = mapToResponse(r)
	}
	return resp
}
