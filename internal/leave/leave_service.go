package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/events"
	leaveerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/leave/errors"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/messaging/kafka"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/contextutil"
)

const (
	DefaultCasualDays = 12
	DefaultSickDays   = 6

	// Loss of pay has no real entitlement cap. A large sentinel keeps the
	// balance row shape uniform without a special case in the checks.
	LossOfPayAllowance = 999
)

// DefaultBalances builds the three entitlement rows a new employee starts
// the year with.
func DefaultBalances(employeeID uuid.UUID, year int) []LeaveBalance {
	mk := func(leaveType string, total int) LeaveBalance {
		return LeaveBalance{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			LeaveType:  leaveType,
			Year:       year,
			Total:      total,
			Used:       0,
			Remaining:  total,
		}
	}
	return []LeaveBalance{
		mk(TypeCasual, DefaultCasualDays),
		mk(TypeSick, DefaultSickDays),
		mk(TypeLossOfPay, LossOfPayAllowance),
	}
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, employeeID string, req ApplyLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, reviewerID, reviewerName, id string) (LeaveResponse, error)
	Reject(ctx context.Context, reviewerID, reviewerName, id, rejectionReason string) (LeaveResponse, error)
	Cancel(ctx context.Context, employeeID, id string) (LeaveResponse, error)
	GetByID(ctx context.Context, requesterID, role, id string) (LeaveResponse, error)
	GetMine(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetPending(ctx context.Context) ([]LeaveResponse, error)
	GetAll(ctx context.Context, page, pageSize int) ([]LeaveResponse, int64, error)
	GetBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalanceResponse, error)
	Deduct(ctx context.Context, employeeID, leaveType string, days int) error
}

type service struct {
	db          *sql.DB
	repo        Repository
	balanceRepo BalanceRepository
	outbox      kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balanceRepo BalanceRepository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		balanceRepo: balanceRepo,
		outbox:      outboxRepo,
		logger:      l,
	}
}

func (s *service) Apply(ctx context.Context, employeeID string, req ApplyLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("apply leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	if fieldErrs := ValidateApply(req, time.Now().UTC()); len(fieldErrs) > 0 {
		s.logger.Warn("apply leave validation failed",
			zap.String("request_id", rid),
			zap.Int("field_errors", len(fieldErrs)),
		)
		return LeaveResponse{}, leaveerrors.ErrValidationFailed.WithDetails(fieldErrs)
	}
	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	totalDays := TotalDays(startDate, endDate)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	active, err := qtx.EmployeeIsActive(ctx, employeeID)
	if err != nil {
		s.logger.Error("apply leave employee check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !active {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
	}

	overlap, err := qtx.HasOverlappingLeave(ctx, employeeID, startDate, endDate)
	if err != nil {
		s.logger.Error("apply leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("apply leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	if req.LeaveType != TypeLossOfPay {
		balance, err := s.balanceRepo.WithTx(tx).FindByEmployeeTypeYear(ctx, employeeID, req.LeaveType, startDate.Year())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return LeaveResponse{}, leaveerrors.ErrBalanceNotFound
			}
			s.logger.Error("apply leave balance lookup failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if balance.Remaining < totalDays {
			s.logger.Warn("apply leave insufficient balance",
				zap.String("employee_id", employeeID),
				zap.String("leave_type", req.LeaveType),
				zap.Int("remaining", balance.Remaining),
				zap.Int("requested", totalDays),
			)
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}
	}

	now := time.Now().UTC()
	l := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     StatusPending,
		AppliedAt:  now,
	}
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, rid, "leave_applied", l); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("apply leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("total_days", totalDays),
	)

	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, reviewerID, reviewerName, id string) (LeaveResponse, error) {
	return s.review(ctx, reviewerID, reviewerName, id, StatusApproved, "")
}

func (s *service) Reject(ctx context.Context, reviewerID, reviewerName, id, rejectionReason string) (LeaveResponse, error) {
	return s.review(ctx, reviewerID, reviewerName, id, StatusRejected, rejectionReason)
}

func (s *service) review(ctx context.Context, reviewerID, reviewerName, id, targetStatus, rejectionReason string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("review leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("reviewer_id", reviewerID),
		zap.String("target_status", targetStatus),
	)

	reviewerUUID, err := uuid.Parse(reviewerID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("review leave not pending",
			zap.String("leave_id", id),
			zap.String("current_status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrOnlyPendingReviewable
	}

	if targetStatus == StatusApproved {
		overlap, err := qtx.HasApprovedOverlap(ctx, l.EmployeeID.String(), l.ID.String(), l.StartDate, l.EndDate)
		if err != nil {
			s.logger.Error("review leave overlap check failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
		if overlap {
			return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
		}
	}

	now := time.Now().UTC()
	l.Status = targetStatus
	l.ReviewedBy = &reviewerUUID
	l.ReviewedByName = &reviewerName
	l.ReviewedAt = &now
	if targetStatus == StatusRejected && rejectionReason != "" {
		l.RejectionReason = &rejectionReason
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("review leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	eventType := "leave_approved"
	if targetStatus == StatusRejected {
		eventType = "leave_rejected"
	}
	if err := s.enqueueLifecycleEvent(ctx, tx, rid, eventType, l); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("review leave success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)

	return mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, employeeID, id string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("cancel leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("employee_id", employeeID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.EmployeeID.String() != employeeID {
		return LeaveResponse{}, leaveerrors.ErrNotLeaveOwner
	}

	switch l.Status {
	case StatusRejected, StatusCanceled:
		return LeaveResponse{}, leaveerrors.ErrAlreadyFinalized
	case StatusApproved:
		// An approved leave is only cancellable while it is still entirely
		// in the future.
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if !l.StartDate.After(today) {
			return LeaveResponse{}, leaveerrors.ErrLeaveAlreadyStarted
		}
	}

	l.Status = StatusCanceled
	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, rid, "leave_cancelled", l); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("cancel leave success", zap.String("leave_id", id))

	return mapToResponse(*l), nil
}

func (s *service) GetByID(ctx context.Context, requesterID, role, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	// Admins may inspect any request; employees only their own.
	if role != rbac.RoleAdmin && l.EmployeeID.String() != requesterID {
		s.logger.Warn("leave access denied",
			zap.String("leave_id", id),
			zap.String("requester_id", requesterID),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveAccessDenied
	}
	return mapToResponse(*l), nil
}

func (s *service) GetMine(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	leaves, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetPending(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindByStatus(ctx, StatusPending)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetAll(ctx context.Context, page, pageSize int) ([]LeaveResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	leaves, err := s.repo.FindAll(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) GetBalances(ctx context.Context, employeeID string, year int) ([]LeaveBalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	balances, err := s.balanceRepo.FindByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}

	resp := make([]LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		pct := 0.0
		if b.Total > 0 {
			pct = float64(b.Remaining) / float64(b.Total) * 100
		}
		resp[i] = LeaveBalanceResponse{
			EmployeeID:          b.EmployeeID.String(),
			LeaveType:           b.LeaveType,
			Year:                b.Year,
			Total:               b.Total,
			Used:                b.Used,
			Remaining:           b.Remaining,
			PercentageRemaining: pct,
		}
	}
	return resp, nil
}

// Deduct consumes days from the current-year balance of the given type. The
// attendance generator calls this once per covered day.
func (s *service) Deduct(ctx context.Context, employeeID, leaveType string, days int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.balanceRepo.WithTx(tx)
	year := time.Now().UTC().Year()
	balance, err := qtx.FindByEmployeeTypeYear(ctx, employeeID, leaveType, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrBalanceNotFound
		}
		return err
	}

	balance.Used += days
	balance.Remaining -= days
	if err := qtx.Update(ctx, balance); err != nil {
		s.logger.Error("deduct leave balance persist failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", leaveType),
			zap.Error(err),
		)
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Debug("leave balance deducted",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", leaveType),
		zap.Int("days", days),
	)
	return nil
}

func (s *service) enqueueLifecycleEvent(ctx context.Context, tx *sql.Tx, rid, eventType string, l *LeaveRequest) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		Status:     l.Status,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.TotalDays,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("leave outbox persist failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:             l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate.Format("2006-01-02"),
		EndDate:        l.EndDate.Format("2006-01-02"),
		TotalDays:      l.TotalDays,
		Reason:         l.Reason,
		Status:         l.Status,
		AppliedAt:      l.AppliedAt.Format(time.RFC3339),
		ReviewedByName: l.ReviewedByName,
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
		resp.EmployeeCode = l.Employee.EmployeeCode
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
