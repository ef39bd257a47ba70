package dashboard

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/apperror"
)

const (
	adminDashboardKey    = "dashboard:admin"
	myDashboardKeyPrefix = "dashboard:my:"

	// Counts are aggregates; a minute of staleness is acceptable and keeps
	// repeated dashboard polling off the database.
	dashboardCacheTTL = time.Minute
)

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	AdminDashboard(ctx context.Context) (AdminDashboardResponse, error)
	MyDashboard(ctx context.Context, employeeID string) (MyDashboardResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) AdminDashboard(ctx context.Context) (AdminDashboardResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, adminDashboardKey).Result(); err == nil {
			var resp AdminDashboardResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(adminDashboardKey, func() (interface{}, error) {
		counts, err := s.repo.AdminCounts(ctx, time.Now().UTC())
		if err != nil {
			s.logger.Error("admin dashboard counts failed", zap.Error(err))
			return nil, err
		}

		resp := AdminDashboardResponse{
			TotalEmployees:       counts.TotalEmployees,
			ActiveEmployees:      counts.ActiveEmployees,
			PendingLeaveRequests: counts.PendingLeaves,
			OnLeaveToday:         counts.OnLeaveToday,
			PresentToday:         counts.PresentToday,
		}
		s.cache(ctx, adminDashboardKey, resp)
		return resp, nil
	})
	if err != nil {
		return AdminDashboardResponse{}, err
	}

	return v.(AdminDashboardResponse), nil
}

func (s *service) MyDashboard(ctx context.Context, employeeID string) (MyDashboardResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return MyDashboardResponse{}, apperror.ErrInvalidInput
	}

	cacheKey := myDashboardKeyPrefix + employeeID
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp MyDashboardResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		counts, err := s.repo.EmployeeCounts(ctx, employeeID, time.Now().UTC())
		if err != nil {
			s.logger.Error("my dashboard counts failed",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
			return nil, err
		}

		rate := 0.0
		if counts.RecordedThisMonth > 0 {
			rate = float64(counts.PresentThisMonth) / float64(counts.RecordedThisMonth) * 100
			rate = math.Round(rate*10) / 10
		}

		resp := MyDashboardResponse{
			PendingRequests:  counts.PendingRequests,
			ApprovedThisYear: counts.ApprovedThisYear,
			LeaveDaysTaken:   counts.LeaveDaysTaken,
			AttendanceRate:   rate,
			PresentThisMonth: counts.PresentThisMonth,
			OnLeaveThisMonth: counts.OnLeaveThisMonth,
		}
		s.cache(ctx, cacheKey, resp)
		return resp, nil
	})
	if err != nil {
		return MyDashboardResponse{}, err
	}

	return v.(MyDashboardResponse), nil
}

func (s *service) cache(ctx context.Context, key string, v any) {
	if s.rdb == nil {
		return
	}
	if jsonData, err := json.Marshal(v); err == nil {
		s.rdb.Set(ctx, key, jsonData, dashboardCacheTTL)
	}
}
