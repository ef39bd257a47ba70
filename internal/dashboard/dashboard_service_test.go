package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/dashboard"
)

type fakeDashboardRepository struct {
	adminCountsFn    func(ctx context.Context, today time.Time) (dashboard.AdminCounts, error)
	employeeCountsFn func(ctx context.Context, employeeID string, now time.Time) (dashboard.EmployeeCounts, error)
}

func (f *fakeDashboardRepository) AdminCounts(ctx context.Context, today time.Time) (dashboard.AdminCounts, error) {
	if f.adminCountsFn != nil {
		return f.adminCountsFn(ctx, today)
	}
	return dashboard.AdminCounts{}, nil
}

func (f *fakeDashboardRepository) EmployeeCounts(ctx context.Context, employeeID string, now time.Time) (dashboard.EmployeeCounts, error) {
	if f.employeeCountsFn != nil {
		return f.employeeCountsFn(ctx, employeeID, now)
	}
	return dashboard.EmployeeCounts{}, nil
}

func TestDashboardService_AdminDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("maps counts", func(t *testing.T) {
		repo := &fakeDashboardRepository{
			adminCountsFn: func(ctx context.Context, today time.Time) (dashboard.AdminCounts, error) {
				return dashboard.AdminCounts{
					TotalEmployees:  40,
					ActiveEmployees: 36,
					PendingLeaves:   5,
					OnLeaveToday:    3,
					PresentToday:    30,
				}, nil
			},
		}
		svc := dashboard.NewService(repo, nil)

		resp, err := svc.AdminDashboard(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(40), resp.TotalEmployees)
		assert.Equal(t, int64(36), resp.ActiveEmployees)
		assert.Equal(t, int64(5), resp.PendingLeaveRequests)
		assert.Equal(t, int64(3), resp.OnLeaveToday)
		assert.Equal(t, int64(30), resp.PresentToday)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		cached := dashboard.AdminDashboardResponse{
			TotalEmployees:  12,
			ActiveEmployees: 11,
		}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)

		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("dashboard:admin").SetVal(string(payload))

		repo := &fakeDashboardRepository{
			adminCountsFn: func(ctx context.Context, today time.Time) (dashboard.AdminCounts, error) {
				t.Fatal("repository should not be queried on a cache hit")
				return dashboard.AdminCounts{}, nil
			},
		}
		svc := dashboard.NewService(repo, rdb)

		resp, err := svc.AdminDashboard(ctx)
		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repository failure surfaces", func(t *testing.T) {
		repo := &fakeDashboardRepository{
			adminCountsFn: func(ctx context.Context, today time.Time) (dashboard.AdminCounts, error) {
				return dashboard.AdminCounts{}, errors.New("db down")
			},
		}
		svc := dashboard.NewService(repo, nil)

		_, err := svc.AdminDashboard(ctx)
		assert.Error(t, err)
	})
}

func TestDashboardService_MyDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("computes attendance rate", func(t *testing.T) {
		repo := &fakeDashboardRepository{
			employeeCountsFn: func(ctx context.Context, employeeID string, now time.Time) (dashboard.EmployeeCounts, error) {
				return dashboard.EmployeeCounts{
					PendingRequests:   1,
					ApprovedThisYear:  2,
					LeaveDaysTaken:    4,
					PresentThisMonth:  20,
					OnLeaveThisMonth:  2,
					RecordedThisMonth: 22,
				}, nil
			},
		}
		svc := dashboard.NewService(repo, nil)

		resp, err := svc.MyDashboard(ctx, uuid.NewString())
		assert.NoError(t, err)
		assert.Equal(t, int64(1), resp.PendingRequests)
		assert.Equal(t, int64(2), resp.ApprovedThisYear)
		assert.Equal(t, int64(4), resp.LeaveDaysTaken)
		assert.Equal(t, 90.9, resp.AttendanceRate)
	})

	t.Run("no recorded days yields zero rate", func(t *testing.T) {
		repo := &fakeDashboardRepository{
			employeeCountsFn: func(ctx context.Context, employeeID string, now time.Time) (dashboard.EmployeeCounts, error) {
				return dashboard.EmployeeCounts{}, nil
			},
		}
		svc := dashboard.NewService(repo, nil)

		resp, err := svc.MyDashboard(ctx, uuid.NewString())
		assert.NoError(t, err)
		assert.Equal(t, 0.0, resp.AttendanceRate)
	})

	t.Run("invalid employee id", func(t *testing.T) {
		svc := dashboard.NewService(&fakeDashboardRepository{}, nil)

		_, err := svc.MyDashboard(ctx, "not-a-uuid")
		assert.Error(t, err)
	})
}
