package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
	leaveerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/leave/errors"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"
)

type fakeLeaveRepository struct {
	withTxFn              func(tx *sql.Tx) leave.Repository
	createFn              func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDFn            func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findByEmployeeFn      func(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error)
	findByStatusFn        func(ctx context.Context, status string) ([]leave.LeaveRequest, error)
	findAllFn             func(ctx context.Context, limit, offset int) ([]leave.LeaveRequest, error)
	countAllFn            func(ctx context.Context) (int64, error)
	updateFn              func(ctx context.Context, l *leave.LeaveRequest) error
	employeeIsActiveFn    func(ctx context.Context, employeeID string) (bool, error)
	hasOverlappingLeaveFn func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	hasApprovedOverlapFn  func(ctx context.Context, employeeID, excludeID string, startDate, endDate time.Time) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByStatus(ctx context.Context, status string) ([]leave.LeaveRequest, error) {
	if f.findByStatusFn != nil {
		return f.findByStatusFn(ctx, status)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, limit, offset int) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, limit, offset)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) CountAll(ctx context.Context) (int64, error) {
	if f.countAllFn != nil {
		return f.countAllFn(ctx)
	}
	return 0, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) EmployeeIsActive(ctx context.Context, employeeID string) (bool, error) {
	if f.employeeIsActiveFn != nil {
		return f.employeeIsActiveFn(ctx, employeeID)
	}
	return true, nil
}

func (f *fakeLeaveRepository) HasOverlappingLeave(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	if f.hasOverlappingLeaveFn != nil {
		return f.hasOverlappingLeaveFn(ctx, employeeID, startDate, endDate)
	}
	return false, nil
}

func (f *fakeLeaveRepository) HasApprovedOverlap(ctx context.Context, employeeID, excludeID string, startDate, endDate time.Time) (bool, error) {
	if f.hasApprovedOverlapFn != nil {
		return f.hasApprovedOverlapFn(ctx, employeeID, excludeID, startDate, endDate)
	}
	return false, nil
}

type fakeBalanceRepository struct {
	withTxFn                 func(tx *sql.Tx) leave.BalanceRepository
	createAllFn              func(ctx context.Context, balances []leave.LeaveBalance) error
	findByEmployeeAndYearFn  func(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error)
	findByEmployeeTypeYearFn func(ctx context.Context, employeeID, leaveType string, year int) (*leave.LeaveBalance, error)
	updateFn                 func(ctx context.Context, b *leave.LeaveBalance) error
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) leave.BalanceRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeBalanceRepository) CreateAll(ctx context.Context, balances []leave.LeaveBalance) error {
	if f.createAllFn != nil {
		return f.createAllFn(ctx, balances)
	}
	return nil
}

func (f *fakeBalanceRepository) FindByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	if f.findByEmployeeAndYearFn != nil {
		return f.findByEmployeeAndYearFn(ctx, employeeID, year)
	}
	return nil, nil
}

func (f *fakeBalanceRepository) FindByEmployeeTypeYear(ctx context.Context, employeeID, leaveType string, year int) (*leave.LeaveBalance, error) {
	if f.findByEmployeeTypeYearFn != nil {
		return f.findByEmployeeTypeYearFn(ctx, employeeID, leaveType, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) Update(ctx context.Context, b *leave.LeaveBalance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, b)
	}
	return nil
}

type leaveServiceDeps struct {
	db          *sql.DB
	sqlMock     sqlmock.Sqlmock
	service     leave.Service
	repo        *fakeLeaveRepository
	balanceRepo *fakeBalanceRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	balanceRepo := &fakeBalanceRepository{}
	svc := leave.NewService(db, repo, balanceRepo, nil)

	return &leaveServiceDeps{
		db:          db,
		sqlMock:     sqlMock,
		service:     svc,
		repo:        repo,
		balanceRepo: balanceRepo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestLeaveService_Apply(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.ApplyLeaveRequest{
			LeaveType: "CL",
			StartDate: futureDate(5),
			EndDate:   futureDate(7),
			Reason:    "temple festival",
		}

		deps.balanceRepo.findByEmployeeTypeYearFn = func(ctx context.Context, eid, leaveType string, year int) (*leave.LeaveBalance, error) {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, "CL", leaveType)
			return &leave.LeaveBalance{Total: 12, Used: 2, Remaining: 10}, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, uuid.MustParse(employeeID), l.EmployeeID)
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Equal(t, 3, l.TotalDays)
			assert.False(t, l.AppliedAt.IsZero())
			return nil
		}

		resp, err := deps.service.Apply(ctx, employeeID, req)
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 3, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("validation failures carry field details", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Apply(ctx, employeeID, leave.ApplyLeaveRequest{
			LeaveType: "HOLIDAY",
			StartDate: "yesterday",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrValidationFailed)
	})

	t.Run("inactive employee rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.employeeIsActiveFn = func(ctx context.Context, eid string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Apply(ctx, employeeID, leave.ApplyLeaveRequest{
			LeaveType: "CL",
			StartDate: futureDate(5),
			EndDate:   futureDate(5),
		})
		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotFound)
	})

	t.Run("overlap rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.hasOverlappingLeaveFn = func(ctx context.Context, eid string, startDate, endDate time.Time) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Apply(ctx, employeeID, leave.ApplyLeaveRequest{
			LeaveType: "SL",
			StartDate: futureDate(5),
			EndDate:   futureDate(6),
		})
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	})

	t.Run("insufficient balance rejected", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.balanceRepo.findByEmployeeTypeYearFn = func(ctx context.Context, eid, leaveType string, year int) (*leave.LeaveBalance, error) {
			return &leave.LeaveBalance{Total: 12, Used: 11, Remaining: 1}, nil
		}

		_, err := deps.service.Apply(ctx, employeeID, leave.ApplyLeaveRequest{
			LeaveType: "CL",
			StartDate: futureDate(5),
			EndDate:   futureDate(7),
		})
		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
	})

	t.Run("loss of pay skips balance check", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.balanceRepo.findByEmployeeTypeYearFn = func(ctx context.Context, eid, leaveType string, year int) (*leave.LeaveBalance, error) {
			t.Fatal("balance must not be checked for LOP")
			return nil, nil
		}

		resp, err := deps.service.Apply(ctx, employeeID, leave.ApplyLeaveRequest{
			LeaveType: "LOP",
			StartDate: futureDate(5),
			EndDate:   futureDate(14),
		})
		assert.NoError(t, err)
		assert.Equal(t, 10, resp.TotalDays)
	})

	t.Run("invalid employee id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Apply(ctx, "not-a-uuid", leave.ApplyLeaveRequest{})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidEmployeeID)
	})
}

func pendingLeave(employeeID uuid.UUID, startInDays int) *leave.LeaveRequest {
	start := time.Now().UTC().AddDate(0, 0, startInDays).Truncate(24 * time.Hour)
	return &leave.LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveType:  "CL",
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 1),
		TotalDays:  2,
		Status:     leave.StatusPending,
		AppliedAt:  time.Now().UTC(),
	}
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()
	reviewerID := uuid.New().String()

	t.Run("success stamps review fields", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		l := pendingLeave(uuid.New(), 5)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.repo.updateFn = func(ctx context.Context, got *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusApproved, got.Status)
			assert.NotNil(t, got.ReviewedBy)
			assert.NotNil(t, got.ReviewedAt)
			assert.Equal(t, "Meera Pillai", *got.ReviewedByName)
			return nil
		}

		resp, err := deps.service.Approve(ctx, reviewerID, "Meera Pillai", l.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
	})

	t.Run("conflicting approved leave blocks approval", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		l := pendingLeave(uuid.New(), 5)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.repo.hasApprovedOverlapFn = func(ctx context.Context, employeeID, excludeID string, startDate, endDate time.Time) (bool, error) {
			assert.Equal(t, l.ID.String(), excludeID)
			return true, nil
		}

		_, err := deps.service.Approve(ctx, reviewerID, "Meera Pillai", l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
	})

	t.Run("non pending not reviewable", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		l := pendingLeave(uuid.New(), 5)
		l.Status = leave.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		_, err := deps.service.Approve(ctx, reviewerID, "Meera Pillai", l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrOnlyPendingReviewable)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Approve(ctx, reviewerID, "Meera Pillai", uuid.New().String())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()
	reviewerID := uuid.New().String()

	t.Run("reason stored when provided", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		l := pendingLeave(uuid.New(), 5)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.repo.updateFn = func(ctx context.Context, got *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusRejected, got.Status)
			assert.NotNil(t, got.RejectionReason)
			assert.Equal(t, "short staffed that week", *got.RejectionReason)
			return nil
		}

		resp, err := deps.service.Reject(ctx, reviewerID, "Meera Pillai", l.ID.String(), "short staffed that week")
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
	})

	t.Run("reason optional", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		l := pendingLeave(uuid.New(), 5)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.repo.updateFn = func(ctx context.Context, got *leave.LeaveRequest) error {
			assert.Nil(t, got.RejectionReason)
			return nil
		}

		resp, err := deps.service.Reject(ctx, reviewerID, "Meera Pillai", l.ID.String(), "")
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("pending cancellable by owner", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		l := pendingLeave(employeeID, 5)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		resp, err := deps.service.Cancel(ctx, employeeID.String(), l.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCanceled, resp.Status)
	})

	t.Run("non owner forbidden", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		l := pendingLeave(employeeID, 5)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		_, err := deps.service.Cancel(ctx, uuid.New().String(), l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrNotLeaveOwner)
	})

	t.Run("approved future leave cancellable", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		l := pendingLeave(employeeID, 5)
		l.Status = leave.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		resp, err := deps.service.Cancel(ctx, employeeID.String(), l.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCanceled, resp.Status)
	})

	t.Run("approved leave already started not cancellable", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		l := pendingLeave(employeeID, -1)
		l.Status = leave.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		_, err := deps.service.Cancel(ctx, employeeID.String(), l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveAlreadyStarted)
	})

	t.Run("rejected leave is terminal", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		l := pendingLeave(employeeID, 5)
		l.Status = leave.StatusRejected
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		_, err := deps.service.Cancel(ctx, employeeID.String(), l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyFinalized)
	})

	t.Run("cancelled leave is terminal", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		l := pendingLeave(employeeID, 5)
		l.Status = leave.StatusCanceled
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		_, err := deps.service.Cancel(ctx, employeeID.String(), l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyFinalized)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("owner reads own leave", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(ownerID, 5)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		resp, err := deps.service.GetByID(ctx, ownerID.String(), rbac.RoleEmployee, l.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, l.ID.String(), resp.ID)
	})

	t.Run("admin reads any leave", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(ownerID, 5)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		resp, err := deps.service.GetByID(ctx, uuid.New().String(), rbac.RoleAdmin, l.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, l.ID.String(), resp.ID)
	})

	t.Run("other employee forbidden", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(ownerID, 5)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		_, err := deps.service.GetByID(ctx, uuid.New().String(), rbac.RoleEmployee, l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByID(ctx, ownerID.String(), rbac.RoleEmployee, uuid.New().String())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	deps.repo.countAllFn = func(ctx context.Context) (int64, error) {
		return 37, nil
	}
	deps.repo.findAllFn = func(ctx context.Context, limit, offset int) ([]leave.LeaveRequest, error) {
		assert.Equal(t, 10, limit)
		assert.Equal(t, 20, offset)
		return []leave.LeaveRequest{*pendingLeave(uuid.New(), 5)}, nil
	}

	resp, total, err := deps.service.GetAll(ctx, 3, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(37), total)
	assert.Len(t, resp, 1)
}

func TestLeaveService_Deduct(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.balanceRepo.findByEmployeeTypeYearFn = func(ctx context.Context, eid, leaveType string, year int) (*leave.LeaveBalance, error) {
			assert.Equal(t, "SL", leaveType)
			return &leave.LeaveBalance{Total: 6, Used: 1, Remaining: 5}, nil
		}
		deps.balanceRepo.updateFn = func(ctx context.Context, b *leave.LeaveBalance) error {
			assert.Equal(t, 2, b.Used)
			assert.Equal(t, 4, b.Remaining)
			return nil
		}

		err := deps.service.Deduct(ctx, employeeID, "SL", 1)
		assert.NoError(t, err)
	})

	t.Run("missing balance row", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.balanceRepo.findByEmployeeTypeYearFn = func(ctx context.Context, eid, leaveType string, year int) (*leave.LeaveBalance, error) {
			return nil, gorm.ErrRecordNotFound
		}

		err := deps.service.Deduct(ctx, employeeID, "CL", 1)
		assert.ErrorIs(t, err, leaveerrors.ErrBalanceNotFound)
	})

	t.Run("update failure surfaces", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		dbErr := errors.New("connection reset")
		deps.balanceRepo.findByEmployeeTypeYearFn = func(ctx context.Context, eid, leaveType string, year int) (*leave.LeaveBalance, error) {
			return &leave.LeaveBalance{Total: 6, Used: 0, Remaining: 6}, nil
		}
		deps.balanceRepo.updateFn = func(ctx context.Context, b *leave.LeaveBalance) error {
			return dbErr
		}

		err := deps.service.Deduct(ctx, employeeID, "CL", 1)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestLeaveService_GetBalances(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	deps.balanceRepo.findByEmployeeAndYearFn = func(ctx context.Context, eid string, year int) ([]leave.LeaveBalance, error) {
		assert.Equal(t, 2026, year)
		return []leave.LeaveBalance{
			{EmployeeID: employeeID, LeaveType: "CL", Year: 2026, Total: 12, Used: 3, Remaining: 9},
			{EmployeeID: employeeID, LeaveType: "SL", Year: 2026, Total: 6, Used: 6, Remaining: 0},
		}, nil
	}

	resp, err := deps.service.GetBalances(ctx, employeeID.String(), 2026)
	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, 75.0, resp[0].PercentageRemaining)
	assert.Equal(t, 0.0, resp[1].PercentageRemaining)
}
