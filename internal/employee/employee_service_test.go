package employee_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/employee"
	employeeerrors "github.com/erfanhabeeb666/keralaspiceerp/internal/employee/errors"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/counter"
)

type fakeEmployeeRepository struct {
	withTxFn            func(tx *sql.Tx) employee.Repository
	createFn            func(ctx context.Context, empl *employee.Employee) error
	findAllFn           func(ctx context.Context) ([]employee.Employee, error)
	searchFn            func(ctx context.Context, query, status string) ([]employee.Employee, error)
	findByIDFn          func(ctx context.Context, id string) (*employee.Employee, error)
	findByCodeFn        func(ctx context.Context, code string) (*employee.Employee, error)
	findActiveOptionsFn func(ctx context.Context) ([]employee.Employee, error)
	updateFn            func(ctx context.Context, empl *employee.Employee) error
	deleteFn            func(ctx context.Context, id string) error
	createLoginFn       func(ctx context.Context, login employee.Login) error
	deactivateLoginFn   func(ctx context.Context, employeeID string) error
	deleteLoginFn       func(ctx context.Context, employeeID string) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) Search(ctx context.Context, query, status string) ([]employee.Employee, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, query, status)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByCode(ctx context.Context, code string) (*employee.Employee, error) {
	if f.findByCodeFn != nil {
		return f.findByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindActiveOptions(ctx context.Context) ([]employee.Employee, error) {
	if f.findActiveOptionsFn != nil {
		return f.findActiveOptionsFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, empl *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) CreateLogin(ctx context.Context, login employee.Login) error {
	if f.createLoginFn != nil {
		return f.createLoginFn(ctx, login)
	}
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeEmployeeRepository) DeactivateLogin(ctx context.Context, employeeID string) error {
	if f.deactivateLoginFn != nil {
		return f.deactivateLoginFn(ctx, employeeID)
	}
	return nil
}

func (f *fakeEmployeeRepository) DeleteLogin(ctx context.Context, employeeID string) error {
	if f.deleteLoginFn != nil {
		return f.deleteLoginFn(ctx, employeeID)
	}
	return nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) WithTx(tx *sql.Tx) counter.Repository {
	return f
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, name string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeBalanceRepository struct {
	createAllFn func(ctx context.Context, balances []leave.LeaveBalance) error
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) leave.BalanceRepository {
	return f
}

func (f *fakeBalanceRepository) CreateAll(ctx context.Context, balances []leave.LeaveBalance) error {
	if f.createAllFn != nil {
		return f.createAllFn(ctx, balances)
	}
	return nil
}

func (f *fakeBalanceRepository) FindByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	return nil, nil
}

func (f *fakeBalanceRepository) FindByEmployeeTypeYear(ctx context.Context, employeeID, leaveType string, year int) (*leave.LeaveBalance, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) Update(ctx context.Context, b *leave.LeaveBalance) error {
	return nil
}

type employeeServiceDeps struct {
	db          *sql.DB
	sqlMock     sqlmock.Sqlmock
	service     employee.Service
	repo        *fakeEmployeeRepository
	balanceRepo *fakeBalanceRepository
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeEmployeeRepository{}
	balanceRepo := &fakeBalanceRepository{}
	svc := employee.NewService(db, repo, &fakeCounterRepository{}, balanceRepo, nil, nil)

	return &employeeServiceDeps{
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

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()
	req := employee.CreateEmployeeRequest{
		FullName:      "Anjali Menon",
		Email:         "anjali.menon@spiceerp.test",
		Phone:         "+91 98470 12345",
		Designation:   "Quality Analyst",
		Department:    "Production",
		DateOfJoining: "2026-01-15",
	}

	t.Run("success provisions code, login and balances", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var created *employee.Employee
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			created = empl
			assert.Equal(t, "EMP-000001", empl.EmployeeCode)
			assert.Equal(t, employee.StatusActive, empl.Status)
			return nil
		}
		deps.repo.createLoginFn = func(ctx context.Context, login employee.Login) error {
			assert.Equal(t, "EMPLOYEE", login.Role)
			assert.Equal(t, req.Email, login.Email)
			// default password is the employee code
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(login.Password), []byte("EMP-000001")))
			return nil
		}
		balancesSeeded := false
		deps.balanceRepo.createAllFn = func(ctx context.Context, balances []leave.LeaveBalance) error {
			balancesSeeded = true
			assert.Len(t, balances, 3)
			for _, b := range balances {
				assert.Equal(t, time.Now().UTC().Year(), b.Year)
			}
			return nil
		}

		resp, err := deps.service.Create(ctx, req)
		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.True(t, balancesSeeded)
		assert.Equal(t, "EMP-000001", resp.EmployeeCode)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid joining date", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		bad := req
		bad.DateOfJoining = "15/01/2026"
		_, err := deps.service.Create(ctx, bad)
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidDateOfJoining)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("email unchanged", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, gotID string) (*employee.Employee, error) {
			return &employee.Employee{
				ID:           id,
				EmployeeCode: "EMP-000007",
				FullName:     "Ravi Nair",
				Email:        "ravi.nair@spiceerp.test",
				Status:       employee.StatusActive,
			}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, empl *employee.Employee) error {
			assert.Equal(t, "ravi.nair@spiceerp.test", empl.Email)
			assert.Equal(t, "Ravi K Nair", empl.FullName)
			return nil
		}

		resp, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
			FullName:    "Ravi K Nair",
			Designation: "Supervisor",
			Department:  "Packaging",
		})
		assert.NoError(t, err)
		assert.Equal(t, "ravi.nair@spiceerp.test", resp.Email)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, gotID string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{FullName: "X", Designation: "Y", Department: "Z"})
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Deactivate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("flips status and disables login", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, gotID string) (*employee.Employee, error) {
			return &employee.Employee{ID: id, Status: employee.StatusActive}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, empl *employee.Employee) error {
			assert.Equal(t, employee.StatusInactive, empl.Status)
			return nil
		}
		loginDisabled := false
		deps.repo.deactivateLoginFn = func(ctx context.Context, employeeID string) error {
			loginDisabled = true
			assert.Equal(t, id.String(), employeeID)
			return nil
		}

		err := deps.service.Deactivate(ctx, id.String())
		assert.NoError(t, err)
		assert.True(t, loginDisabled)
	})

	t.Run("already inactive", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, gotID string) (*employee.Employee, error) {
			return &employee.Employee{ID: id, Status: employee.StatusInactive}, nil
		}

		err := deps.service.Deactivate(ctx, id.String())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyInactive)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		err := deps.service.Deactivate(ctx, "nope")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("removes login before employee row", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, gotID string) (*employee.Employee, error) {
			return &employee.Employee{ID: id, Status: employee.StatusActive}, nil
		}
		var calls []string
		deps.repo.deleteLoginFn = func(ctx context.Context, employeeID string) error {
			calls = append(calls, "login")
			return nil
		}
		deps.repo.deleteFn = func(ctx context.Context, gotID string) error {
			calls = append(calls, "employee")
			assert.Equal(t, id.String(), gotID)
			return nil
		}

		err := deps.service.Delete(ctx, id.String())
		assert.NoError(t, err)
		assert.Equal(t, []string{"login", "employee"}, calls)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		err := deps.service.Delete(ctx, id.String())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_GetByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByCodeFn = func(ctx context.Context, code string) (*employee.Employee, error) {
			assert.Equal(t, "EMP-000007", code)
			return &employee.Employee{
				ID:           uuid.New(),
				EmployeeCode: code,
				FullName:     "Sreejith K",
				Status:       employee.StatusActive,
			}, nil
		}

		resp, err := deps.service.GetByCode(ctx, "EMP-000007")
		assert.NoError(t, err)
		assert.Equal(t, "Sreejith K", resp.FullName)
	})

	t.Run("unknown code", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByCode(ctx, "EMP-999999")
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}
