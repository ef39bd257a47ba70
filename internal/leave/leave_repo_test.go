package leave_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
)

// openGormOverMock opens a gorm handle on top of a sqlmock connection so
// repository SQL can be observed without a real database.
func openGormOverMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestRepository_WithTx(t *testing.T) {
	t.Run("statements ride the attached transaction", func(t *testing.T) {
		// The pool mock carries no expectations. If a statement bypasses
		// the transaction it lands here and fails the test.
		gormDB, poolMock := openGormOverMock(t)

		txDB, txMock, err := sqlmock.New()
		assert.NoError(t, err)
		t.Cleanup(func() { txDB.Close() })

		txMock.ExpectBegin()
		txMock.ExpectQuery(`SELECT count\(\*\) FROM "employees"`).
			WithArgs("3b6f1b54-6e9e-4f3a-9df0-2f9a2f1c0a11", "ACTIVE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		txMock.ExpectRollback()

		tx, err := txDB.Begin()
		assert.NoError(t, err)
		defer tx.Rollback()

		repo := leave.NewRepository(gormDB).WithTx(tx)
		active, err := repo.EmployeeIsActive(context.Background(), "3b6f1b54-6e9e-4f3a-9df0-2f9a2f1c0a11")
		assert.NoError(t, err)
		assert.True(t, active)

		assert.NoError(t, tx.Rollback())
		assert.NoError(t, poolMock.ExpectationsWereMet())
		assert.NoError(t, txMock.ExpectationsWereMet())
	})

	t.Run("without a transaction statements use the pool", func(t *testing.T) {
		gormDB, poolMock := openGormOverMock(t)

		poolMock.ExpectQuery(`SELECT count\(\*\) FROM "employees"`).
			WithArgs("3b6f1b54-6e9e-4f3a-9df0-2f9a2f1c0a11", "ACTIVE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		repo := leave.NewRepository(gormDB)
		active, err := repo.EmployeeIsActive(context.Background(), "3b6f1b54-6e9e-4f3a-9df0-2f9a2f1c0a11")
		assert.NoError(t, err)
		assert.False(t, active)

		assert.NoError(t, poolMock.ExpectationsWereMet())
	})
}
