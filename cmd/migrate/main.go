package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/attendance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/auth"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/employee"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/connection"
)

// Tables owned by raw-SQL repositories rather than gorm entities.
var rawTables = []string{
	`CREATE TABLE IF NOT EXISTS counters (
		name TEXT PRIMARY KEY,
		current_value BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		request_id TEXT,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		topic TEXT NOT NULL,
		payload JSONB NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		retry_count INT NOT NULL DEFAULT 0,
		error_message TEXT,
		next_retry_at TIMESTAMPTZ,
		processed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created
		ON outbox_events (status, created_at)`,
}

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&employee.Employee{},
		&auth.User{},
		&leave.LeaveRequest{},
		&leave.LeaveBalance{},
		&attendance.AttendanceRecord{},
	); err != nil {
		logger.Fatal("auto migrate failed", zap.Error(err))
	}

	for _, stmt := range rawTables {
		if err := db.Exec(stmt).Error; err != nil {
			logger.Fatal("raw migration failed", zap.Error(err))
		}
	}

	if err := seedAdmin(db, logger); err != nil {
		logger.Fatal("seed admin failed", zap.Error(err))
	}

	logger.Info("migrations complete")
}

// seedAdmin provisions the first ADMIN login so /auth/register-admin has a
// caller. No-op once any admin exists.
func seedAdmin(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&auth.User{}).Where("role = ?", rbac.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Warn("no admin exists and SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD are unset, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := auth.User{
		ID:       uuid.New(),
		Name:     "System Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     rbac.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("seeded initial admin", zap.String("email", email))
	return nil
}
