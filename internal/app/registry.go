package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/attendance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/auth"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/dashboard"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/employee"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/messaging/kafka"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	balanceRepo := leave.NewBalanceRepository(gormDB)
	counterRepo := counter.NewRepository(db)
	dashboardRepo := dashboard.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo)
	leaveService := leave.NewService(db, leaveRepo, balanceRepo, outboxRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, leaveService)
	dashboardService := dashboard.NewService(dashboardRepo, rdb)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, balanceRepo, outboxRepo, rdb)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	authHandler := auth.NewHandler(authService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		dashboard.RegisterRoutes(api, dashboardHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService, rdb)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
	}

	return nil
}
