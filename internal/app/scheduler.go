package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/attendance"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/leave"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/messaging/kafka"
	"github.com/erfanhabeeb666/keralaspiceerp/internal/shared/connection"
)

// RunScheduler triggers the daily attendance generation shortly after
// midnight UTC. The run is idempotent, so a restart mid-day at worst
// repeats a no-op.
func RunScheduler() error {
	logger := zap.L().Named("app.scheduler")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	leaveRepo := leave.NewRepository(gormDB)
	balanceRepo := leave.NewBalanceRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	leaveService := leave.NewService(sqlDB, leaveRepo, balanceRepo, outboxRepo)

	attendanceRepo := attendance.NewRepository(gormDB)
	attendanceService := attendance.NewService(sqlDB, attendanceRepo, leaveService)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: time.Date(2020, time.January, 1, 0, 5, 0, 0, time.UTC),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runGenerationLoop(ctx, rule, attendanceService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("scheduler shutting down")
	cancel()

	return nil
}

func runGenerationLoop(
	ctx context.Context,
	rule *rrule.RRule,
	attendanceService attendance.Service,
	logger *zap.Logger,
) {
	for {
		now := time.Now().UTC()
		next := rule.After(now, false)
		logger.Info("next attendance generation scheduled", zap.Time("at", next))

		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
		}

		result, err := attendanceService.Generate(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("scheduled attendance generation failed", zap.Error(err))
			continue
		}
		logger.Info("scheduled attendance generation complete",
			zap.String("date", result.Date),
			zap.Int("created", result.Created),
			zap.Int("skipped_existing", result.SkippedExisting),
			zap.Int("leave_marked", result.LeaveMarked),
		)
	}
}
