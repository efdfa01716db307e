package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/IBA-HOK/user-attendance-record/internal/config"
	"github.com/IBA-HOK/user-attendance-record/internal/database"
	"github.com/IBA-HOK/user-attendance-record/internal/handler"
	"github.com/IBA-HOK/user-attendance-record/internal/logger"
	"github.com/IBA-HOK/user-attendance-record/internal/repository"
	"github.com/IBA-HOK/user-attendance-record/internal/router"
	"github.com/IBA-HOK/user-attendance-record/internal/service"
	"github.com/IBA-HOK/user-attendance-record/internal/validator"
	"github.com/IBA-HOK/user-attendance-record/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting attendance backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	pcRepo := repository.NewPCRepository(pool)
	slotRepo := repository.NewClassSlotRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	entryLogRepo := repository.NewEntryLogRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	backupRepo := repository.NewBackupRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	adminService := service.NewAdminService(adminRepo, roleRepo, authService)
	studentService := service.NewStudentService(studentRepo)
	masterService := service.NewMasterService(pcRepo, slotRepo)
	scheduleService := service.NewScheduleService(scheduleRepo, slotRepo, log)
	entryLogService := service.NewEntryLogService(entryLogRepo, rdb, log)
	rosterService := service.NewRosterService(slotRepo, scheduleRepo, studentRepo, entryLogRepo, log)
	backupService := service.NewBackupService(backupRepo, rosterService, log)

	// Routes reference permission codes the migrations seed; refuse to
	// start if they diverge.
	if err := adminService.VerifyPermissionSeed(ctx); err != nil {
		log.Fatal().Err(err).Msg("Permission seed check failed")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, adminService),
		Student:  handler.NewStudentHandler(studentService),
		Master:   handler.NewMasterHandler(masterService),
		Schedule: handler.NewScheduleHandler(scheduleService),
		EntryLog: handler.NewEntryLogHandler(entryLogService),
		Roster:   handler.NewRosterHandler(rosterService),
		Device:   handler.NewDeviceHandler(entryLogService),
		Admin:    handler.NewAdminHandler(adminService),
		Backup:   handler.NewBackupHandler(backupService),
		Live:     handler.NewLiveHandler(rdb, rosterService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	checkinWorker := worker.NewCheckinWorker(entryLogRepo, rdb, log)
	go checkinWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the worker and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow the worker to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
