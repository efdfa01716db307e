package main

import (
	"context"
	"fmt"

	"github.com/IBA-HOK/user-attendance-record/internal/config"
	"github.com/IBA-HOK/user-attendance-record/internal/database"
	"github.com/IBA-HOK/user-attendance-record/internal/logger"
	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/repository"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	roleRepo := repository.NewRoleRepository(pool)

	fmt.Println("=== Fix Super Admin Permissions ===")
	fmt.Println("This command will assign ALL available permissions to Role ID 1 (Superadmin).")

	codes := make([]string, 0, len(model.AllPermissions))
	for _, p := range model.AllPermissions {
		codes = append(codes, string(p))
	}

	if err := roleRepo.ReplacePermissions(ctx, 1, codes); err != nil {
		log.Fatal().Err(err).Msg("Failed to assign permissions to Role ID 1")
	}

	fmt.Printf("\nSuccess! Superadmin (Role ID 1) now has all %d permissions.\n", len(codes))
}
