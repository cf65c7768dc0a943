package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/recipehub/internal/db/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies every embedded migration that has not run yet.
func Migrate(ctx context.Context, dsn string, log *slog.Logger) error {
	return withSQL(dsn, func(conn *sql.DB) error {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		log.Info("applying migrations")
		if err := goose.UpContext(runCtx, conn, "."); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("migrations applied")
		return nil
	})
}

// Rollback undoes the latest migration, or down to target when target > 0.
func Rollback(ctx context.Context, dsn string, target int64, log *slog.Logger) error {
	return withSQL(dsn, func(conn *sql.DB) error {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		if target > 0 {
			log.Info("rolling back migrations", "target", target)
			if err := goose.DownToContext(runCtx, conn, ".", target); err != nil {
				return fmt.Errorf("rollback to version %d: %w", target, err)
			}
			return nil
		}

		log.Info("rolling back latest migration")
		if err := goose.DownContext(runCtx, conn, "."); err != nil {
			return fmt.Errorf("rollback latest migration: %w", err)
		}
		return nil
	})
}

func MigrationStatus(ctx context.Context, dsn string) error {
	return withSQL(dsn, func(conn *sql.DB) error {
		return goose.StatusContext(ctx, conn, ".")
	})
}

func withSQL(dsn string, fn func(*sql.DB) error) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open sql connection: %w", err)
	}
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		return fmt.Errorf("ping sql connection: %w", err)
	}

	return fn(conn)
}
