package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/efub/community-board/config"
	"github.com/efub/community-board/internal/domain/board"
	"github.com/efub/community-board/internal/domain/comment"
	"github.com/efub/community-board/internal/domain/member"
	"github.com/efub/community-board/internal/domain/post"
	"github.com/efub/community-board/internal/infrastructure/persistence/postgres"
	"github.com/efub/community-board/internal/infrastructure/persistence/sqlite"
	"github.com/efub/community-board/pkg/logger"
)

// storage bundles the repositories of the selected driver.
type storage struct {
	members  member.Repository
	boards   board.Repository
	posts    post.Repository
	comments comment.Repository

	ping  func(ctx context.Context) error
	close func()

	// pg is set only for the postgres driver; the migrate command needs it.
	pg *postgres.Connection
}

func (s *storage) Ping(ctx context.Context) error { return s.ping(ctx) }

func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storage, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		return openSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Database.Driver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storage, error) {
	pgCfg := postgres.DefaultConfig(cfg.Database.URL)
	pgCfg.MaxConns = cfg.Database.MaxConns
	pgCfg.MinConns = cfg.Database.MinConns

	log.Info("connecting to PostgreSQL...")
	conn, err := postgres.NewConnection(ctx, pgCfg, log)
	if err != nil {
		return nil, err
	}
	log.Info("PostgreSQL connection established")

	return &storage{
		members:  postgres.NewMemberRepository(conn),
		boards:   postgres.NewBoardRepository(conn),
		posts:    postgres.NewPostRepository(conn),
		comments: postgres.NewCommentRepository(conn),
		ping:     conn.Ping,
		close:    conn.Close,
		pg:       conn,
	}, nil
}

func openSQLite(cfg *config.Config, log *slog.Logger) (*storage, error) {
	dsn := sqlite.MemoryDSN(programName)
	if cfg.Database.SQLitePath != "" {
		dsn = sqlite.FileDSN(cfg.Database.SQLitePath)
	}

	log.Info("opening SQLite database...", slog.String("path", cfg.Database.SQLitePath))
	db, err := sqlite.Open(dsn)
	if err != nil {
		return nil, err
	}

	return &storage{
		members:  db.Members(),
		boards:   db.Boards(),
		posts:    db.Posts(),
		comments: db.Comments(),
		ping:     db.Ping,
		close: func() {
			if err := db.Close(); err != nil {
				log.Warn("failed to close SQLite database", logger.Err(err))
			}
		},
	}, nil
}

var errSQLiteMigrations = errors.New("the sqlite driver migrates its schema automatically on open")

// migrate applies pending PostgreSQL migrations and logs the resulting state.
func (s *storage) migrate(ctx context.Context, log *slog.Logger) error {
	if s.pg == nil {
		log.Debug("schema managed by AutoMigrate")
		return nil
	}

	migrator := postgres.NewMigrator(s.pg)
	if err := migrator.Migrate(ctx); err != nil {
		return err
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Warn("failed to get migration status", logger.Err(err))
		return nil
	}

	applied := 0
	for _, m := range status {
		if m.IsApplied {
			applied++
		}
	}
	log.Info("migrations completed", slog.Int("applied", applied), slog.Int("total", len(status)))
	return nil
}
