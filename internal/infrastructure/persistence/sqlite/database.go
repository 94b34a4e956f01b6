// Package sqlite implements the community board repositories on SQLite
// through gorm. It backs single-node deployments and the integration tests.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryDSN is a private in-memory database shared by the pool's connections.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
}

// FileDSN returns the DSN for an on-disk database.
func FileDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
}

// Database wraps a gorm handle with the community board schema.
type Database struct {
	db *gorm.DB
}

// Open opens dsn and creates missing tables.
func Open(dsn string) (*Database, error) {
	if err := registerFunctions(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to register functions: %w", err)
	}

	if path, ok := filePath(dsn); ok {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: failed to create data dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to get sql.DB: %w", err)
	}
	// SQLite allows one writer at a time.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&memberModel{}, &boardModel{}, &postModel{}, &commentModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite: failed to migrate: %w", err)
	}

	return &Database{db: db}, nil
}

// Ping checks that the database answers.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connections.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Members returns the member repository.
func (d *Database) Members() *MemberRepository { return &MemberRepository{db: d.db} }

// Boards returns the board repository.
func (d *Database) Boards() *BoardRepository { return &BoardRepository{db: d.db} }

// Posts returns the post repository.
func (d *Database) Posts() *PostRepository { return &PostRepository{db: d.db} }

// Comments returns the comment repository.
func (d *Database) Comments() *CommentRepository { return &CommentRepository{db: d.db} }

func filePath(dsn string) (string, bool) {
	rest, ok := strings.CutPrefix(dsn, "file:")
	if !ok {
		return "", false
	}
	path, query, _ := strings.Cut(rest, "?")
	if path == "" || path == ":memory:" || strings.Contains(query, "mode=memory") {
		return "", false
	}
	return path, true
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		(err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed"))
}
