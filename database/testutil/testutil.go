// Package testutil opens throwaway databases for tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"

	"github.com/kbukum/recordkit/database"
	"github.com/kbukum/recordkit/logger"
)

// NewDB opens a private in-memory SQLite database, migrates models and closes
// it when the test ends. The pool holds a single connection so every session
// sees the same in-memory schema.
func NewDB(t testing.TB, models ...any) *database.DB {
	t.Helper()

	cfg := database.Config{
		Driver:          database.DriverSQLite,
		DSN:             fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: "0s",
		ConnMaxIdleTime: "0s",
		MaxRetries:      1,
		LogLevel:        "silent",
	}
	db, err := database.NewWithContext(context.Background(), sqlite.Open(cfg.DSN), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate test database: %v", err)
		}
	}
	return db
}

// CountRows returns the physical row count of table, soft-deleted rows included.
func CountRows(t testing.TB, db *database.DB, table string) int64 {
	t.Helper()
	var count int64
	if err := db.WithContext(context.Background()).Table(table).Count(&count).Error; err != nil {
		t.Fatalf("count rows in %s: %v", table, err)
	}
	return count
}
