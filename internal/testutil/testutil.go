package testutil

import (
	"fmt"
	"testing"

	"taskboard/internal/infrastructure/database/postgres"
	"taskboard/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an isolated in-memory database and runs migrations.
// Each call gets its own database, so tests can run in parallel.
func NewTestDB(t *testing.T) *postgres.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&models.UserModel{},
		&models.TaskModel{},
		&models.BoardEntryModel{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &postgres.DB{DB: gormDB}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
