package sqlite

import (
	"fmt"
	"log"
	"os"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/game-hipe/remembering/internal/domain/entity"
)

var (
	dbInstance *gorm.DB
	once       sync.Once
)

// NewDB initializes the GORM database connection using SQLite.
// It ensures that the connection is established only once (singleton pattern).
func NewDB() *gorm.DB {
	once.Do(func() {
		dbURL := os.Getenv("REMEMBERING_DB_URL")
		if dbURL == "" {
			dbURL = "remembering.db"
			log.Println("WARN: REMEMBERING_DB_URL environment variable not set, defaulting to 'remembering.db'")
		}

		gormLog := gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		)

		db, err := gorm.Open(sqlite.Open(dbURL), &gorm.Config{
			Logger: gormLog,
		})
		if err != nil {
			log.Fatalf("ERROR: Failed to connect to database: %v", err)
		}
		dbInstance = db

		if err := AutoMigrate(dbInstance); err != nil {
			log.Fatalf("ERROR: Failed to auto-migrate database schema: %v", err)
		}
	})
	return dbInstance
}

// AutoMigrate automatically migrates the database schema for the defined entities.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.User{},
		&entity.Memory{},
	)
	if err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}

// CloseDB closes the database connection if it's open.
func CloseDB() error {
	if dbInstance != nil {
		sqlDB, err := dbInstance.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying *sql.DB: %w", err)
		}
		return sqlDB.Close()
	}
	return nil
}
