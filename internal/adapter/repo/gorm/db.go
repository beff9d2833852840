package gormrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 10
	connMaxIdleTime = 5 * time.Minute
	slowQuery       = 200 * time.Millisecond
)

// OpenPostgres connects to the region store and checks it answers before
// returning. Slow statements and SQL errors go to logger.
func OpenPostgres(ctx context.Context, dsn string, logger *log.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func gormConfig(logger *log.Logger) *gorm.Config {
	if logger == nil {
		return &gorm.Config{Logger: gormlogger.Discard}
	}
	return &gorm.Config{
		Logger: gormlogger.New(logger.WithPrefix("gorm"), gormlogger.Config{
			SlowThreshold:             slowQuery,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}
