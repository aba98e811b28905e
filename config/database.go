package config

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectBackoff = 500 * time.Millisecond

// ConnectDatabase opens the configured database and applies pool settings.
// Connection failures are retried DBMaxRetries times before giving up.
func ConnectDatabase(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(gormLogLevel(cfg)),
	}

	var (
		db  *gorm.DB
		err error
	)
	for attempt := 0; attempt <= cfg.DBMaxRetries; attempt++ {
		if attempt > 0 {
			wait := connectBackoff * time.Duration(1<<(attempt-1))
			log.Warn("Retrying database connection",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
			time.Sleep(wait)
		}
		db, err = gorm.Open(dialector(cfg), gormCfg)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.DatabaseDriver == "sqlite" {
		// One connection keeps an in-memory database alive and serializes writers
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	}

	log.Info("Database connection established", zap.String("driver", cfg.DatabaseDriver))
	return db, nil
}

func dialector(cfg *Config) gorm.Dialector {
	if cfg.DatabaseDriver == "sqlite" {
		return sqlite.Open(cfg.DatabaseURL)
	}
	return postgres.Open(cfg.DatabaseURL)
}

func gormLogLevel(cfg *Config) logger.LogLevel {
	if cfg.LogLevel == "debug" {
		return logger.Info
	}
	if cfg.IsTest() {
		return logger.Silent
	}
	return logger.Warn
}
