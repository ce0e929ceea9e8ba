// Package mockapi is a development implementation of the backend REST
// API the console talks to, stored in MySQL through gorm.
package mockapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	case "info":
		return LogLevelInfo
	}
	return LogLevelWarn
}

func (l LogLevel) gorm() logger.LogLevel {
	switch l {
	case LogLevelSilent:
		return logger.Silent
	case LogLevelError:
		return logger.Error
	case LogLevelWarn:
		return logger.Warn
	case LogLevelInfo:
		return logger.Info
	}
	return logger.Info
}

type DatabaseManager struct {
	DB       *gorm.DB
	LogLevel LogLevel
}

// New opens the pool. dsn should carry parseTime=true.
func New(dsn string, maxConnection int, level LogLevel) (*DatabaseManager, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level.gorm()),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB from GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	return &DatabaseManager{DB: db, LogLevel: level}, nil
}

func (dm *DatabaseManager) Migrate() error {
	return dm.DB.AutoMigrate(&User{}, &Employee{}, &Field{}, &Department{}, &Assignment{}, &Attendance{})
}

// Close closes the pool.
func (dm *DatabaseManager) Close() error {
	sqlDB, err := dm.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (dm *DatabaseManager) Exec(ctx context.Context, fn func(db *gorm.DB) error) error {
	return fn(dm.DB.WithContext(ctx))
}
