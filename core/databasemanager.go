package core

import (
	"context"
	"database/sql"
	"fmt"
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

// Store is the scoped-execution surface consumers depend on; the pool-backed
// DatabaseManager is its production implementation.
type Store interface {
	Exec(ctx context.Context, fn func(db *gorm.DB) error) error
}

type DatabaseManager struct {
	SqlDB    *sql.DB
	LogLevel LogLevel
}

// New creates the global pool shared by all request handlers.
func New(dsn string, maxConnection int) (*DatabaseManager, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	return &DatabaseManager{SqlDB: sqlDB}, nil
}

// GetDB gets a *gorm.DB bound to a single connection from the pool.
// The caller owns the returned conn and must close it on every exit path.
func (dm *DatabaseManager) GetDB(ctx context.Context) (*gorm.DB, *sql.Conn, error) {
	conn, err := dm.SqlDB.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get conn: %w", err)
	}

	// Wrap this single connection into GORM
	dialector := mysql.New(mysql.Config{
		Conn: conn, // lock GORM to this connection
	})

	gormLogLevel := logger.Silent
	switch dm.LogLevel {
	case LogLevelError:
		gormLogLevel = logger.Error
	case LogLevelWarn:
		gormLogLevel = logger.Warn
	case LogLevelInfo:
		gormLogLevel = logger.Info
	case LogLevelSilent:
		gormLogLevel = logger.Silent
	default:
		gormLogLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel),
		TranslateError: true,
	})
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return db, conn, nil
}

// Exec runs fn against a scoped connection and releases it afterwards.
func (dm *DatabaseManager) Exec(ctx context.Context, fn func(db *gorm.DB) error) error {
	db, conn, err := dm.GetDB(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(db)
}

// Migrate creates or updates the attendance schema. The unique index on
// (employee_id, date) backs up the transactional check-then-act in the
// resolver.
func (dm *DatabaseManager) Migrate(ctx context.Context) error {
	return dm.Exec(ctx, func(db *gorm.DB) error {
		return db.AutoMigrate(&Employee{}, &AttendanceRecord{})
	})
}

// Close closes the global pool
func (dm *DatabaseManager) Close() error {
	return dm.SqlDB.Close()
}
