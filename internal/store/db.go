package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Config holds database connection settings.
type Config struct {
	// Driver is "postgres" or "sqlite".
	Driver string

	// DSN is passed to the driver unchanged.
	DSN string

	MaxIdleConns    int           // default 10
	MaxOpenConns    int           // default 100, always 1 for sqlite
	ConnMaxLifetime time.Duration // default 1h
	ConnMaxIdleTime time.Duration // default 15m

	// HealthCheckTimeout bounds the initial ping. Default 5s.
	HealthCheckTimeout time.Duration

	// LogLevel is one of "silent", "error", "warn" or "info".
	LogLevel string
}

// NewDB opens a database connection, configures the pool and pings it.
func NewDB(c *Config, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch c.Driver {
	case "postgres", "":
		dialector = postgres.Open(c.DSN)
	case "sqlite":
		dialector = sqlite.Open(c.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.Driver)
	}

	logger.Info("connecting to database", zap.String("driver", c.Driver))

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(zap.NewStdLog(logger.Named("gorm")), gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel(c.LogLevel),
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	maxIdleConns := c.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = 10
	}
	maxOpenConns := c.MaxOpenConns
	if maxOpenConns == 0 {
		maxOpenConns = 100
	}
	if c.Driver == "sqlite" {
		// sqlite allows one writer; a single connection also keeps an
		// in-memory database alive for the pool's lifetime.
		maxOpenConns = 1
	}
	connMaxLifetime := c.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = time.Hour
	}
	connMaxIdleTime := c.ConnMaxIdleTime
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 15 * time.Minute
	}

	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	healthCheckTimeout := c.HealthCheckTimeout
	if healthCheckTimeout == 0 {
		healthCheckTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	logger.Info("database connected",
		zap.Int("max_idle", maxIdleConns),
		zap.Int("max_open", maxOpenConns),
	)
	return db, nil
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserDO{},
		&AlbumDO{},
		&TrackDO{},
		&ResourceUserDO{},
		&AnnouncementDO{},
	)
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func logLevel(s string) gormLogger.LogLevel {
	switch s {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}
