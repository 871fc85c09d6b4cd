package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sangkips/restaurant-pos/internal/config"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects using the configured driver ("postgres" or "sqlite")
func Open(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	if cfg.Driver == "sqlite" {
		return NewSQLiteDB(cfg.Path, debug)
	}
	return NewPostgresDB(cfg, debug)
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	zap.L().Info("connected to postgres", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// NewSQLiteDB opens an embedded SQLite database, used for local demos and tests.
// SQLite has no row locks, so the pool is limited to one connection to serialize writers.
func NewSQLiteDB(dsn string, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func gormConfig(debug bool) *gorm.Config {
	logCfg := logger.DefaultGormLoggerConfig()
	if debug {
		logCfg.Level = gormlogger.Info
	}
	return &gorm.Config{
		Logger:  logger.NewGormLogger(logCfg),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// AutoMigrate runs GORM auto-migration for all entities and creates the partial indexes
func AutoMigrate(db *gorm.DB) error {
	zap.L().Info("running database migrations")

	err := db.AutoMigrate(
		&entity.Permission{},
		&entity.Role{},
		&entity.User{},

		&entity.Category{},
		&entity.Product{},
		&entity.DiningTable{},

		&entity.Order{},
		&entity.OrderDetail{},
		&entity.Receipt{},
		&entity.CashSession{},

		&entity.BusinessConfig{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// One open session per cashier and one live receipt per order
	indexes := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_cash_sessions_open_cashier ON cash_sessions (cashier_id) WHERE status = 0",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_receipts_active_order ON receipts (order_id) WHERE status = 0",
		// superseded by ux_receipts_type_series_number
		"DROP INDEX IF EXISTS ux_receipts_series_number",
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	zap.L().Info("database migrations completed")
	return nil
}
