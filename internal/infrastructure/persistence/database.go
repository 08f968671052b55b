package persistence

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/udyog/backend/internal/domain/catalog"
	"github.com/udyog/backend/internal/domain/identity"
	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/partner"
	"github.com/udyog/backend/internal/domain/production"
	"github.com/udyog/backend/internal/domain/quotation"
	"github.com/udyog/backend/internal/domain/trade"
	"github.com/udyog/backend/internal/infrastructure/config"
	"github.com/udyog/backend/internal/infrastructure/logger"
)

// Database holds the database connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a postgres connection with pooling configured
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger) (*Database, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 logger.NewGormLogger(log, gormlogger.Warn),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// migrateModels lists every persisted aggregate in dependency order
func migrateModels() []interface{} {
	return []interface{}{
		&identity.Tenant{},
		&identity.User{},
		&catalog.Category{},
		&catalog.Product{},
		&partner.Customer{},
		&partner.PaymentHistory{},
		&production.Machine{},
		&production.Batch{},
		&production.MixerItem{},
		&production.ProductionItem{},
		&trade.Purchase{},
		&trade.PurchaseItem{},
		&trade.Sale{},
		&trade.SaleItem{},
		&quotation.Quotation{},
		&quotation.Item{},
		&ledger.Entry{},
	}
}

// AutoMigrateAll runs schema migration against an arbitrary gorm connection.
// Integration tests use it with sqlite.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(migrateModels()...)
}

// AutoMigrate creates or updates the schema for every aggregate. Production
// deployments run versioned SQL migrations instead; this backs tests and
// local development.
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(migrateModels()...)
}
