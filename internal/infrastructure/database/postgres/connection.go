package postgres

import (
	"context"
	"fmt"
	"time"

	"auth-backend/internal/config"
	"auth-backend/internal/infrastructure/database/postgres/migrations"
	"auth-backend/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
	statementTimeout time.Duration
}

// NewDB opens the Postgres pool described by cfg.
func NewDB(cfg *config.Config) (*DB, error) {
	db, err := Open(postgres.Open(cfg.Database.DSN()), cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
		zap.Int("max_open_connections", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_connections", cfg.Database.MaxIdleConns),
	)

	return db, nil
}

// Open wraps any gorm dialector with the pool settings and error translation
// the repositories rely on.
func Open(dialector gorm.Dialector, cfg *config.Config) (*DB, error) {
	gormLogLevel := gormLogger.Info
	if cfg.Server.Environment == "production" {
		gormLogLevel = gormLogger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(logger.StdLog(), gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB: %w", err)
	}

	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	return &DB{DB: db, statementTimeout: cfg.Database.StatementTimeout}, nil
}

// Migrate applies the embedded goose migrations.
func (d *DB) Migrate(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(logger.StdLog())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("error setting migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}
	return nil
}

// statement bounds a single store round trip by the configured timeout.
func (d *DB) statement(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if d.statementTimeout <= 0 {
		return d.DB.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, d.statementTimeout)
	return d.DB.WithContext(ctx), cancel
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Health() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
