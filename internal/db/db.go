package db

import (
	"context"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/logging"
	"reviewhub/internal/models"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const pingTimeout = 5 * time.Second

// Open connects to Postgres, sizes the pool and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// Multi-statement operations open explicit transactions.
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger: logger.New(logging.Printf{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	logging.Info().
		Int("max_open_conns", cfg.MaxOpenConns).
		Int("max_idle_conns", cfg.MaxIdleConns).
		Msg("Database connection established")
	return gdb, nil
}

// Migrate creates or updates the schema and seeds the fixed categories.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	err := gdb.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Review{},
		&models.Comment{},
		&models.CommentVote{},
	)
	if err != nil {
		return errors.Wrap(err, "migrate database")
	}
	logging.Info().Msg("Database migration completed")

	return seedCategories(ctx, gdb)
}

func seedCategories(ctx context.Context, gdb *gorm.DB) error {
	categories := make([]models.Category, 0, len(models.DefaultCategories))
	for _, name := range models.DefaultCategories {
		categories = append(categories, models.Category{Name: name})
	}

	res := gdb.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&categories)
	if res.Error != nil {
		return errors.Wrap(res.Error, "seed categories")
	}
	if res.RowsAffected > 0 {
		logging.Info().Int64("created", res.RowsAffected).Msg("Initial categories created")
	}
	return nil
}

// Close releases the pool. In-flight statements finish before connections close.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	return sqlDB.Close()
}
