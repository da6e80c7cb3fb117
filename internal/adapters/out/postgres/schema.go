package postgres

import (
	"log/slog"
	"time"

	"bookypedia/internal/adapters/out/postgres/authorrepo"
	"bookypedia/internal/adapters/out/postgres/bookrepo"
	"bookypedia/internal/adapters/out/postgres/tagrepo"

	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// NewGormConfig returns the GORM settings the unit of work relies on.
// TranslateError turns duplicate keys into gorm.ErrDuplicatedKey; SQL
// warnings go to logger.
func NewGormConfig(logger *slog.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gorm_logger.New(
			slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
			gorm_logger.Config{
				SlowThreshold:             slowQueryThreshold,
				LogLevel:                  gorm_logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

// AutoMigrate creates the catalog tables when they are missing. It only adds
// tables, columns and indexes; it never drops anything.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&authorrepo.AuthorDTO{},
		&bookrepo.BookDTO{},
		&tagrepo.BookTagDTO{},
	)
}
