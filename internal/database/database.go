package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/biblioteka/internal/config"
	"github.com/mrlokans/biblioteka/internal/entities"
	"github.com/mrlokans/biblioteka/internal/logging"
)

type Database struct {
	DB     *gorm.DB
	driver config.DatabaseDriver
}

// NewDatabase opens (and migrates) a sqlite catalog at dbPath.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(config.Database{
		Driver:   config.DriverSQLite,
		Path:     dbPath,
		LogLevel: "silent",
	})
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.Database) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.GormLogger(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Genre{},
		&entities.Title{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Str("driver", string(driverOrDefault(cfg.Driver))).Msg("Database initialized")

	return &Database{DB: db, driver: driverOrDefault(cfg.Driver)}, nil
}

func driverOrDefault(driver config.DatabaseDriver) config.DatabaseDriver {
	if driver == "" {
		return config.DriverSQLite
	}
	return driver
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch driverOrDefault(cfg.Driver) {
	case config.DriverSQLite:
		if cfg.Path == "" {
			return nil, errors.New("database path is not set")
		}
		return sqlite.Open(sqliteDSN(cfg.Path)), nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("DATABASE_DSN is required for the postgres driver")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// sqliteDSN enables foreign keys (for cascades) and a busy timeout so
// background writers wait instead of failing with "database is locked".
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// Driver reports which backend the catalog is stored in.
func (d *Database) Driver() config.DatabaseDriver {
	return d.driver
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks connectivity of the underlying connection pool.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SeedGenres creates every named genre that does not exist yet.
// Returns the number of genres created.
func (d *Database) SeedGenres(names []string) (int, error) {
	created := 0
	for _, name := range names {
		var existing entities.Genre
		result := d.DB.Where("name = ?", name).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			genre := entities.Genre{Name: name}
			if err := d.DB.Create(&genre).Error; err != nil {
				return created, fmt.Errorf("failed to create genre %s: %w", name, err)
			}
			log.Info().Str("genre", name).Msg("Created genre")
			created++
		} else if result.Error != nil {
			return created, result.Error
		}
	}
	return created, nil
}
