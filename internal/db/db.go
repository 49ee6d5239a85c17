package db

import (
	"fmt"
	"strings"
	"time"
	"yatube/internal/config"
	"yatube/internal/logging"
	"yatube/internal/models"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultPostgresDSN = "host=localhost user=postgres password=postgres dbname=yatube port=5432 sslmode=disable"
	defaultMySQLDSN    = "root:root@tcp(127.0.0.1:3306)/yatube?charset=utf8mb4&parseTime=True&loc=Local"
	defaultSQLiteDSN   = "yatube.db"
)

// Dialector picks the gorm driver for DB_DRIVER. An empty dsn falls back to a
// local development database.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "":
		if dsn == "" {
			dsn = defaultPostgresDSN
		}
		return postgres.Open(dsn), nil
	case "mysql":
		if dsn == "" {
			dsn = defaultMySQLDSN
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		return sqlite.Open(withSQLiteForeignKeys(dsn)), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// SQLite ignores REFERENCES clauses unless foreign keys are switched on per connection.
func withSQLiteForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// Open connects with the configured driver and routes gorm's logger through logrus.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(logging.Log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if cfg.DBDriver == "sqlite" {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to access sqlite pool")
		}
		// a single writer avoids "database is locked" under concurrent requests
		sqlDB.SetMaxOpenConns(1)
	}

	logging.Log.WithField("driver", cfg.DBDriver).Info("Database connection established")
	return gdb, nil
}

// Migrate creates or updates every table together with its foreign keys.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	logging.Log.Info("Database migration completed")
	return nil
}
