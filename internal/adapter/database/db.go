package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/squirrel"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/rs/zerolog"

	"noteflow/pkg/config"
)

// DB is the process-wide store handle: one instrumented *sql.DB plus
// the squirrel builder matching the driver's placeholder style.
type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
	Driver       string
}

// New opens the configured driver (sqlite3 or pgx), runs migrations,
// and wraps the connection with otelsql tracing and zerolog query
// logging.
func New(cfg *config.AppConfig) (*DB, error) {
	migrationDB, err := sql.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)

	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DatabaseDriver, err)
	}

	if err := RunMigrations(migrationDB, cfg.DatabaseDriver, cfg.MigrationsPath); err != nil {
		migrationDB.Close()
		return nil, err
	}

	migrationDB.Close()

	sqlDB, err := otelsql.Open(cfg.DatabaseDriver, cfg.DatabaseDSN,
		otelsql.WithDBSystem(dbSystem(cfg.DatabaseDriver)),
		otelsql.WithDBName("noteflow"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	logger := zerolog.New(os.Stdout)
	loggedDB := sqldblogger.OpenDriver(cfg.DatabaseDSN, sqlDB.Driver(), zerologadapter.New(logger))

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(placeholder(cfg.DatabaseDriver))

	return &DB{
		DB:           loggedDB,
		QueryBuilder: &queryBuilder,
		Driver:       cfg.DatabaseDriver,
	}, nil
}

// RunMigrations applies the per-driver DDL under migrationsPath.
func RunMigrations(db *sql.DB, driverName, migrationsPath string) error {
	m, err := newMigrator(db, driverName, migrationsPath)

	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func newMigrator(db *sql.DB, driverName, migrationsPath string) (*migrate.Migrate, error) {
	source := "file://" + migrationsPath

	switch driverName {
	case "pgx":
		driver, err := migratepg.WithInstance(db, &migratepg.Config{})
		if err != nil {
			return nil, fmt.Errorf("create migration driver: %w", err)
		}
		return migrate.NewWithDatabaseInstance(source, "postgres", driver)
	default:
		driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("create migration driver: %w", err)
		}
		return migrate.NewWithDatabaseInstance(source, "sqlite3", driver)
	}
}

func placeholder(driverName string) squirrel.PlaceholderFormat {
	if driverName == "pgx" {
		return squirrel.Dollar
	}

	return squirrel.Question
}

func dbSystem(driverName string) string {
	if driverName == "pgx" {
		return "postgresql"
	}

	return "sqlite"
}
