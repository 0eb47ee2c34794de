package postgres

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"dinewallet.backend/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrationSource is read by the migrator; tests swap in their own files.
var migrationSource fs.FS = migrationFiles

// newDatabaseDriver wraps db for golang-migrate. The postgres driver holds an
// advisory lock for the duration of a run.
var newDatabaseDriver = func(db *sql.DB) (database.Driver, string, error) {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	return driver, "postgres", err
}

// Migrations lists the embedded up migrations in apply order.
func Migrations() ([]string, error) {
	entries, err := fs.ReadDir(migrationSource, "migrations")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Migrator applies the embedded migrations with golang-migrate.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator prepares a migrator over db. Close releases db as well.
func NewMigrator(db *sql.DB) (*Migrator, error) {
	src, err := iofs.New(migrationSource, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	driver, name, err := newDatabaseDriver(db)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("open migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	m.Log = migrateLogger{}
	return &Migrator{m: m}, nil
}

// Up applies every pending migration and returns the versions before and after.
func (m *Migrator) Up() (from, to uint, err error) {
	if from, _, err = m.Version(); err != nil {
		return 0, 0, err
	}
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return from, from, fmt.Errorf("migrate up: %w", err)
	}
	to, _, err = m.Version()
	return from, to, err
}

// Down rolls back steps migrations.
func (m *Migrator) Down(steps int) (from, to uint, err error) {
	if steps < 1 {
		return 0, 0, fmt.Errorf("down steps must be positive, got %d", steps)
	}
	if from, _, err = m.Version(); err != nil {
		return 0, 0, err
	}
	if err := m.m.Steps(-steps); err != nil {
		return from, from, fmt.Errorf("migrate down: %w", err)
	}
	to, _, err = m.Version()
	return from, to, err
}

// Version reports the applied version; 0 means nothing has been applied yet.
func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	logger.GetLogger().Info("migrate", zap.String("event", strings.TrimSpace(fmt.Sprintf(format, v...))))
}

func (migrateLogger) Verbose() bool { return false }
