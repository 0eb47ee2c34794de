package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"dinewallet.backend/internal/config"
	"dinewallet.backend/internal/infrastructure/datasources/postgres"
	"github.com/joho/godotenv"
)

// schemaMigrator is satisfied by *postgres.Migrator.
type schemaMigrator interface {
	Up() (from, to uint, err error)
	Down(steps int) (from, to uint, err error)
	Version() (uint, bool, error)
	Close() error
}

type migrateDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (schemaMigrator, error)
	out     io.Writer
}

func defaultMigrateDeps() migrateDeps {
	return migrateDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (schemaMigrator, error) {
			db, err := postgres.NewConnection(cfg.Database)
			if err != nil {
				return nil, err
			}
			m, err := postgres.NewMigrator(db)
			if err != nil {
				_ = db.Close()
				return nil, err
			}
			return m, nil
		},
		out: os.Stdout,
	}
}

func runMigrate(args []string, deps migrateDeps) error {
	def := defaultMigrateDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	list := fs.Bool("list", false, "print embedded migrations without applying them")
	down := fs.Int("down", 0, "roll back this many migrations instead of applying")
	version := fs.Bool("version", false, "print the applied schema version")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *down < 0 {
		return fmt.Errorf("-down must not be negative")
	}

	if *list {
		names, err := postgres.Migrations()
		if err != nil {
			return err
		}
		for _, name := range names {
			_, _ = fmt.Fprintln(deps.out, name)
		}
		return nil
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	m, err := deps.prepare(deps.loadCfg())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		_, _ = fmt.Fprintf(deps.out, "version %d dirty=%t\n", v, dirty)
		return nil
	case *down > 0:
		from, to, err := m.Down(*down)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		_, _ = fmt.Fprintf(deps.out, "rolled back %d -> %d\n", from, to)
		return nil
	}

	from, to, err := m.Up()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if from == to {
		_, _ = fmt.Fprintf(deps.out, "schema up to date at version %d\n", to)
		return nil
	}
	_, _ = fmt.Fprintf(deps.out, "applied %d -> %d\n", from, to)
	return nil
}

func main() {
	if err := runMigrate(os.Args[1:], defaultMigrateDeps()); err != nil {
		log.Fatal(err)
	}
}
