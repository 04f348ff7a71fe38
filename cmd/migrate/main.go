package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/popstats/backend/internal/infrastructure/config"
	"github.com/popstats/backend/internal/infrastructure/logger"
	"github.com/popstats/backend/internal/infrastructure/migration"
	"github.com/popstats/backend/internal/infrastructure/persistence"
)

const defaultMigrationsPath = "migrations"

func main() {
	// Parse flags
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "Root of the per-dialect migration directories (create only)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	// create writes files only and needs no configuration
	if command == "create" {
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		created, err := migration.CreateMigration(migrationsPath, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		for _, mf := range created {
			log.Info("Migration created",
				zap.String("driver", mf.Driver),
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	driver := cfg.Database.Driver

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("driver", driver),
	)

	switch command {
	case "list":
		names, err := migration.ListMigrations(driver)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		log.Info("Embedded migrations", zap.Int("count", len(names)))
		for _, n := range names {
			fmt.Println("  -", n)
		}
		return

	case "seed":
		if err := seed(&cfg.Database, log); err != nil {
			log.Fatal("Seeding failed", zap.Error(err))
		}
		return
	}

	db, err := openDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	// The migrator owns db from here on
	m, err := migration.New(db, driver, log)
	if err != nil {
		_ = db.Close()
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// openDB opens a database/sql handle for the configured driver
func openDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case persistence.DriverSQLite:
		return sql.Open("sqlite3", cfg.DSN)
	case persistence.DriverPostgres:
		return sql.Open("postgres", cfg.ConnectionString())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// seed loads the demo hierarchy unless the store already has countries
func seed(cfg *config.DatabaseConfig, log *zap.Logger) error {
	db, err := persistence.NewDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	seeded, err := persistence.NewSeeder(db.DB).Seed(context.Background())
	if err != nil {
		return err
	}
	if !seeded {
		log.Info("Location store already has data, nothing seeded")
		return nil
	}
	log.Info("Demo locations seeded")
	return nil
}

func printUsage() {
	fmt.Println(`popstats database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  version               Show current migration version
  seed                  Insert the demo country/state/city hierarchy
  list                  List the embedded migrations for the configured driver
  create <name> [desc]  Create a new migration pair for every driver

Flags:
  -path string          Migrations root for create (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  POPSTATS_DATABASE_DRIVER, POPSTATS_DATABASE_DSN, POPSTATS_DATABASE_HOST, ...

Examples:
  # Create the schema in the configured database
  migrate up

  # Load demo data
  migrate seed

  # Check current version
  migrate version`)
}
