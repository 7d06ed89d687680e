package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/migrations"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/migrator"
)

// Использование:
//
//	migrate [-config config.toml] up
//	migrate down
//	migrate force <version>
//	migrate version
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithWriter(os.Stdout, cfg.Logs.Level)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	m, err := migrator.New(db, migrations.FS)
	if err != nil {
		log.Fatal("Failed to create migrator: %v", err)
	}
	defer m.Close()

	cmd := "up"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	switch cmd {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migrate up failed: %v", err)
		}
	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migrate down failed: %v", err)
		}
	case "force":
		if flag.NArg() < 2 {
			log.Fatal("Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			log.Fatal("Invalid version %q: %v", flag.Arg(1), err)
		}
		if err := m.Force(version); err != nil {
			log.Fatal("Migrate force failed: %v", err)
		}
	case "version":
	default:
		log.Fatal("Unknown command %q (up|down|force|version)", cmd)
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatal("Failed to read schema version: %v", err)
	}
	log.Info("Schema version=%d dirty=%t", version, dirty)
}
