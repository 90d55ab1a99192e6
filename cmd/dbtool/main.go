package main

import (
	"context"
	"database/sql"
	"delivery-area-service/internal/adapters/repositories"
	"delivery-area-service/internal/config"
	"delivery-area-service/internal/dataset"
	"delivery-area-service/internal/platform/db"
	"delivery-area-service/internal/platform/logger"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const usage = `usage: dbtool <command> [flags]

commands:
  init                 create the areas schema
  seed                 create the schema and load the embedded dataset
  export -out FILE     write the stored areas in dataset format ("-" for stdout)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		logger.L().Error("dbtool failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}

	if _, err := config.LoadDotEnv(); err != nil {
		return err
	}
	log := logger.Setup(config.Get("LOG_LEVEL", "info"), config.Get("LOG_FORMAT", "text"))

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	switch cmd := args[0]; cmd {
	case "init":
		log.Info("Initializing database schema...")
		if err := repositories.InitSchema(ctx, conn); err != nil {
			return err
		}
		log.Info("Schema ready.")
		return nil

	case "seed":
		return initAndSeed(ctx, conn)

	case "export":
		fs := flag.NewFlagSet("export", flag.ContinueOnError)
		out := fs.String("out", "-", "output file, - for stdout")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := export(ctx, conn, *out); err != nil {
			return err
		}
		log.Info("Export complete.", "out", *out)
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	d, err := dataset.Load()
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if err := repositories.SeedFromDataset(ctx, conn, d); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	logger.L().Info("Seeding complete.", "districts", len(d), "areas", len(d.Flatten()))
	return nil
}

// export reads the stored areas back and writes them in dataset format,
// atomically replacing path when it is a file.
func export(ctx context.Context, conn *sql.DB, path string) error {
	areas, err := repositories.NewSQLAreaRepository(conn).ListAreas(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	d := dataset.Group(areas)

	if path == "-" {
		return dataset.Encode(os.Stdout, d)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".areas-*.json")
	if err != nil {
		return fmt.Errorf("export: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeAndClose(tmp, d); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export: replace %q: %w", path, err)
	}
	return nil
}

func writeAndClose(f *os.File, d dataset.Districts) error {
	if err := dataset.Encode(f, d); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
