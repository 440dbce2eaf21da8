package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"storefront-be/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	dir := flag.String("dir", "./migrations", "migrations directory")
	flag.Parse()

	cfg := config.LoadConfig()

	m, err := migrate.New(sourceURL(*dir), databaseURL(cfg))
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	defer m.Close()

	if err := run(m, *mode); err != nil {
		log.Fatal(err)
	}

	log.Printf("migrations %s complete", *mode)
}

func run(m *migrate.Migrate, mode string) error {
	var err error
	switch mode {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	default:
		return fmt.Errorf("unknown mode %q, want up or down", mode)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", mode, err)
	}
	return nil
}

func sourceURL(dir string) string {
	return "file://" + dir
}

func databaseURL(cfg *config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
}
