package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/lockedin/internal/cli"
	"github.com/alexanderramin/lockedin/internal/config"
	"github.com/alexanderramin/lockedin/internal/db"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	app := &cli.App{
		DB:     database,
		Config: cfg,
		Logger: cfg.NewLogger(os.Stderr),
	}

	// Detect interactive terminal for the run view and schedule forms.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
