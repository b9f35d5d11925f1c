package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/nahidhasan/picklist-export/internal/cli"
	"github.com/nahidhasan/picklist-export/internal/config"
	"github.com/nahidhasan/picklist-export/internal/logging"
)

func main() {
	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if err := cli.Execute(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
