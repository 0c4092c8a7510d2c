package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/bookstore/internal/config"
)

var (
	// Global flags; zero values defer to the environment.
	port     int
	logLevel string
	seedFile string
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Online bookstore storefront",
	Long: `storefront serves the bookstore API: catalog browsing and search,
per-session carts and checkout, accounts, the admin dashboard and the
reading-assistant chat.

Configuration comes from the environment (and .env when present); flags
override the matching variables.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "HTTP port (overrides SERVER_PORT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&seedFile, "seed", "", "YAML seed file (overrides SEED_FILE)")
}

// loadConfig applies flag overrides on top of the environment.
func loadConfig() config.Config {
	cfg := config.Load()
	if port > 0 {
		cfg.ServerPort = port
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if seedFile != "" {
		cfg.SeedFile = seedFile
	}
	return cfg
}
