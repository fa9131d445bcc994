// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scoreforum/phorum/internal/config"
	"github.com/scoreforum/phorum/internal/ui"
)

var (
	// Global flags
	configPath string
	dbPathFlag string

	// Resolved values
	resolvedDBPath string
	cfg            *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "phorum",
	Short: "Phorum - a small text forum with searchable rooms",
	Long: `Phorum is a small text forum kept in a single sqlite database.

Messages live in rooms, rooms can be password protected, and everything
is reachable through diacritics-insensitive full-text search.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "version", "completion":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = loadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ui.ConfigureTheme(cfg.UI.Accent)

		// Resolve database path: explicit flag > config > default location
		if dbPathFlag != "" {
			resolvedDBPath = dbPathFlag
		} else {
			resolvedDBPath = cfg.DatabasePath()
		}

		if cmd.Name() == "init" {
			return nil
		}
		if _, err := os.Stat(resolvedDBPath); os.IsNotExist(err) {
			return fmt.Errorf("database not found: %s\n\nRun 'phorum init' to create it", resolvedDBPath)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Path to the forum database")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	return cfg
}

// getDatabasePath returns the resolved database path.
func getDatabasePath() string {
	return resolvedDBPath
}

func loadGlobalConfig() (*config.Config, error) {
	if strings.TrimSpace(configPath) != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}
