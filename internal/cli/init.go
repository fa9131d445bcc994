package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scoreforum/phorum/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the forum database",
	Long: `Creates an empty forum database at the configured location.

The location comes from --db, the config file, or the default path under
the user's data directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := getDatabasePath()

		if _, err := os.Stat(path); err == nil {
			return handleErrorMsg("db_exists",
				fmt.Sprintf("database already exists: %s", path),
				"Remove it first if you want to start over")
		}

		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return handleError("mkdir_failed", fmt.Errorf("failed to create %s: %w", dir, err), "")
			}
		}

		s, err := openStore()
		if err != nil {
			return handleError("open_failed", err, "")
		}
		defer s.Close()

		if isJSONOutput() {
			outputSuccess(map[string]string{"database": path}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Created forum database at %s", path))
		fmt.Println(ui.Hint("Seed it with 'phorum seed <fixtures.yaml>'"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
