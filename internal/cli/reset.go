package cli

import (
	"fmt"

	"github.com/existflow/calendarly/internal/config"
	"github.com/existflow/calendarly/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all local data",
	Long: `Delete every note, event, importance flag and preference from the
local store. This does not touch the server copy.`,
	RunE: runReset,
}

var resetForce bool

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	if cfg.ConfirmReset && !resetForce {
		answer, err := readLine("Delete ALL local data? This cannot be undone. (yes/no): ")
		if err != nil {
			return err
		}
		if answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	db, err := store.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	if err := db.Reset(); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}

	fmt.Println("✓ All local data deleted")
	return nil
}
