package cli

import (
	"fmt"

	"github.com/existflow/calendarly/internal/shell"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change desktop integration settings",
	RunE:  runConfigShow,
}

var configAutostartCmd = &cobra.Command{
	Use:   "autostart [on|off]",
	Short: "Launch the app at login",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigAutostart,
}

func init() {
	configCmd.AddCommand(configAutostartCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	sh := shell.Detect()

	dataDir, err := sh.DataDir()
	if err != nil {
		dataDir = "(unavailable)"
	}
	autostart := "off"
	if sh.AutostartEnabled() {
		autostart = "on"
	}

	fmt.Printf("Data directory: %s\n", dataDir)
	fmt.Printf("Autostart:      %s\n", autostart)
	return nil
}

func runConfigAutostart(cmd *cobra.Command, args []string) error {
	var enabled bool
	switch args[0] {
	case "on":
		enabled = true
	case "off":
		enabled = false
	default:
		return fmt.Errorf("expected 'on' or 'off', got %q", args[0])
	}

	if err := shell.Detect().SetAutostart(enabled); err != nil {
		return err
	}
	if enabled {
		fmt.Println("✓ Autostart enabled")
	} else {
		fmt.Println("✓ Autostart disabled")
	}
	return nil
}
