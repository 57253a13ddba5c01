package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all data as JSON",
	Long: `Write the full data set as a JSON snapshot. Without a file argument
the snapshot goes to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a JSON snapshot",
	Long: `Replace all local data with a previously exported snapshot. A
malformed file leaves the existing data untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runExport(cmd *cobra.Command, args []string) error {
	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := st.Export()
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if len(args) == 0 {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(args[0], data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[0], err)
	}
	fmt.Printf("✓ Exported to %s\n", args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := st.Import(data); err != nil {
		return fmt.Errorf("import rejected: %w", err)
	}
	if err := db.Save(st); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	fmt.Printf("✓ Imported %s\n", args[0])
	pushAfterChange(db, st)
	return nil
}
