package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importantCmd = &cobra.Command{
	Use:   "important [date]",
	Short: "Toggle a day's importance flag",
	Long: `Toggle the importance flag on a day. Without a date, today is toggled.

Examples:
  calendarly important
  calendarly important 2026-03-14
  calendarly important --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImportant,
}

var importantList bool

func init() {
	importantCmd.Flags().BoolVarP(&importantList, "list", "l", false, "List flagged days")
}

func runImportant(cmd *cobra.Command, args []string) error {
	db, st, err := openData()
	if err != nil {
		return err
	}
	defer db.Close()

	if importantList {
		days := st.ImportantDays()
		if len(days) == 0 {
			fmt.Println("No important days flagged.")
			return nil
		}
		for _, day := range days {
			fmt.Printf("  ★ %s\n", day)
		}
		return nil
	}

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	day, err := resolveDay(arg)
	if err != nil {
		return err
	}

	flagged, err := st.ToggleImportant(day)
	if err != nil {
		return err
	}
	if err := db.Save(st); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	if flagged {
		fmt.Printf("★ %s flagged as important\n", day)
	} else {
		fmt.Printf("✓ %s no longer important\n", day)
	}
	pushAfterChange(db, st)
	return nil
}
