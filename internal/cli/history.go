package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent XP awards",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	entries, err := d.Profile.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	total, err := d.Profile.TotalAwarded(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No XP recorded yet. Run 'lingo session' to finish your first session.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSOURCE\tSTRATEGY\tRANK\tXP\tTOTAL\tLEVEL")
	for _, e := range entries {
		level := fmt.Sprintf("%d", e.Level)
		if e.LeveledUp {
			level += " ↑"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t+%d\t%d\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.Source,
			dash(e.Strategy),
			dash(string(e.Rank)),
			e.Amount,
			e.TotalXP,
			level,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nLifetime XP awarded: %d\n", total)
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
