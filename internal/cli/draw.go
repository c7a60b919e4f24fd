package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	drawCmd.Flags().IntVarP(&drawCount, "count", "n", 1, "Number of questions to draw")
	rootCmd.AddCommand(drawCmd)
}

var drawCount int

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw the rank and skill field of the next question(s)",
	Args:  cobra.NoArgs,
	RunE:  runDraw,
}

func runDraw(cmd *cobra.Command, args []string) error {
	if drawCount < 1 {
		return fmt.Errorf("count must be at least 1, got %d", drawCount)
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tRANK\tFIELD\tCHAPTER")
	for i := range drawCount {
		q := d.Profile.NextQuestion()
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i+1, q.Rank.DisplayName(), q.SkillField, q.Chapter)
	}
	return w.Flush()
}
