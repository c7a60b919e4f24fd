package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show level, pools and study streak",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	p := d.Profile
	saved, err := p.LastSaved(cmd.Context())
	if err != nil {
		return err
	}
	lvl := p.Level()
	streak := p.Streak()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Profile  %s\n", p.Key())
	fmt.Fprintf(out, "Level    %d (chapter %d) | %d XP\n", lvl.Level, lvl.Chapter, lvl.XP)
	fmt.Fprintf(out, "         %s\n", levelLine(lvl))
	fmt.Fprintf(out, "Hearts   %s\n", poolLine(p.Hearts()))
	fmt.Fprintf(out, "Stars    %s\n", poolLine(p.Stars()))
	fmt.Fprintf(out, "Streak   %d days (best %d)\n", streak.CurrentDays, streak.LongestDays)
	if saved.IsZero() {
		fmt.Fprintln(out, "Saved    never")
	} else {
		fmt.Fprintf(out, "Saved    %s\n", saved.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
