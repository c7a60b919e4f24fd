package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lingo-quest/lingo/internal/app/profile"
	"github.com/lingo-quest/lingo/internal/domain"
)

func init() {
	xpAddCmd.Flags().StringVar(&xpSource, "source", "manual", "XP source: manual or achievement")
	xpCmd.AddCommand(xpAddCmd)
	rootCmd.AddCommand(xpCmd)

	sessionCmd.Flags().StringVar(&sessionStrategy, "strategy", "ranked", "XP strategy: ranked or legacy")
	sessionCmd.Flags().StringVar(&sessionRank, "rank", "normal", "Question rank (ranked strategy)")
	sessionCmd.Flags().BoolVar(&sessionCombo, "combo", false, "Session qualifies for the bonus range")
	sessionCmd.Flags().StringVar(&sessionAnswers, "answers", "", "Answers as 1/0 per question, e.g. 1101")
	sessionCmd.Flags().StringVar(&sessionDifficulty, "difficulty", "", "Question difficulty (legacy strategy)")
	sessionCmd.Flags().StringVar(&sessionCategory, "category", "", "Question skill field (legacy strategy)")
	rootCmd.AddCommand(sessionCmd)
}

var (
	xpSource string

	sessionStrategy   string
	sessionRank       string
	sessionCombo      bool
	sessionAnswers    string
	sessionDifficulty string
	sessionCategory   string
)

var xpCmd = &cobra.Command{
	Use:   "xp",
	Short: "Grant experience outside of a session",
}

var xpAddCmd = &cobra.Command{
	Use:   "add <amount>",
	Short: "Add XP to the profile",
	Example: `  lingo xp add 50
  lingo xp add 200 --source achievement`,
	Args: cobra.ExactArgs(1),
	RunE: runXPAdd,
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Record a finished learning session and award its XP",
	Example: `  lingo session --rank epic --answers 1111
  lingo session --strategy legacy --difficulty hard --category grammar --answers 10110`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func runXPAdd(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("amount %q: %w", args[0], err)
	}

	var source domain.XPSource
	switch strings.ToLower(xpSource) {
	case "", "manual":
		source = domain.XPManual
	case "achievement":
		source = domain.XPAchievement
	default:
		return fmt.Errorf("unknown source %q (manual, achievement)", xpSource)
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	award, err := d.Profile.AddXP(cmd.Context(), amount, source)
	if err != nil {
		return err
	}
	printAward(cmd.OutOrStdout(), award)
	return nil
}

func runSession(cmd *cobra.Command, args []string) error {
	answers, err := parseAnswers(sessionAnswers,
		domain.Difficulty(strings.ToLower(sessionDifficulty)),
		domain.SkillField(strings.ToLower(sessionCategory)))
	if err != nil {
		return err
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	award, err := d.Profile.CompleteSession(cmd.Context(), profile.SessionReport{
		Strategy:      strings.ToLower(sessionStrategy),
		Rank:          domain.Rank(strings.ToLower(sessionRank)),
		ComboEligible: sessionCombo,
		Answers:       answers,
	})
	if err != nil {
		return err
	}
	printAward(cmd.OutOrStdout(), award)
	return nil
}

func printAward(w io.Writer, a profile.XPAward) {
	fmt.Fprintf(w, "+%d XP (total %d)\n", a.XPAwarded, a.Level.XP)
	if a.LevelUp.LeveledUp {
		fmt.Fprintf(w, "Level up! Now level %d (chapter %d)\n", a.Level.Level, a.Level.Chapter)
	}
	fmt.Fprintf(w, "%s\n", levelLine(a.Level))
	if a.Streak != nil {
		fmt.Fprintf(w, "Streak: %d days\n", a.Streak.CurrentDays)
	}
}
