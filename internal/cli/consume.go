package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lingo-quest/lingo/internal/app/profile"
	"github.com/lingo-quest/lingo/internal/domain"
)

func init() {
	rootCmd.AddCommand(consumeCmd)
}

var consumeCmd = &cobra.Command{
	Use:       "consume <heart|star>",
	Short:     "Spend one heart or star",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"heart", "star"},
	RunE:      runConsume,
}

func runConsume(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	var (
		status profile.PoolStatus
		label  string
	)
	switch args[0] {
	case "heart", "hearts":
		label = "Hearts"
		status, err = d.Profile.ConsumeHeart(cmd.Context())
	case "star", "stars":
		label = "Stars"
		status, err = d.Profile.ConsumeStar(cmd.Context())
	default:
		return fmt.Errorf("unknown pool %q (heart, star)", args[0])
	}

	out := cmd.OutOrStdout()
	if errors.Is(err, domain.ErrInsufficientHearts) || errors.Is(err, domain.ErrInsufficientStars) {
		fmt.Fprintf(out, "%s %s\n", label, poolLine(status))
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s\n", label, poolLine(status))
	return nil
}
