package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lingo-quest/lingo/internal/domain"
)

func init() {
	allocationCmd.AddCommand(allocationShowCmd, allocationSetCmd, allocationTemplateCmd, allocationTemplatesCmd)
	rootCmd.AddCommand(allocationCmd)
}

var allocationCmd = &cobra.Command{
	Use:     "allocation",
	Aliases: []string{"alloc"},
	Short:   "Inspect or change the status allocation (30 points over six skills)",
}

var allocationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current allocation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()
		return printAllocation(cmd.OutOrStdout(), d.Profile.Allocation())
	},
}

var allocationSetCmd = &cobra.Command{
	Use:     "set <listening> <reading> <writing> <grammar> <idioms> <vocabulary>",
	Short:   "Set all six values; they must sum to 30",
	Example: "  lingo allocation set 10 5 5 5 0 5",
	Args:    cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := parseAllocation(args)
		if err != nil {
			return err
		}
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.Profile.UpdateAllocation(cmd.Context(), a); err != nil {
			return err
		}
		return printAllocation(cmd.OutOrStdout(), d.Profile.Allocation())
	},
}

var allocationTemplateCmd = &cobra.Command{
	Use:   "template <name>",
	Short: "Apply a named preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()
		a, err := d.Profile.ApplyTemplate(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("%w: %q", err, args[0])
		}
		return printAllocation(cmd.OutOrStdout(), a)
	},
}

var allocationTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the named presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		templates := d.Profile.Templates()
		names := make([]string, 0, len(templates))
		for name := range templates {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLIS\tREA\tWRI\tGRA\tIDI\tVOC")
		for _, name := range names {
			a := templates[name]
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
				name, a.Listening, a.Reading, a.Writing, a.Grammar, a.Idioms, a.Vocabulary)
		}
		return w.Flush()
	},
}

func printAllocation(out io.Writer, a domain.StatusAllocation) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := []struct {
		field domain.SkillField
		value int
	}{
		{domain.FieldListening, a.Listening},
		{domain.FieldReading, a.Reading},
		{domain.FieldWriting, a.Writing},
		{domain.FieldGrammar, a.Grammar},
		{domain.FieldIdioms, a.Idioms},
		{domain.FieldVocabulary, a.Vocabulary},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\n", r.field, r.value)
	}
	return w.Flush()
}
