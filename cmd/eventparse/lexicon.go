package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kostroma329/Calendar-bot/internal/config"
	"github.com/Kostroma329/Calendar-bot/lexicon"
)

func newLexiconCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspect knowledge tables",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print the effective tables as YAML",
		Long: `Print the tables the engine would use: the file named by
engine.lexicon_path, or the built-in Russian tables. The output is a valid
lexicon file and a starting point for custom tables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, err := a.cfg.LoadTables()
			if err != nil {
				return err
			}
			b, err := tables.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Validate a lexicon file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.ReadFile(args[0])
			if err != nil {
				return err
			}
			tables, err := lexicon.Parse(content)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d activity forms, %d venue forms, %d months, %d relative days, %d weekdays, %d day parts)\n",
				args[0], tables.Activities.Len(), tables.Venues.Len(), len(tables.Months),
				len(tables.RelativeDays), len(tables.Weekdays), len(tables.DayParts))
			return nil
		},
	})
	return cmd
}
