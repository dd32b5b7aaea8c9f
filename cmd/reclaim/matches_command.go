package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newMatchesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "matches <lost-item-id>",
		Short: "List match records for a lost item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return fmt.Errorf("lost item id is required")
			}
			return ctx.withPipeline(func(p *pipeline) error {
				if _, err := p.store.GetLostItem(cmd.Context(), id); err != nil {
					return err
				}
				matches, err := p.store.MatchesForLostItem(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(matches) == 0 {
					fmt.Fprintf(out, "No matches recorded for %s\n", id)
					return nil
				}
				fmt.Fprintln(out, renderMatchTable(matches, isTerminal(out)))
				return nil
			})
		},
	}
}
