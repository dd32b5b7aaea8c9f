package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline counts and configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline) error {
				stats, err := p.store.CollectStats(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := isTerminal(out)

				for _, line := range renderSectionHeader("Items", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Lost items", statusInfo, fmt.Sprintf("%d total", stats.LostTotal), colorize))
				fmt.Fprintln(out, renderStatusLine("Still searching", searchingKind(stats.LostSearching), fmt.Sprintf("%d", stats.LostSearching), colorize))
				fmt.Fprintln(out, renderStatusLine("With matches", statusOK, fmt.Sprintf("%d", stats.LostMatchFound), colorize))
				fmt.Fprintln(out, renderStatusLine("Found items", statusInfo, fmt.Sprintf("%d total, %d available", stats.FoundTotal, stats.FoundAvailable), colorize))
				fmt.Fprintln(out, renderStatusLine("Match records", statusInfo, fmt.Sprintf("%d", stats.Matches), colorize))

				for _, line := range renderSectionHeader("Matching", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Text threshold", statusInfo, fmt.Sprintf("%.2f", p.cfg.Matching.TextThreshold), colorize))
				fmt.Fprintln(out, renderStatusLine("Image threshold", statusInfo, fmt.Sprintf("%d%%", p.cfg.Matching.ImageThreshold), colorize))
				fmt.Fprintln(out, renderStatusLine("Text backend", statusInfo, p.cfg.Similarity.TextBackend, colorize))
				fmt.Fprintln(out, renderStatusLine("Image backend", statusInfo, p.cfg.Similarity.ImageBackend, colorize))
				return nil
			})
		},
	}
}

func searchingKind(count int) statusKind {
	if count > 0 {
		return statusWarn
	}
	return statusOK
}
