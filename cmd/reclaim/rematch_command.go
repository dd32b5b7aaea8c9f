package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reclaim/internal/items"
)

func newRematchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rematch",
		Short: "Re-scan all searching lost items against the found pool",
		Long: "Runs the matching scan for every lost item still in the searching state.\n" +
			"Only one sweep runs at a time; a second invocation exits immediately.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline) error {
				lockPath := filepath.Join(p.cfg.Paths.LogDir, "rematch.lock")
				lock := flock.New(lockPath)
				ok, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire rematch lock: %w", err)
				}
				if !ok {
					return errors.New("another rematch sweep is already running")
				}
				defer lock.Unlock()

				searching, err := p.store.ListLostByStatus(cmd.Context(), items.LostStatusSearching)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(searching) == 0 {
					fmt.Fprintln(out, "No lost items waiting for matches")
					return nil
				}

				var swept, matched, failed int
				for _, lost := range searching {
					result, err := p.engine.FindMatches(cmd.Context(), lost)
					if err != nil {
						failed++
						fmt.Fprintf(out, "Scan failed for %s: %v\n", lost.ID, err)
						continue
					}
					swept++
					if len(result.Created) == 0 {
						continue
					}
					matched++
					fmt.Fprintf(out, "%s: %d new match(es)\n", lost.ID, len(result.Created))
					if err := p.notifier.NotifyMatchesFound(cmd.Context(), lost, result.Created); err != nil {
						fmt.Fprintf(out, "Notification failed for %s: %v\n", lost.ID, err)
					}
				}

				fmt.Fprintf(out, "Swept %d item(s): %d with new matches, %d failed\n", swept, matched, failed)
				if failed > 0 {
					return fmt.Errorf("%d scan(s) failed", failed)
				}
				return nil
			})
		},
	}
}
