package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reclaim/internal/intake"
	"reclaim/internal/items"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Report a lost or found item",
	}

	reportCmd.AddCommand(newReportLostCommand(ctx))
	reportCmd.AddCommand(newReportFoundCommand(ctx))

	return reportCmd
}

type reportFlags struct {
	owner     string
	category  string
	location  string
	color     string
	brand     string
	condition string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.owner, "owner", "", "Reporter identifier")
	cmd.Flags().StringVar(&f.category, "category", "", "Item category, e.g. wallet")
	cmd.Flags().StringVar(&f.location, "location", "", "Where the item was lost or found")
	cmd.Flags().StringVar(&f.color, "color", "", "Item color")
	cmd.Flags().StringVar(&f.brand, "brand", "", "Item brand")
	cmd.Flags().StringVar(&f.condition, "condition", "", "Item condition")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("location")
}

func (f *reportFlags) submission(imagePath string) (intake.Submission, error) {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return intake.Submission{}, fmt.Errorf("read image %s: %w", imagePath, err)
	}
	return intake.Submission{
		OwnerID: f.owner,
		Attributes: items.Attributes{
			Category:  f.category,
			Color:     f.color,
			Brand:     f.brand,
			Condition: f.condition,
			Location:  f.location,
		},
		Image: image,
	}, nil
}

func newReportLostCommand(ctx *commandContext) *cobra.Command {
	flags := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "lost <image-path>",
		Short: "Report a lost item and scan for matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := flags.submission(args[0])
			if err != nil {
				return err
			}
			return ctx.withPipeline(func(p *pipeline) error {
				result, err := p.coordinator.SubmitLost(cmd.Context(), sub)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printItem(out, result.Item)
				if result.MatchingErr != nil {
					fmt.Fprintf(out, "Item stored, but the matching scan failed: %v\n", result.MatchingErr)
					fmt.Fprintln(out, "Run `reclaim rematch` to retry once the issue is resolved.")
					return nil
				}
				if len(result.Matches) == 0 {
					fmt.Fprintln(out, "No matches yet. New found reports are compared automatically by `reclaim rematch`.")
					return nil
				}
				fmt.Fprintf(out, "%d potential match(es) found:\n", len(result.Matches))
				fmt.Fprintln(out, renderMatchTable(result.Matches, isTerminal(out)))
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newReportFoundCommand(ctx *commandContext) *cobra.Command {
	flags := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "found <image-path>",
		Short: "Report a found item into the candidate pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := flags.submission(args[0])
			if err != nil {
				return err
			}
			return ctx.withPipeline(func(p *pipeline) error {
				result, err := p.coordinator.SubmitFound(cmd.Context(), sub)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printItem(out, result.Item)
				fmt.Fprintln(out, "The item is now available to matching scans.")
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}
