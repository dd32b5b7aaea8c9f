package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reclaim/internal/items"
)

func newItemsCommand(ctx *commandContext) *cobra.Command {
	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "List reported items",
	}

	itemsCmd.AddCommand(&cobra.Command{
		Use:   "lost",
		Short: "List reported lost items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline) error {
				list, err := p.store.ListLostItems(cmd.Context())
				if err != nil {
					return err
				}
				return printItemList(cmd, list, "No lost items reported")
			})
		},
	})

	itemsCmd.AddCommand(&cobra.Command{
		Use:   "found",
		Short: "List reported found items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(func(p *pipeline) error {
				list, err := p.store.ListFoundItems(cmd.Context())
				if err != nil {
					return err
				}
				return printItemList(cmd, list, "No found items reported")
			})
		},
	})

	return itemsCmd
}

func printItemList(cmd *cobra.Command, list []*items.Item, emptyMessage string) error {
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, emptyMessage)
		return nil
	}
	fmt.Fprintln(out, renderItemTable(list, isTerminal(out)))
	return nil
}
