package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"reclaim/internal/items"
)

func printItem(out io.Writer, item *items.Item) {
	if item == nil {
		return
	}
	fmt.Fprintf(out, "Stored %s item %s\n", item.Kind, item.ID)
	if desc := strings.TrimSpace(item.Description); desc != "" {
		fmt.Fprintf(out, "Description: %s\n", desc)
	}
}

func renderMatchTable(matches []*items.MatchRecord, styled bool) string {
	rows := make([][]string, 0, len(matches))
	for _, match := range matches {
		rows = append(rows, []string{
			fmt.Sprintf("%d", match.ID),
			match.LostItemID,
			match.FoundItemID,
			fmt.Sprintf("%.2f", match.TextSimilarity),
			fmt.Sprintf("%d%%", match.ImageSimilarity),
			string(match.MatchStatus),
			formatTime(match.DiscoveredAt),
		})
	}
	return renderTable(
		[]string{"ID", "Lost Item", "Found Item", "Text", "Image", "Status", "Discovered"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		styled,
	)
}

func renderItemTable(list []*items.Item, styled bool) string {
	rows := make([][]string, 0, len(list))
	for _, item := range list {
		status := ""
		switch item.Kind {
		case items.KindLost:
			status = string(item.LostStatus)
		case items.KindFound:
			status = string(item.FoundStatus)
		}
		rows = append(rows, []string{
			item.ID,
			item.OwnerID,
			item.Attributes.Category,
			item.Attributes.Location,
			status,
			formatTime(item.CreatedAt),
		})
	}
	return renderTable(
		[]string{"ID", "Owner", "Category", "Location", "Status", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
		styled,
	)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Local().Format("2006-01-02 15:04")
}
