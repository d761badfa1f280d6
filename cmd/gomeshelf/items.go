package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amaumene/gomeshelf/internal/app"
	"github.com/amaumene/gomeshelf/internal/controllers"
	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/spf13/cobra"
)

const shortIDLength = 8

func newItemsCommand(ctx *commandContext) *cobra.Command {
	var status string
	var mediaType string

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List tracked items, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := models.MediaFilter{
				Status:    models.Status(strings.ToUpper(strings.TrimSpace(status))),
				MediaType: models.MediaType(strings.ToUpper(strings.TrimSpace(mediaType))),
			}

			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				items, err := a.Media.List(cmd.Context(), filter)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No items")
					return nil
				}
				fmt.Fprintln(out, renderItems(items))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only items with this status (BACKLOG, IN_PROGRESS, COMPLETED)")
	cmd.Flags().StringVar(&mediaType, "type", "", "Only items of this type (BOOK, MOVIE, TV_SHOW, VIDEO_GAME)")

	return cmd
}

func renderItems(items []models.MediaItem) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			shortID(item.ID),
			string(item.MediaType),
			item.Title,
			models.StatusLabel(item.MediaType, item.Status),
			formatRating(item.Rating),
			formatProgress(item),
			item.UpdatedAt.Format("2006-01-02"),
		})
	}
	return renderTable(
		[]string{"ID", "Type", "Title", "Status", "Rating", "Progress", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show item counts per shelf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				summary, err := a.Media.Summary(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
				return nil
			})
		},
	}
}

func renderSummary(summary *controllers.LibrarySummary) string {
	rows := make([][]string, 0, len(summary.Types)*len(models.Statuses)+1)
	for _, ts := range summary.Types {
		for _, shelf := range ts.Shelves {
			rows = append(rows, []string{string(ts.MediaType), shelf.Shelf, strconv.Itoa(shelf.Count)})
		}
	}
	rows = append(rows, []string{"", "TOTAL", strconv.Itoa(summary.Total)})
	return renderTable(
		[]string{"Type", "Shelf", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	)
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func formatRating(rating *int) string {
	if rating == nil || *rating == 0 {
		return "-"
	}
	return strings.Repeat("*", *rating)
}

func formatProgress(item models.MediaItem) string {
	if item.MediaType != models.MediaTypeTVShow || item.CurrentSeason == nil {
		return ""
	}
	progress := fmt.Sprintf("S%02d", *item.CurrentSeason)
	if item.CurrentEpisode != nil {
		progress += fmt.Sprintf("E%02d", *item.CurrentEpisode)
	}
	return progress
}
