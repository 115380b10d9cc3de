// ABOUTME: Content commands: browse the devotional catalog and manage favorites
// ABOUTME: list, show, favorite
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/devotional/internal/app"
	"github.com/harper/devotional/internal/models"
)

// NewContentCmd creates the content command group
func NewContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Browse devotional content",
		Long: `Browse the built-in devotional catalog.

Every item is a verse with its reference and a short explanation,
tagged with one of: comfort, peace, forgiveness, hope, gratitude,
strength, love.`,
	}

	cmd.AddCommand(newContentListCmd())
	cmd.AddCommand(newContentShowCmd())
	cmd.AddCommand(newContentFavoriteCmd())

	return cmd
}

func newContentListCmd() *cobra.Command {
	var categoryFlag string
	var favorites bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content, optionally by category",
		Example: `  devotional content list
  devotional content list --category hope
  devotional content list --favorites`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				var items []models.ContentItem
				if categoryFlag != "" {
					c, err := models.ParseCategory(categoryFlag)
					if err != nil {
						return err
					}
					items = a.Catalog.ListByCategory(c)
				} else if favorites {
					items = a.Catalog.Favorites()
				} else {
					items = a.Catalog.All()
				}
				if favorites && categoryFlag != "" {
					items = onlyFavorites(items)
				}

				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), items)
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No content found")
					return nil
				}
				for i, item := range items {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					printContentItem(cmd.OutOrStdout(), item, false)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Only show this category")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only show favorites")

	return cmd
}

func onlyFavorites(items []models.ContentItem) []models.ContentItem {
	var out []models.ContentItem
	for _, it := range items {
		if it.IsFavorite() {
			out = append(out, it)
		}
	}
	return out
}

func newContentShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one content item in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				item, err := a.Catalog.Get(args[0])
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), item)
				}
				printContentItem(cmd.OutOrStdout(), item, true)
				return nil
			})
		},
	}
}

func newContentFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle favorite on a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				item, err := a.Catalog.ToggleFavorite(args[0])
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), item)
				}
				if item.IsFavorite() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s added to favorites\n", okStyle.Render("★"), item.Reference)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s removed from favorites\n", item.Reference)
				}
				return nil
			})
		},
	}
}
