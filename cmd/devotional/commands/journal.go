// ABOUTME: Journal commands: write, browse, edit, and remove journal entries
// ABOUTME: add, list, show, edit, favorite, rm, stats
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/devotional/internal/app"
	"github.com/harper/devotional/internal/journal"
	"github.com/harper/devotional/internal/models"
)

// NewJournalCmd creates the journal command group
func NewJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Keep a devotional journal",
		Long: `Keep a devotional journal.

Entries can be tagged with a category and linked to a verse from the
catalog. Links are checked when the entry is written.`,
	}

	cmd.AddCommand(newJournalAddCmd())
	cmd.AddCommand(newJournalListCmd())
	cmd.AddCommand(newJournalShowCmd())
	cmd.AddCommand(newJournalEditCmd())
	cmd.AddCommand(newJournalFavoriteCmd())
	cmd.AddCommand(newJournalRmCmd())
	cmd.AddCommand(newJournalStatsCmd())

	return cmd
}

func parseOptionalCategory(s string) (*models.Category, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	c, err := models.ParseCategory(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func printEntry(w io.Writer, e *models.JournalEntry, full bool) {
	tag := ""
	if e.Category != nil {
		tag = " " + mutedStyle.Render("["+e.Category.String()+"]")
	}
	fmt.Fprintf(w, "%s%s%s  %s\n", titleStyle.Render(formatTime(e.CreatedAt)), tag, favoriteMark(e.Favorite), mutedStyle.Render(e.ID))

	body := e.Body
	if !full {
		body = truncate(strings.ReplaceAll(body, "\n", " "), 72)
	}
	fmt.Fprintf(w, "  %s\n", body)
	if full && e.LinkedContentID != "" {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render("linked: "+e.LinkedContentID))
	}
}

func newJournalAddCmd() *cobra.Command {
	var categoryFlag, link, file string

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Write a journal entry",
		Long: `Write a journal entry from an argument, a file, or stdin.

Examples:
  devotional journal add "Felt calmer after reading Psalm 23"
  devotional journal add --category peace --link peace-1 "Still waters"
  devotional journal add --file reflection.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("reading file: %w", err)
				}
				text = string(data)
			case len(args) > 0:
				text = args[0]
			default:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(data)
			}
			text = strings.TrimSpace(text)

			return withApp(cmd, func(a *app.App) error {
				c, err := parseOptionalCategory(categoryFlag)
				if err != nil {
					return err
				}
				e, err := a.Journal.Create(text, c, link)
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), e)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Entry saved: %s\n", okStyle.Render("✓"), e.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Category tag")
	cmd.Flags().StringVar(&link, "link", "", "Content id to link")
	cmd.Flags().StringVar(&file, "file", "", "Read entry from file")

	return cmd
}

func newJournalListCmd() *cobra.Command {
	var categoryFlag, query string
	var favorites bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePositiveInt(limit, "limit"); err != nil {
				return err
			}
			return withApp(cmd, func(a *app.App) error {
				c, err := parseOptionalCategory(categoryFlag)
				if err != nil {
					return err
				}
				entries, err := a.Journal.List(journal.Filter{Category: c, FavoriteOnly: favorites, Query: query})
				if err != nil {
					return err
				}
				if len(entries) > limit {
					entries = entries[:limit]
				}

				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No entries found")
					return nil
				}
				for _, e := range entries {
					printEntry(cmd.OutOrStdout(), e, false)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Only entries with this category")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only favorite entries")
	cmd.Flags().StringVar(&query, "query", "", "Only entries containing this text")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")

	return cmd
}

func newJournalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				e, err := a.Journal.Get(args[0])
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), e)
				}
				printEntry(cmd.OutOrStdout(), e, true)
				return nil
			})
		},
	}
}

func newJournalEditCmd() *cobra.Command {
	var body, categoryFlag string
	var clearCategory bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a journal entry",
		Example: `  devotional journal edit entry_20250101_090000_1a2b3c4d --body "New text"
  devotional journal edit entry_20250101_090000_1a2b3c4d --category hope
  devotional journal edit entry_20250101_090000_1a2b3c4d --clear-category`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bodyChanged := cmd.Flags().Changed("body")
			if !bodyChanged && categoryFlag == "" && !clearCategory {
				return fmt.Errorf("nothing to change: pass --body, --category, or --clear-category")
			}
			if categoryFlag != "" && clearCategory {
				return fmt.Errorf("--category and --clear-category cannot be used together")
			}

			return withApp(cmd, func(a *app.App) error {
				c, err := parseOptionalCategory(categoryFlag)
				if err != nil {
					return err
				}
				var bodyPtr *string
				if bodyChanged {
					bodyPtr = &body
				}

				var e *models.JournalEntry
				if bodyPtr != nil || c != nil {
					if e, err = a.Journal.Update(args[0], bodyPtr, c); err != nil {
						return err
					}
				}
				if clearCategory {
					if e, err = a.Journal.ClearCategory(args[0]); err != nil {
						return err
					}
				}

				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), e)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Entry updated\n", okStyle.Render("✓"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "New body text")
	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "New category tag")
	cmd.Flags().BoolVar(&clearCategory, "clear-category", false, "Remove the category tag")

	return cmd
}

func newJournalFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle favorite on a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				e, err := a.Journal.ToggleFavorite(args[0])
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), e)
				}
				if e.IsFavorite() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s Entry added to favorites\n", okStyle.Render("★"))
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Entry removed from favorites")
				}
				return nil
			})
		},
	}
}

func newJournalRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Permanently delete a journal entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if err := a.Journal.Delete(args[0]); err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Entry deleted")
				return nil
			})
		},
	}
}

func newJournalStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count entries per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				st, err := a.Journal.Stats()
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), st)
				}

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%s %d entries, %d favorites, %d linked\n", titleStyle.Render("Journal:"), st.Total, st.Favorites, st.Linked)
				for _, c := range models.AllCategories() {
					fmt.Fprintf(w, "  %-12s %d\n", c, st.ByCategory[c])
				}
				fmt.Fprintf(w, "  %-12s %d\n", "untagged", st.Untagged)
				return nil
			})
		},
	}
}
