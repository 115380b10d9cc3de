// ABOUTME: Output helpers: format resolution, JSON printing, styled text, and friendly errors
// ABOUTME: auto prints text on a terminal and JSON when piped
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/harper/devotional/internal/app"
	"github.com/harper/devotional/internal/models"
)

const (
	formatAuto = "auto"
	formatJSON = "json"
	formatText = "text"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	referenceStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	verseStyle     = lipgloss.NewStyle().Italic(true)
	mutedStyle     = lipgloss.NewStyle().Faint(true)
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// wantJSON resolves --format against the command's output writer
func wantJSON(cmd *cobra.Command) bool {
	switch format {
	case formatJSON:
		return true
	case formatText:
		return false
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return !term.IsTerminal(int(f.Fd()))
	}
	return false
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// friendly wraps an engine error with a gentle message while keeping it matchable
type friendly struct {
	err error
}

func (f friendly) Error() string {
	return app.FriendlyMessage(f.err)
}

func (f friendly) Unwrap() error {
	return f.err
}

// friendlyError maps known engine errors to their gentle message; other errors pass through
func friendlyError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		models.ErrNotFound,
		models.ErrNoContentAvailable,
		models.ErrOutOfOrderCompletion,
		models.ErrPlanAlreadyCompleted,
		models.ErrAlreadyStarted,
		models.ErrPlanExhausted,
		models.ErrInvalidCategory,
		models.ErrEmptyBody,
		models.ErrInvalidLink,
	} {
		if errors.Is(err, known) {
			return friendly{err: err}
		}
	}
	return err
}

func favoriteMark(f models.Favorite) string {
	if f.IsFavorite() {
		return " ★"
	}
	return ""
}

func printContentItem(w io.Writer, item models.ContentItem, full bool) {
	fmt.Fprintf(w, "%s  %s %s%s\n",
		referenceStyle.Render(item.Reference),
		titleStyle.Render(item.Title),
		mutedStyle.Render("["+item.Category.String()+"]"),
		favoriteMark(item.Favorite),
	)
	fmt.Fprintf(w, "  %s\n", verseStyle.Render(`"`+item.Verse+`"`))
	if full && item.Explanation != "" {
		fmt.Fprintf(w, "  %s\n", item.Explanation)
	}
	fmt.Fprintf(w, "  %s\n", mutedStyle.Render("id: "+item.ID))
}
