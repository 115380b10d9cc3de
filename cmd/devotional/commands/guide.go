// ABOUTME: Guide command recommends verses for how the user feels
// ABOUTME: Optionally saves the conversation so it can be continued later
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/devotional/internal/app"
	"github.com/harper/devotional/internal/guidance"
	"github.com/harper/devotional/internal/matcher"
	"github.com/harper/devotional/internal/models"
)

// NewGuideCmd creates the guide command
func NewGuideCmd() *cobra.Command {
	var (
		mood      string
		concern   string
		tone      string
		say       string
		save      bool
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Get a verse for how you're feeling",
		Long: `Get devotional guidance for your mood and concern.

Describe how you're doing and the guide recommends verses from the
catalog, with a short reply in the tone you prefer (encouraging,
direct, or gentle). Tone changes the wording, never the verses.

If OPENAI_API_KEY is set, the reply is reworded by the model; the
scripture reference is always kept as written.`,
		Example: `  devotional guide --mood sad --concern loss
  devotional guide --mood anxious --tone gentle
  devotional guide --say "I can't stop worrying about tomorrow" --save
  devotional guide --session session_20250101_090000_1a2b3c4d --say "thank you"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				var s *guidance.Session
				if sessionID != "" {
					loaded, err := a.LoadSession(sessionID)
					if err != nil {
						return err
					}
					s = loaded
				} else {
					s = a.NewSession()
				}

				profile := models.UserProfile{Mood: mood, Concern: concern, Tone: tone}
				reply, err := s.Ask(cmd.Context(), profile, say)
				if err != nil {
					return err
				}

				if save || sessionID != "" {
					if err := s.Save(a.KV); err != nil {
						return err
					}
				}

				if wantJSON(cmd) {
					out := map[string]interface{}{
						"reply":           reply.Message.Text,
						"recommendations": reply.Result.Recommendations,
						"matched":         reply.Result.Matched,
						"fallback":        reply.Result.Fallback,
					}
					if save || sessionID != "" {
						out["session_id"] = s.ID()
					}
					return printJSON(cmd.OutOrStdout(), out)
				}

				printReply(cmd, reply)
				if save || sessionID != "" {
					fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("session: "+s.ID()))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&mood, "mood", "m", "", "How you're feeling (e.g. sad, anxious, thankful)")
	cmd.Flags().StringVarP(&concern, "concern", "c", "", "What's on your mind (e.g. loss, work, health)")
	cmd.Flags().StringVarP(&tone, "tone", "t", "", "Reply tone: "+strings.Join(matcher.Tones(), ", "))
	cmd.Flags().StringVar(&say, "say", "", "Something you'd like to say")
	cmd.Flags().BoolVar(&save, "save", false, "Save this conversation")
	cmd.Flags().StringVar(&sessionID, "session", "", "Continue a saved conversation")

	return cmd
}

func printReply(cmd *cobra.Command, reply guidance.Reply) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, reply.Message.Text)
	fmt.Fprintln(w)

	if reply.Result.Fallback {
		fmt.Fprintln(w, mutedStyle.Render("Nothing matched closely, so here is a word of hope:"))
	} else {
		fmt.Fprintln(w, titleStyle.Render("Recommended for you:"))
	}
	for _, rec := range reply.Result.Recommendations {
		printContentItem(w, rec.Item, false)
	}
}
