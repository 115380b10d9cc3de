// ABOUTME: Plan commands: start reading plans and walk through them one day at a time
// ABOUTME: list, start, today, done, restart, status, repair
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/devotional/internal/app"
	"github.com/harper/devotional/internal/models"
)

// NewPlanCmd creates the plan command group
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Follow multi-day reading plans",
		Long: `Follow multi-day reading plans.

Plans are walked one day at a time, in order. Completing a day on
consecutive calendar days builds your streak; skipping a day resets
the streak but keeps your progress.`,
	}

	cmd.AddCommand(newPlanListCmd())
	cmd.AddCommand(newPlanStartCmd())
	cmd.AddCommand(newPlanTodayCmd())
	cmd.AddCommand(newPlanDoneCmd())
	cmd.AddCommand(newPlanRestartCmd())
	cmd.AddCommand(newPlanStatusCmd())
	cmd.AddCommand(newPlanRepairCmd())

	return cmd
}

func stateLabel(p models.PlanProgress, total int) string {
	switch p.State {
	case models.PlanCompleted:
		return okStyle.Render("completed")
	case models.PlanInProgress:
		return fmt.Sprintf("day %d of %d", p.CurrentDay, total)
	default:
		return mutedStyle.Render("not started")
	}
}

func newPlanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reading plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				plans := a.Plans.Plans()
				if wantJSON(cmd) {
					type row struct {
						models.ReadingPlan
						Progress models.PlanProgress `json:"progress"`
					}
					var rows []row
					for _, p := range plans {
						prog, err := a.Plans.Progress(p.ID)
						if err != nil {
							return err
						}
						rows = append(rows, row{ReadingPlan: p, Progress: prog})
					}
					return printJSON(cmd.OutOrStdout(), rows)
				}

				for _, p := range plans {
					prog, err := a.Plans.Progress(p.ID)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%d days)  %s\n",
						titleStyle.Render(p.ID), p.Title, p.Len(), stateLabel(prog, p.Len()))
					if p.Description != "" {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", mutedStyle.Render(p.Description))
					}
				}
				return nil
			})
		},
	}
}

func newPlanStartCmd() *cobra.Command {
	var restart bool

	cmd := &cobra.Command{
		Use:   "start <plan-id>",
		Short: "Start a reading plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				p, err := a.Plans.Start(args[0], restart)
				if err != nil {
					return err
				}
				return printProgress(cmd, a, p, "Plan started")
			})
		},
	}

	cmd.Flags().BoolVar(&restart, "restart", false, "Reset existing progress")

	return cmd
}

func newPlanTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today <plan-id>",
		Short: "Show today's reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				day, err := a.Plans.CurrentDay(args[0])
				if err != nil {
					return err
				}
				items, err := a.DayContent(day)
				if err != nil {
					return err
				}

				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), map[string]interface{}{"day": day, "content": items})
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n\n", titleStyle.Render(fmt.Sprintf("Day %d:", day.Index)), day.Title)
				for i, item := range items {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					printContentItem(cmd.OutOrStdout(), item, true)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", mutedStyle.Render(fmt.Sprintf("When you're done: devotional plan done %s %d", args[0], day.Index)))
				return nil
			})
		},
	}
}

func newPlanDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <plan-id> <day>",
		Short: "Mark a day complete",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[1])
			if err != nil {
				return err
			}

			return withApp(cmd, func(a *app.App) error {
				p, err := a.Plans.CompleteDay(args[0], day)
				if err != nil {
					return err
				}
				msg := fmt.Sprintf("Day %d complete", day)
				if p.State == models.PlanCompleted {
					msg = "Plan complete. Well done!"
				}
				return printProgress(cmd, a, p, msg)
			})
		},
	}
}

func newPlanRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart <plan-id>",
		Short: "Start a plan over from day 1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				p, err := a.Plans.Restart(args[0])
				if err != nil {
					return err
				}
				return printProgress(cmd, a, p, "Plan restarted")
			})
		},
	}
}

func newPlanStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <plan-id>",
		Short: "Show progress and streak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				st, err := a.Plans.Status(args[0])
				if err != nil {
					return err
				}
				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), st)
				}

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(st.Plan.Title), stateLabel(st.Progress, st.Plan.Len()))
				fmt.Fprintf(w, "Completed: %d of %d days\n", len(st.Progress.Completed), st.Plan.Len())
				fmt.Fprintf(w, "Streak:    %d (current %d)\n", st.Streak, st.CurrentStreak)
				if st.Progress.LastCompletedAt != nil {
					fmt.Fprintf(w, "Last read: %s\n", formatTime(*st.Progress.LastCompletedAt))
				}
				return nil
			})
		},
	}
}

func newPlanRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Repair plan progress damaged by sync conflicts",
		Long: `Repair plan progress records that break the in-order rule.

When two devices complete days concurrently and sync, a record can
end up with gaps in its completed days. Repair keeps the longest run
of completed days starting at day 1 and moves the pointer after it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				started, err := a.Plans.Started()
				if err != nil {
					return err
				}
				var repaired []string
				for _, id := range started {
					changed, err := a.Plans.Repair(id)
					if err != nil {
						return err
					}
					if changed {
						repaired = append(repaired, id)
					}
				}

				if wantJSON(cmd) {
					return printJSON(cmd.OutOrStdout(), map[string]interface{}{"checked": started, "repaired": repaired})
				}
				if len(repaired) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No repair needed")
					return nil
				}
				for _, id := range repaired {
					fmt.Fprintf(cmd.OutOrStdout(), "Repaired: %s\n", id)
				}
				return nil
			})
		},
	}
}

func printProgress(cmd *cobra.Command, a *app.App, p models.PlanProgress, headline string) error {
	if wantJSON(cmd) {
		return printJSON(cmd.OutOrStdout(), p)
	}
	plan, err := a.Plans.Plan(p.PlanID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", okStyle.Render("✓"), headline, stateLabel(p, plan.Len()))
	return nil
}
