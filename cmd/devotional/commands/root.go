// ABOUTME: Root command, global flags, and Execute entry point for the devotional CLI
// ABOUTME: Wires every subcommand and enforces --verbose/--quiet exclusivity
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	format  string
)

const banner = `
██████╗ ███████╗██╗   ██╗ ██████╗ ████████╗██╗ ██████╗ ███╗   ██╗ █████╗ ██╗
██╔══██╗██╔════╝██║   ██║██╔═══██╗╚══██╔══╝██║██╔═══██╗████╗  ██║██╔══██╗██║
██║  ██║█████╗  ██║   ██║██║   ██║   ██║   ██║██║   ██║██╔██╗ ██║███████║██║
██║  ██║██╔══╝  ╚██╗ ██╔╝██║   ██║   ██║   ██║██║   ██║██║╚██╗██║██╔══██║██║
██████╔╝███████╗ ╚████╔╝ ╚██████╔╝   ██║   ██║╚██████╔╝██║ ╚████║██║  ██║███████╗
╚═════╝ ╚══════╝  ╚═══╝   ╚═════╝    ╚═╝   ╚═╝ ╚═════╝ ╚═╝  ╚═══╝╚═╝  ╚═╝╚══════╝`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devotional",
		Short: "Daily devotionals, guided verses, reading plans, and a journal",
		Long: banner + `

Find a verse for how you feel today, walk through multi-day reading
plans one day at a time, and keep a journal of what you're learning.

Data is stored locally (SQLite by default) and can optionally sync
across devices through Charm.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet cannot be used together")
			}
			switch format {
			case formatAuto, formatJSON, formatText:
			default:
				return fmt.Errorf("--format must be auto, json, or text, got %q", format)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only show errors")
	cmd.PersistentFlags().StringVar(&format, "format", formatAuto, "Output format: auto, json, or text")

	cmd.AddCommand(NewContentCmd())
	cmd.AddCommand(NewGuideCmd())
	cmd.AddCommand(NewPlanCmd())
	cmd.AddCommand(NewJournalCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
