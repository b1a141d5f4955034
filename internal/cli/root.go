package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the xsearch command tree bound to a.
func (a *App) NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "xsearch",
		Short: "Build advanced X/Twitter search URLs",
		Long: `Build advanced X/Twitter search URLs from validated filters.

Filters can come from flags, a JSON file or a template preset. Generated searches
can be saved to a local history and marked as favorites.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.noColor {
				color.NoColor = true
			}
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file path (default: search ./configs, . and ~/.xsearch)")
	root.PersistentFlags().BoolVar(&a.outputJSON, "json", false, "Output in JSON format")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(a.newBuildCmd())
	root.AddCommand(a.newValidateCmd())
	root.AddCommand(a.newHistoryCmd())
	root.AddCommand(a.newTemplatesCmd())
	root.AddCommand(a.newLanguagesCmd())
	root.AddCommand(a.newTabsCmd())

	return root
}
