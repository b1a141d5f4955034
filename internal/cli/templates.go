package cli

import (
	"fmt"

	"twitter-search-builder/internal/filters"
	"twitter-search-builder/internal/searchurl"

	"github.com/spf13/cobra"
)

func (a *App) newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template", "tpl"},
		Short:   "List search templates",
		Long: `List search templates.

Templates are filter presets. Built-in templates can be overridden or extended
with a registry file (templates.registry_path).`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.templateCatalog()
			if err != nil {
				return a.fail("templates list", err)
			}
			if a.outputJSON {
				return outputAsJSON(a.out, catalog.List())
			}
			printTemplateList(a.out, catalog.List())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a template's filters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.templateCatalog()
			if err != nil {
				return a.fail("templates show", err)
			}
			t, err := catalog.Get(args[0])
			if err != nil {
				return a.fail("templates show", err)
			}
			if a.outputJSON {
				return outputAsJSON(a.out, t)
			}
			printTemplate(a.out, t)
			return nil
		},
	})

	return cmd
}

func (a *App) newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported language codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := filters.SupportedLanguages()
			if a.outputJSON {
				named := make(map[string]string, len(codes))
				for _, code := range codes {
					named[code], _ = filters.LanguageName(code)
				}
				return outputAsJSON(a.out, named)
			}
			for _, code := range codes {
				name, _ := filters.LanguageName(code)
				fmt.Fprintf(a.out, "%s  %s\n", infoColor.Sprint(code), name)
			}
			return nil
		},
	}
}

func (a *App) newTabsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tabs",
		Short: "List result tabs accepted by --tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tabs := searchurl.SortTabs()
			if a.outputJSON {
				return outputAsJSON(a.out, tabs)
			}
			for _, tab := range tabs {
				fmt.Fprintln(a.out, tab)
			}
			return nil
		},
	}
}
