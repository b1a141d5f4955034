package cli

import (
	"fmt"

	"twitter-search-builder/internal/filters"

	"github.com/spf13/cobra"
)

func (a *App) newValidateCmd() *cobra.Command {
	var (
		filtersFile string
		lenient     bool
	)

	cmd := &cobra.Command{
		Use:   "validate [field value]",
		Short: "Validate a single field or a whole filter file",
		Long: `Validate a single field or a whole filter file.

With a field and a value, only that field's rule runs; field aliases such as
fromUser or lang are accepted. With --filters, the whole mapping is checked and
every violation is reported.`,
		Example: `  xsearch validate from @nasa
  xsearch validate since 2024-02-30
  xsearch validate --filters search.json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if filtersFile != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			validator := a.validator(lenient)

			var result filters.ValidationResult
			if filtersFile != "" {
				raw, err := readFiltersFile(filtersFile)
				if err != nil {
					return a.fail("validate", err)
				}
				result = validator.ValidateFilters(raw)
			} else {
				result = validator.ValidateField(args[0], args[1])
			}

			if a.outputJSON {
				if err := outputAsJSON(a.out, result); err != nil {
					return err
				}
			} else if result.IsValid {
				successColor.Fprintln(a.out, "✓ Valid")
				if result.SanitizedFilters != nil {
					fmt.Fprintln(a.out, formatFilters(result.SanitizedFilters.ToMap()))
				}
			} else {
				printValidationErrors(a.errOut, result.Errors)
			}

			if !result.IsValid {
				return &exitError{code: 1, reason: "validation failed"}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filtersFile, "filters", "f", "", "JSON file with a filter mapping")
	cmd.Flags().BoolVar(&lenient, "lenient-usernames", false, "Accept a leading '@' in usernames")

	return cmd
}
