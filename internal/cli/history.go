package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"twitter-search-builder/internal/history"

	"github.com/spf13/cobra"
)

func (a *App) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "Manage saved searches",
		Long: `Manage saved searches.

The history keeps the most recent searches; favorites are never pruned.`,
	}

	cmd.AddCommand(a.newHistoryListCmd())
	cmd.AddCommand(a.newHistoryShowCmd())
	cmd.AddCommand(a.newHistoryDeleteCmd())
	cmd.AddCommand(a.newHistoryFavoriteCmd())
	cmd.AddCommand(a.newHistoryRenameCmd())
	cmd.AddCommand(a.newHistoryClearCmd())
	cmd.AddCommand(a.newHistoryExportCmd())
	cmd.AddCommand(a.newHistoryImportCmd())

	return cmd
}

// withStore opens the history store with a bounded context and runs fn.
func (a *App) withStore(operation string, fn func(ctx context.Context, store history.Store) error) error {
	ctx, cancel := a.commandContext()
	defer cancel()

	store, err := a.historyStore(ctx)
	if err != nil {
		return a.fail(operation, err)
	}
	if err := fn(ctx, store); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return err
		}
		return a.fail(operation, err)
	}
	return nil
}

func (a *App) newHistoryListCmd() *cobra.Command {
	var opts history.ListOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved searches, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore("history list", func(ctx context.Context, store history.Store) error {
				items, err := store.List(ctx, opts)
				if err != nil {
					return err
				}
				if a.outputJSON {
					return outputAsJSON(a.out, items)
				}
				printHistoryList(a.out, items)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&opts.FavoritesOnly, "favorites", false, "Only show favorites")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum number of entries (0 = all)")

	return cmd
}

func (a *App) newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore("history show", func(ctx context.Context, store history.Store) error {
				item, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if a.outputJSON {
					return outputAsJSON(a.out, item)
				}
				printHistoryItem(a.out, item)
				return nil
			})
		},
	}
}

func (a *App) newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved search",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore("history delete", func(ctx context.Context, store history.Store) error {
				deleted, err := store.Delete(ctx, args[0])
				if err != nil {
					return err
				}
				if !deleted {
					warningColor.Fprintf(a.errOut, "No saved search with id %s\n", args[0])
					return &exitError{code: 1, reason: "not found"}
				}
				successColor.Fprintf(a.out, "✓ Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func (a *App) newHistoryFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "favorite <id>",
		Aliases: []string{"fav"},
		Short:   "Toggle the favorite flag of a saved search",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore("history favorite", func(ctx context.Context, store history.Store) error {
				favorite, err := store.ToggleFavorite(ctx, args[0])
				if err != nil {
					return err
				}
				if a.outputJSON {
					return outputAsJSON(a.out, map[string]interface{}{"id": args[0], "isFavorite": favorite})
				}
				if favorite {
					successColor.Fprintf(a.out, "★ %s added to favorites\n", args[0])
				} else {
					infoColor.Fprintf(a.out, "%s removed from favorites\n", args[0])
				}
				return nil
			})
		},
	}
}

func (a *App) newHistoryRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Change the title of a saved search",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore("history rename", func(ctx context.Context, store history.Store) error {
				title := args[1]
				updated, err := store.Update(ctx, args[0], history.ItemUpdate{Title: &title})
				if err != nil {
					return err
				}
				if !updated {
					warningColor.Fprintf(a.errOut, "No saved search with id %s\n", args[0])
					return &exitError{code: 1, reason: "not found"}
				}
				successColor.Fprintf(a.out, "✓ Renamed %s\n", args[0])
				return nil
			})
		},
	}
}

func (a *App) newHistoryClearCmd() *cobra.Command {
	var keepFavorites bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove saved searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore("history clear", func(ctx context.Context, store history.Store) error {
				if err := store.Clear(ctx, keepFavorites); err != nil {
					return err
				}
				if keepFavorites {
					successColor.Fprintln(a.out, "✓ History cleared, favorites kept")
				} else {
					successColor.Fprintln(a.out, "✓ History cleared")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&keepFavorites, "keep-favorites", false, "Keep searches marked as favorite")

	return cmd
}

func (a *App) newHistoryExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export history and favorites as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore("history export", func(ctx context.Context, store history.Store) error {
				data, err := store.Export(ctx)
				if err != nil {
					return err
				}
				if output == "" {
					return outputAsJSON(a.out, data)
				}

				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()

				if err := outputAsJSON(f, data); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
				successColor.Fprintf(a.errOut, "✓ Exported %d searches and %d favorites to %s\n",
					len(data.History), len(data.Favorites), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func (a *App) newHistoryImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace history with an exported JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return a.fail("history import", fmt.Errorf("read import file: %w", err))
			}

			return a.withStore("history import", func(ctx context.Context, store history.Store) error {
				if err := store.Import(ctx, raw); err != nil {
					return err
				}
				items, err := store.List(ctx, history.ListOptions{})
				if err != nil {
					return err
				}
				successColor.Fprintf(a.out, "✓ Imported %d searches\n", len(items))
				return nil
			})
		},
	}
}
