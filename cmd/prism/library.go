package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mavinms/prism-project/internal/app"
	"github.com/mavinms/prism-project/internal/collections"
	"github.com/mavinms/prism-project/internal/history"
	"github.com/mavinms/prism-project/internal/homework"
)

var errUnknownTerm = errors.New("unknown term")

// ------------------------------
// history
// ------------------------------

func newHistoryCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the metadata change history",
	}

	var period string
	list := &cobra.Command{
		Use:   "list",
		Short: "List changes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := history.ParsePeriod(period)
			if err != nil {
				return err
			}
			return rt.withApp(cmd, func(a *app.App) error {
				entries, err := a.History(cmd.Context(), p)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(w, "No history.")
					return nil
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Term, e.Subject, e.Action)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(w, "(keeping the latest %d changes)\n", a.HistoryLimit())
				return nil
			})
		},
	}
	list.Flags().StringVar(&period, "period", "all", "hour, day, week, month or all")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				cleared, err := a.ClearHistory(cmd.Context(), rt.confirm(cmd))
				if err != nil {
					return err
				}
				if cleared {
					fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				}
				return nil
			})
		},
	}

	cmd.AddCommand(list, clearCmd)
	return cmd
}

// ------------------------------
// collections
// ------------------------------

func newCollectionsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection"},
		Short:   "Organise terms into nested collections",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				cs, err := a.ListCollections(cmd.Context())
				if err != nil {
					return err
				}
				if len(cs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No collections.")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, c := range cs {
					fmt.Fprintf(tw, "%s\t%s\t%d terms\n", c.ID, c.Name, len(c.Terms))
				}
				return tw.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a collection's terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				c, terms, err := a.CollectionTerms(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", c.Name)
				printTerms(cmd.OutOrStdout(), terms)
				return nil
			})
		},
	})

	var seed string
	create := &cobra.Command{
		Use:   "create <level> [level...]",
		Short: "Create a collection, e.g. create \"Class 10\" Physics",
		Args:  cobra.RangeArgs(1, collections.MaxLevels),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				if seed != "" {
					if _, err := a.ViewTerm(cmd.Context(), seed); err != nil {
						return err
					}
				}
				c, err := a.CreateCollection(cmd.Context(), args)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Collection created: %s - %s\n", c.ID, c.Name)
				return nil
			})
		},
	}
	create.Flags().StringVar(&seed, "term", "", "Term to add as the first entry")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <term>",
		Short: "Add a term to a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				if !a.Catalog().Contains(args[1]) {
					return fmt.Errorf("%w: %q", errUnknownTerm, args[1])
				}
				added, err := a.AddTermToCollection(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if added {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s.\n", args[1])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already in the collection.\n", args[1])
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id> <term>",
		Short: "Remove a term from a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				removed, err := a.RemoveFromCollection(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[1])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is not in the collection.\n", args[1])
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <level> [level...]",
		Short: "Rename a collection",
		Args:  cobra.RangeArgs(2, collections.MaxLevels+1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				c, err := a.RenameCollection(cmd.Context(), args[0], args[1:])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Collection renamed: %s\n", c.Name)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				deleted, err := a.DeleteCollection(cmd.Context(), args[0], rt.confirm(cmd))
				if err != nil {
					return err
				}
				if deleted {
					fmt.Fprintln(cmd.OutOrStdout(), "Collection deleted.")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				}
				return nil
			})
		},
	})

	return cmd
}

// ------------------------------
// homework
// ------------------------------

func newHomeworkCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "homework",
		Short: "Track terms to study by a date",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List homework items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				items, err := a.ListHomework(cmd.Context())
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No homework.")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, it := range items {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.Date, it.Term, it.Notes)
				}
				return tw.Flush()
			})
		},
	})

	var notes string
	add := &cobra.Command{
		Use:   "add <term> <YYYY-MM-DD>",
		Short: "Add a homework item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				item, err := a.AddHomework(cmd.Context(), homework.NewItem{Term: args[0], Date: args[1], Notes: notes})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Homework added: %s - %s due %s\n", item.ID, item.Term, item.Date)
				return nil
			})
		},
	}
	add.Flags().StringVar(&notes, "notes", "", "Notes (optional)")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a homework item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				deleted, err := a.DeleteHomework(cmd.Context(), args[0], rt.confirm(cmd))
				if err != nil {
					return err
				}
				if deleted {
					fmt.Fprintln(cmd.OutOrStdout(), "Homework deleted.")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "suggest <query>",
		Short: "Suggest term names for a homework item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				printTerms(cmd.OutOrStdout(), a.SuggestTerms(args[0]))
				return nil
			})
		},
	})

	return cmd
}
