package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/app"
	"github.com/mavinms/prism-project/internal/search"
)

func newSearchCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search terms by name or subject, ranked by your annotations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				out := a.Search(cmd.Context(), strings.Join(args, " "))
				printOutcome(cmd.OutOrStdout(), out, a.Config().MinQueryLength)
				return nil
			})
		},
	}
}

func newWatchCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Search as you type: each stdin line is the current query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				return watch(cmd, a)
			})
		},
	}
}

func watch(cmd *cobra.Command, a *app.App) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	minLen := a.Config().MinQueryLength

	var (
		mu        sync.Mutex
		delivered = make(map[string]bool)
		notify    = make(chan struct{}, 1)
	)
	deliver := func(o search.Outcome) {
		mu.Lock()
		printOutcome(w, o, minLen)
		delivered[o.Query] = true
		mu.Unlock()
		select {
		case notify <- struct{}{}:
		default:
		}
	}

	last := ""
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		last = scanner.Text()
		mu.Lock()
		delivered = make(map[string]bool)
		mu.Unlock()
		a.SubmitSearch(ctx, last, deliver)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Wait for the final query to settle.
	target := search.Normalize(last)
	if search.TooShort(target, minLen) {
		return nil
	}
	for {
		mu.Lock()
		done := delivered[target]
		mu.Unlock()
		if done {
			return nil
		}
		select {
		case <-notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func newSubjectsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List subjects with their term counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, s := range a.Subjects() {
					fmt.Fprintf(tw, "%s\t%d\n", s.Name, s.Count)
				}
				return tw.Flush()
			})
		},
	}
}

func newSubjectCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "subject <name>",
		Short: "List the terms of a subject",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				printTerms(cmd.OutOrStdout(), a.BySubject(cmd.Context(), strings.Join(args, " ")))
				return nil
			})
		},
	}
}

func newLetterCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "letter <A-Z>",
		Short: "List terms starting with a letter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				printTerms(cmd.OutOrStdout(), a.ByLetter(args[0]))
				return nil
			})
		},
	}
}

func newDiscoverCmd(rt *runtime) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Show random terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				rng := rand.New(rand.NewSource(time.Now().UnixNano()))
				printTerms(cmd.OutOrStdout(), a.Discover(count, rng))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", 10, "Number of terms")
	return cmd
}

func newTermCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "term <name>",
		Short: "Show a term with its definition, Q&A, quiz and your metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				d, err := a.ViewTerm(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				printDetail(cmd.OutOrStdout(), d)
				return nil
			})
		},
	}
}

func newFilterCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "filter <favorites|bookmarks|notes|difficulty> [easy|medium|hard]",
		Short: "List terms by metadata",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			param := ""
			if len(args) == 2 {
				param = args[1]
			}
			return rt.withApp(cmd, func(a *app.App) error {
				terms, err := a.Filter(cmd.Context(), client.FilterType(args[0]), param)
				if err != nil {
					return err
				}
				printTerms(cmd.OutOrStdout(), terms)
				return nil
			})
		},
	}
}

func newStatsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show study statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(a *app.App) error {
				ov, err := a.Overview(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "Total terms\t%d\n", ov.Stats.TotalTerms)
				fmt.Fprintf(tw, "Favorites\t%d\n", ov.Stats.Favorites)
				fmt.Fprintf(tw, "Bookmarks\t%d\n", ov.Stats.Bookmarks)
				fmt.Fprintf(tw, "With notes\t%d\n", ov.Counts.WithNotes)
				fmt.Fprintf(tw, "Easy / Medium / Hard\t%d / %d / %d\n", ov.Counts.Easy, ov.Counts.Medium, ov.Counts.Hard)
				fmt.Fprintf(tw, "Viewed this week\t%d\n", ov.Stats.RecentViews)
				fmt.Fprintf(tw, "Tests created\t%d\n", ov.Stats.TestsCreated)
				fmt.Fprintf(tw, "Collections\t%d\n", ov.Collections)
				fmt.Fprintf(tw, "Session views\t%d\n", ov.SessionViews)
				fmt.Fprintf(tw, "Catalog loaded\t%s\n", ov.CatalogAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintln(tw, "\nSubjects")
				for _, s := range ov.Subjects {
					fmt.Fprintf(tw, "  %s\t%d\n", s.Name, s.Count)
				}
				return tw.Flush()
			})
		},
	}
}
