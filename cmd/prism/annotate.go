package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/annotate"
	"github.com/mavinms/prism-project/internal/app"
)

// annotateTerm opens term and applies fn to it.
func annotateTerm(rt *runtime, cmd *cobra.Command, term string, fn func(a *app.App) (client.TermMetadata, error)) error {
	return rt.withApp(cmd, func(a *app.App) error {
		if _, err := a.ViewTerm(cmd.Context(), term); err != nil {
			return err
		}
		meta, err := fn(a)
		if err != nil {
			return err
		}
		printMeta(cmd.OutOrStdout(), meta)
		return nil
	})
}

func newFavoriteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <term>",
		Short: "Toggle a term's favorite flag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return annotateTerm(rt, cmd, strings.Join(args, " "), func(a *app.App) (client.TermMetadata, error) {
				return a.ToggleFavorite(cmd.Context())
			})
		},
	}
}

func newBookmarkCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmark <term>",
		Short: "Toggle a term's bookmark flag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return annotateTerm(rt, cmd, strings.Join(args, " "), func(a *app.App) (client.TermMetadata, error) {
				return a.ToggleBookmark(cmd.Context())
			})
		},
	}
}

func newDifficultyCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "difficulty <term> <unknown|easy|medium|hard>",
		Short: "Set a term's difficulty",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := client.Difficulty(strings.ToLower(args[1]))
			if err := client.ValidateDifficulty(d); err != nil {
				return err
			}
			return annotateTerm(rt, cmd, args[0], func(a *app.App) (client.TermMetadata, error) {
				return a.SetDifficulty(cmd.Context(), d)
			})
		},
	}
}

func newRateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <term> <0-5>",
		Short: "Rate a term; 0 clears the rating",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a number: %w", err)
			}
			if err := client.ValidateRating(r); err != nil {
				return err
			}
			return annotateTerm(rt, cmd, args[0], func(a *app.App) (client.TermMetadata, error) {
				return a.SetRating(cmd.Context(), r)
			})
		},
	}
}

func newNotesCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "notes <term> <text...>",
		Short: "Save notes on a term; fewer than three words clears existing notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return rt.withApp(cmd, func(a *app.App) error {
				if _, err := a.ViewTerm(cmd.Context(), args[0]); err != nil {
					return err
				}
				outcome, meta, err := a.SaveNotes(cmd.Context(), text)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if outcome == annotate.NotesCleared {
					fmt.Fprintf(w, "Notes cleared (%v).\n", annotate.ErrNotesTooShort)
				} else {
					fmt.Fprintln(w, "Notes saved.")
				}
				printMeta(w, meta)
				return nil
			})
		},
	}
}
