package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mavinms/prism-project/internal/app"
	"github.com/mavinms/prism-project/internal/config"
	"github.com/mavinms/prism-project/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

// runtime carries the persistent flags and the logger into subcommands.
type runtime struct {
	debug bool
	yes   bool
	log   zerolog.Logger
}

// open builds the controller from PRISM_* environment settings.
func (r *runtime) open(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if r.debug {
		cfg.Debug = true
	}
	return app.Open(cmd.Context(), cfg, r.log)
}

// withApp opens the controller, runs fn and closes it.
func (r *runtime) withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := r.open(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			r.log.Warn().Err(cerr).Msg("close failed")
		}
	}()
	return fn(a)
}

// confirm asks on stderr and reads the answer from stdin. --yes approves
// without asking.
func (r *runtime) confirm(cmd *cobra.Command) app.Confirm {
	if r.yes {
		return func(string) bool { return true }
	}
	in := bufio.NewReader(cmd.InOrStdin())
	return func(prompt string) bool {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", prompt)
		line, _ := in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rt := &runtime{log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:           "prism",
		Short:         "Prism study glossary: search, annotate and organise terms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			rt.log = logger.NewConsole(cmd.ErrOrStderr(), rt.debug)
			log.Logger = rt.log
			if rt.debug {
				_ = os.Setenv("PRISM_DEBUG", "true")
				rt.log.Debug().Msg("debug logging enabled")
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&rt.debug, "debug", "d", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().BoolVarP(&rt.yes, "yes", "y", false, "Answer yes to confirmation prompts")

	rootCmd.AddCommand(newSearchCmd(rt))
	rootCmd.AddCommand(newWatchCmd(rt))
	rootCmd.AddCommand(newSubjectsCmd(rt))
	rootCmd.AddCommand(newSubjectCmd(rt))
	rootCmd.AddCommand(newLetterCmd(rt))
	rootCmd.AddCommand(newDiscoverCmd(rt))
	rootCmd.AddCommand(newTermCmd(rt))
	rootCmd.AddCommand(newFavoriteCmd(rt))
	rootCmd.AddCommand(newBookmarkCmd(rt))
	rootCmd.AddCommand(newDifficultyCmd(rt))
	rootCmd.AddCommand(newRateCmd(rt))
	rootCmd.AddCommand(newNotesCmd(rt))
	rootCmd.AddCommand(newHistoryCmd(rt))
	rootCmd.AddCommand(newCollectionsCmd(rt))
	rootCmd.AddCommand(newHomeworkCmd(rt))
	rootCmd.AddCommand(newStatsCmd(rt))
	rootCmd.AddCommand(newFilterCmd(rt))
	rootCmd.AddCommand(newMCPCmd(rt))

	return rootCmd
}
