package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rigger-dev/rigger/internal/adapters/logging"
	"github.com/rigger-dev/rigger/internal/app"
	"github.com/rigger-dev/rigger/internal/ports"
)

const defaultProfile = "workstation"

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a profile to this machine",
	Long: `Apply probes the host, resolves the profile's steps into dependency
order, and applies each one. Steps whose desired state already holds are
skipped; everything else is installed, written, or enabled.

The run never aborts on a step failure. Every step gets exactly one line
in the final report: succeeded, warning, or failed. The command exits
non-zero only when the run itself cannot start (bad profile, cyclic
dependencies, running as root).`,
	RunE: runApply,
}

var (
	applyProfile string
	applyReport  string
	applyTimeout time.Duration
	applyWorkers int
)

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVarP(&applyProfile, "profile", "p", "", "profile name or path (prompts when omitted)")
	applyCmd.Flags().StringVar(&applyReport, "report", "", "also write a plain-text report to this path")
	applyCmd.Flags().DurationVar(&applyTimeout, "timeout", 0, "per-step timeout (0 disables)")
	applyCmd.Flags().IntVar(&applyWorkers, "workers", 1, "number of steps to run concurrently")
}

func runApply(cmd *cobra.Command, _ []string) error {
	if err := app.CheckPrivilege(os.Geteuid()); err != nil {
		printError(err)
		return err
	}

	// Interrupt stops new steps; steps already started finish and are
	// reported, so a cut-short run still produces a complete ledger.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rigger := app.New(os.Stdout)
	if verbose {
		rigger = rigger.WithLogger(logging.NewConsoleLogger(
			logging.WithOutput(os.Stderr),
			logging.WithLevel(ports.LevelDebug),
		))
	}

	ref := applyProfile
	if ref == "" {
		selected, err := selectProfile(rigger)
		if err != nil {
			printError(err)
			return err
		}
		ref = selected
	}

	// Step failures are part of the report, not an exit code. A run that
	// reached its end is a successful invocation.
	_, err := rigger.Apply(ctx, ref, app.RunOptions{
		ReportPath:  applyReport,
		StepTimeout: applyTimeout,
		Workers:     applyWorkers,
	})
	if err != nil {
		printError(err)
		return err
	}
	return nil
}

// selectProfile picks a profile when none was given: interactively on a
// terminal, or the default profile otherwise.
func selectProfile(rigger *app.Rigger) (string, error) {
	if yesFlag || !isatty.IsTerminal(os.Stdin.Fd()) {
		return defaultProfile, nil
	}

	names := rigger.Profiles()
	if len(names) == 0 {
		return "", fmt.Errorf("no built-in profiles available; pass --profile with a path")
	}

	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		options = append(options, huh.NewOption(name, name))
	}

	var choice string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Profile").
				Description("Which profile should be applied to this machine?").
				Options(options...).
				Value(&choice),
		),
	).Run()
	if err != nil {
		return "", fmt.Errorf("profile selection aborted: %w", err)
	}
	return choice, nil
}
