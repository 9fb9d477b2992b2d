package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rigger-dev/rigger/internal/app"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what applying a profile would do",
	Long: `Plan probes the host and checks every step of the profile without
applying anything. Each step is reported as satisfied, needing apply, or
skipped because its platform precondition does not hold here.`,
	RunE: runPlan,
}

var planProfile string

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVarP(&planProfile, "profile", "p", "", "profile name or path (prompts when omitted)")
}

func runPlan(cmd *cobra.Command, _ []string) error {
	rigger := app.New(os.Stdout)

	ref := planProfile
	if ref == "" {
		selected, err := selectProfile(rigger)
		if err != nil {
			printError(err)
			return err
		}
		ref = selected
	}

	entries, f, err := rigger.Plan(cmd.Context(), ref)
	if err != nil {
		printError(err)
		return err
	}

	fmt.Printf("\nPlan for %s on %s\n\n", ref, f.String())

	toApply := 0
	for _, e := range entries {
		marker := "✓"
		switch e.State {
		case app.PlanApply:
			marker = "+"
			toApply++
		case app.PlanSkip:
			marker = "-"
		case app.PlanUnknown:
			marker = "?"
		}
		line := fmt.Sprintf("  %s %s", marker, e.Label)
		if e.Detail != "" {
			line += "  (" + e.Detail + ")"
		}
		fmt.Println(line)
	}

	if toApply == 0 {
		fmt.Println("\nNothing to do. The machine already matches the profile.")
	} else {
		fmt.Printf("\n%d of %d steps would apply. Run 'rigger apply' to proceed.\n", toApply, len(entries))
	}
	return nil
}
