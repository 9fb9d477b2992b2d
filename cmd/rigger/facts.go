package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rigger-dev/rigger/internal/app"
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Show the probed host facts",
	Long: `Facts probes the host the same way a run does and prints what it
found: distribution, release, and CPU architecture. Step preconditions
match against exactly these values.`,
	RunE: runFacts,
}

func init() {
	rootCmd.AddCommand(factsCmd)
}

func runFacts(cmd *cobra.Command, _ []string) error {
	rigger := app.New(os.Stdout)

	f, err := rigger.Probe(cmd.Context())
	if err != nil {
		printError(err)
		return err
	}

	fmt.Printf("os:      %s\n", f.OSID())
	fmt.Printf("release: %s\n", f.OSVersion())
	fmt.Printf("arch:    %s\n", f.Arch())
	return nil
}
