package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rigger-dev/rigger/internal/app"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the built-in profiles",
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(_ *cobra.Command, _ []string) error {
	rigger := app.New(os.Stdout)

	for _, name := range rigger.Profiles() {
		fmt.Println(name)
	}
	return nil
}
