package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/Scorecard/internal/cli"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "scorecard",
		Short: "Scorecard - performance assessment tooling",
		Long: `Scorecard manages peer, manager, and self performance assessments.
These commands work directly against a local store (sqlite or json
files) without going through the HTTP server.`,
	}

	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.PeopleCmd())
	rootCmd.AddCommand(cli.ImportLegacyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
