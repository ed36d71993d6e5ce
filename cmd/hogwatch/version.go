package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kostyay/hogwatch/internal/release"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var checkLatest bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "hogwatch version %s\n", version)
		if !checkLatest {
			return nil
		}

		latest, err := release.NewChecker("kostyay", "hogwatch").Latest(cmd.Context(), version)
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}
		if latest != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "A newer version is available: %s\n", latest)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&checkLatest, "check", false, "Check GitHub for a newer release")
}
