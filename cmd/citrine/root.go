package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/citrine/internal/logging"
)

var logger = logging.NewNop()

var rootCmd = &cobra.Command{
	Use:   "citrine",
	Short: "Citrine validates and converts data with declarative schemas",
	Long: `Citrine casts and validates data documents against schema files written in YAML or JSON,
renders them back into their output shape and exports schemas as OpenAPI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(raw)
		if err != nil {
			return err
		}
		logger = logging.New(level)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if err != errSilentExit {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}
