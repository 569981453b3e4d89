package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/citrine"
	"github.com/aretw0/citrine/internal/presentation/tui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of citrine",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(out, tui.NewPrinter(out).Profile())
		}
		fmt.Fprintf(out, "citrine version %s\n", strings.TrimSpace(citrine.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
