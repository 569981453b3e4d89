package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/citrine/internal/cli"
	"github.com/aretw0/citrine/internal/presentation/tui"
	"github.com/aretw0/citrine/pkg/schema"
)

// errSilentExit makes Execute exit with status 1 without printing anything,
// used when the failure was already reported.
var errSilentExit = errors.New("silent exit")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a data document against a schema",
	Long: `Casts and validates a YAML or JSON data document (a file, or standard input) against a schema file
and prints the decoded data and the first validation error as JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, false)
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Validate a data document and render it into its output shape",
	Long:  `Like validate, but the decoded data is rendered: bound keys, value maps and uplifted objects are applied.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, true)
	},
}

func init() {
	for _, c := range []*cobra.Command{validateCmd, convertCmd} {
		c.Flags().StringP("schema", "s", "", "Schema file (.yaml, .yml or .json)")
		c.Flags().StringP("data", "d", "-", "Data file, or - for standard input")
		c.Flags().Bool("raise", false, "Fail with the validation error instead of printing a report")
		addFormatFlags(c)
		_ = c.MarkFlagRequired("schema")
		rootCmd.AddCommand(c)
	}
}

func runCheck(cmd *cobra.Command, render bool) error {
	schemaPath, _ := cmd.Flags().GetString("schema")
	dataPath, _ := cmd.Flags().GetString("data")
	raise, _ := cmd.Flags().GetBool("raise")

	opts := cli.CheckOptions{
		SchemaPath: schemaPath,
		DataPath:   dataPath,
		Render:     render,
		Raise:      raise,
		Pretty:     term.IsTerminal(int(os.Stdout.Fd())),
		Formats:    formatFlags(cmd),
	}

	report, err := cli.Check(opts, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return err
	}

	status := tui.NewPrinter(cmd.ErrOrStderr())
	switch {
	case errors.Is(err, cli.ErrInvalidData):
		status.Failure("%s", report.Error)
		return errSilentExit
	case err == nil:
		status.Success("data is valid")
	}
	return err
}

func addFormatFlags(c *cobra.Command) {
	c.Flags().String("date-format", "", "strftime format of date values")
	c.Flags().String("datetime-format", "", "strftime format of datetime values")
	c.Flags().String("time-format", "", "strftime format of time values")
	c.Flags().Int("decimal-precision", schema.DefaultDecimalPrecision, "Digits kept by decimal values")
	c.Flags().Int("integer-base", schema.DefaultIntegerBase, "Base used to parse integer strings (0 detects prefixes)")
}

func formatFlags(cmd *cobra.Command) cli.FormatFlags {
	var f cli.FormatFlags
	f.DateFormat, _ = cmd.Flags().GetString("date-format")
	f.DatetimeFormat, _ = cmd.Flags().GetString("datetime-format")
	f.TimeFormat, _ = cmd.Flags().GetString("time-format")
	if cmd.Flags().Changed("decimal-precision") {
		n, _ := cmd.Flags().GetInt("decimal-precision")
		f.DecimalPrecision = &n
	}
	if cmd.Flags().Changed("integer-base") {
		n, _ := cmd.Flags().GetInt("integer-base")
		f.IntegerBase = &n
	}
	return f
}
