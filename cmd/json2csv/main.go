// Command json2csv converts a JSON array of objects into a CSV file.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/FarmaSync/edups/csvconv"
)

var (
	success = color.New(color.FgGreen, color.Bold)
	failure = color.New(color.FgRed, color.Bold)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "json2csv",
		Short: "Convert a JSON array of objects to CSV",
		Long: `Convert a JSON array of flat objects to a CSV file.

The header comes from the keys of the first object; every row follows that order.

Examples:
  json2csv                                  # input.json -> output.csv
  json2csv --input meds.json --output meds.csv
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := csvconv.Convert(input, output); err != nil {
				failure.Fprintf(cmd.ErrOrStderr(), "Conversion failed: %v\n", err)
				return err
			}
			success.Fprintf(cmd.OutOrStdout(), "CSV file '%s' has been created successfully.\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", csvconv.DefaultInput, "JSON file to read")
	cmd.Flags().StringVarP(&output, "output", "o", csvconv.DefaultOutput, "CSV file to write")
	return cmd
}
