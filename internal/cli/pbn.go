package cli

import (
	"bbo2lin/internal/utils"
	"bbo2lin/pkg/linconv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newPBNCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pbn <pbn_file> [output_file]",
		Short: "Convert every deal in a PBN file into .lin hand records",
		Long: `Read a Portable Bridge Notation file and write one LIN record per board
(deal, dealer, vulnerability and board number) to the output file, using the
same default name, extension and append rules as URL conversion.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			noHistory, _ := cmd.Flags().GetBool("no-history")

			var output string
			if len(args) > 1 {
				output = args[1]
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			res, err := linconv.ConvertPBN(file, output, writeOptions(overwrite))
			if err != nil {
				utils.Debug("PBN conversion of %s failed: %v", args[0], err)
				return err
			}

			fmt.Fprintf(out, "Converted %d boards from %s\n", res.Records, args[0])
			report(out, res, overwrite, "boards")
			if settings.General.RecordHistory && !noHistory {
				source := args[0]
				if abs, err := filepath.Abs(source); err == nil {
					source = "file://" + filepath.ToSlash(abs)
				}
				recordHistory(source, res, overwrite)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("overwrite", "w", false, "Replace the output file instead of appending")
	cmd.Flags().Bool("no-history", false, "Do not record this conversion in the history database")
	return cmd
}
