package cli

import (
	"bbo2lin/internal/state"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			limit, _ := cmd.Flags().GetInt("limit")
			clearAll, _ := cmd.Flags().GetBool("clear")

			if clearAll {
				n, err := state.ClearHistory()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d entries.\n", n)
				return nil
			}

			entries, err := state.ListConversions(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No conversions recorded yet.")
				return nil
			}

			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-14s  %-9s  %8s  %s\n",
					shortID(e.ID),
					humanize.Time(e.CreatedAt),
					e.Mode,
					humanize.Bytes(uint64(e.FileBytes)),
					e.OutputPath,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().Bool("clear", false, "Delete all recorded conversions")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
