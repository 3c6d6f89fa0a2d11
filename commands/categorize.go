package commands

import (
	"sjsage522/orgcrawler/internal/categorize"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(categorizeCmd)
}

var categorizeCmd = &cobra.Command{
	Use:   "categorize <dataset.csv> [output.csv]",
	Short: "Adds the derived org_category column to a consolidated dataset.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, dst := args[0], ""
		if len(args) == 2 {
			dst = args[1]
		}

		counts, err := categorize.Default().EnrichFile(src, dst)
		if err != nil {
			return err
		}

		categorize.RenderSummary(cmd.OutOrStdout(), counts)
		return nil
	},
}
