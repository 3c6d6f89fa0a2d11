package commands

import (
	"fmt"

	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/services/dataset"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var verifyFlags struct {
	section string
	from    int
	to      int
}

func init() {
	f := verifyCmd.Flags()
	f.StringVar(&verifyFlags.section, "section", "", "Section to verify: 446, 11D or PUA")
	f.IntVar(&verifyFlags.from, "from", 1, "First expected shard ID")
	f.IntVar(&verifyFlags.to, "to", 0, "Last expected shard ID (inclusive)")
	verifyCmd.MarkFlagRequired("section")
	verifyCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify --section <446|11D|PUA> --from <a> --to <b>",
	Short: "Reports which expected shard files of a section are missing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		section, err := models.ParseSection(verifyFlags.section)
		if err != nil {
			return err
		}

		dir := dataset.SectionDir(cfg.OutputDir, section)
		missing := dataset.VerifyShards(dir, verifyFlags.from, verifyFlags.to)
		if len(missing) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "All shards %d-%d present in %s\n", verifyFlags.from, verifyFlags.to, dir)
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Missing shard", "Expected file"})
		for _, id := range missing {
			t.AppendRow(table.Row{id, dataset.ShardPath(dir, id)})
		}
		t.AppendFooter(table.Row{"Total", len(missing)})
		t.Render()

		return fmt.Errorf("%d of %d shards missing for section %s", len(missing), verifyFlags.to-verifyFlags.from+1, section)
	},
}
