package commands

import (
	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/services/dataset"
	"sjsage522/orgcrawler/services/publisher"

	"github.com/spf13/cobra"
)

var mergeFlags struct {
	section string
	publish bool
}

func init() {
	mergeCmd.Flags().StringVar(&mergeFlags.section, "section", "", "Section to merge: 446, 11D or PUA")
	mergeCmd.Flags().BoolVar(&mergeFlags.publish, "publish", false, "Publish the consolidated rows to a Redis stream")
	mergeCmd.MarkFlagRequired("section")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge --section <446|11D|PUA> [--publish]",
	Short: "Merges a section's shard files into its consolidated dataset.",
	RunE: func(cmd *cobra.Command, args []string) error {
		section, err := models.ParseSection(mergeFlags.section)
		if err != nil {
			return err
		}

		if err := mergeSection(section); err != nil {
			return err
		}

		if !mergeFlags.publish {
			return nil
		}

		ctx := cmd.Context()
		services, err := initializeServices(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer services.Cleanup()

		table, err := dataset.ReadTable(dataset.ConsolidatedPath(cfg.OutputDir, section))
		if err != nil {
			return err
		}
		n, err := publisher.PublishTable(ctx, services.Publisher, section, table)
		if err != nil {
			return err
		}
		log.Info().Str("section", string(section)).Int("rows", n).Msg("Published consolidated dataset")
		return nil
	},
}

// mergeSection consolidates the section's shards and reports duplicate references
func mergeSection(section models.Section) error {
	path, rows, err := dataset.MergeSection(cfg.OutputDir, section)
	if err != nil {
		return err
	}
	log.Info().Str("section", string(section)).Str("path", path).Int("rows", rows).Msg("Merged shards")

	duplicates, err := dataset.DuplicateReferences(path)
	if err != nil {
		return err
	}
	for _, d := range duplicates {
		log.Warn().
			Str("section", string(section)).
			Str("reference_num", d.ReferenceNum).
			Int("count", d.Count).
			Msg("Duplicate reference number")
	}
	return nil
}
