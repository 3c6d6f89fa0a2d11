package commands

import (
	"context"
	"fmt"

	"sjsage522/orgcrawler/internal/crawler"
	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/services/proxy"
	"sjsage522/orgcrawler/services/worker"

	"github.com/spf13/cobra"
)

var crawlFlags struct {
	section       string
	from          int
	to            int
	pagesPerShard int
	concurrency   int
	merge         bool
	fromSnapshots bool
}

func init() {
	f := crawlCmd.Flags()
	f.StringVar(&crawlFlags.section, "section", "", "Section to crawl: 446, 11D or PUA")
	f.IntVar(&crawlFlags.from, "from", 1, "First listing page")
	f.IntVar(&crawlFlags.to, "to", 0, "Last listing page (inclusive)")
	f.IntVar(&crawlFlags.pagesPerShard, "pages-per-shard", 0, "Pages per shard (default PAGES_PER_SHARD)")
	f.IntVar(&crawlFlags.concurrency, "concurrency", 0, "Maximum concurrent browser sessions (default CRAWL_CONCURRENCY)")
	f.BoolVar(&crawlFlags.merge, "merge", false, "Merge the section's shards once the crawl finishes")
	f.BoolVar(&crawlFlags.fromSnapshots, "from-snapshots", false, "Replay saved page snapshots instead of browsing")
	crawlCmd.MarkFlagRequired("section")
	crawlCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl --section <446|11D|PUA> --from <n> --to <m>",
	Short: "Crawls a page range of a section into per-shard CSV files.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		section, err := models.ParseSection(crawlFlags.section)
		if err != nil {
			return err
		}

		pagesPerShard := cfg.PagesPerShard
		if crawlFlags.pagesPerShard > 0 {
			pagesPerShard = crawlFlags.pagesPerShard
		}
		concurrency := cfg.Concurrency
		if crawlFlags.concurrency > 0 {
			concurrency = crawlFlags.concurrency
		}

		shards, err := models.PlanShards(crawlFlags.from, crawlFlags.to, pagesPerShard)
		if err != nil {
			return err
		}

		services, err := initializeServices(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer services.Cleanup()

		opts := worker.Options{
			OutputDir:    cfg.OutputDir,
			SoftDeadline: cfg.SoftDeadline,
			PageCache:    services.PageCache,
		}

		var browser crawler.Browser
		if crawlFlags.fromSnapshots {
			browser = crawler.NewSnapshotBrowser(section, services.Snapshots)
			opts.PageCache = nil
		} else {
			pb, err := crawler.NewPlaywrightBrowser(crawler.PlaywrightOptions{
				Headless:          cfg.Headless,
				ProxyServer:       selectProxy(ctx),
				NavigationTimeout: cfg.NavigationTimeout,
			})
			if err != nil {
				return fmt.Errorf("failed to start browser: %w", err)
			}
			browser = pb
			if cfg.SaveSnapshots {
				opts.Snapshots = services.Snapshots
			}
		}
		defer func() {
			if err := browser.Close(); err != nil {
				log.WithError(err).Warn().Msg("Failed to close browser")
			}
		}()

		log.Info().
			Str("section", section.DisplayName()).
			Int("from", crawlFlags.from).
			Int("to", crawlFlags.to).
			Int("shards", len(shards)).
			Bool("from_snapshots", crawlFlags.fromSnapshots).
			Msg("Starting crawl")

		w := worker.NewWorker(browser, cfg.SectionURL, opts, log)
		paths, err := w.Run(ctx, section, shards, concurrency)
		if err != nil {
			return err
		}
		if len(paths) < len(shards) {
			log.Warn().
				Int("expected", len(shards)).
				Int("written", len(paths)).
				Msg("Some shards produced no artifact; re-run their page ranges")
		}

		if crawlFlags.merge {
			return mergeSection(section)
		}
		return nil
	},
}

// selectProxy returns the configured proxy, or the fastest reachable candidate
func selectProxy(ctx context.Context) string {
	if cfg.ProxyServer != "" || len(cfg.ProxyCandidates) == 0 {
		return cfg.ProxyServer
	}

	best, err := proxy.NewSelector(cfg.ProxyCandidates, proxy.DefaultProbeTimeout, log).Fastest(ctx)
	if err != nil {
		log.WithError(err).Warn().Msg("Browsing without a proxy")
		return ""
	}
	log.Info().Str("proxy", best.Server).Dur("latency", best.Latency).Msg("Selected proxy")
	return best.Server
}
