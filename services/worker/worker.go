package worker

import (
	"context"
	"sort"
	"sync"
	"time"

	"sjsage522/orgcrawler/internal/crawler"
	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/logger"
	"sjsage522/orgcrawler/pkg/errors"
	"sjsage522/orgcrawler/services/dataset"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Options configures a Worker
type Options struct {
	// OutputDir is the root under which each section gets its directory
	OutputDir string
	// SoftDeadline logs a warning when a job runs longer; zero disables it
	SoftDeadline time.Duration
	// PageCache and Snapshots are optional
	PageCache *crawler.PageCache
	Snapshots crawler.SnapshotSaver
}

// Worker runs shard crawls over a bounded pool of browser sessions
type Worker struct {
	browser crawler.Browser
	urlFor  func(models.Section) string
	opts    Options
	logger  *logger.Logger
}

// NewWorker creates a new worker. urlFor maps a section to its listing URL.
func NewWorker(browser crawler.Browser, urlFor func(models.Section) string, opts Options, log *logger.Logger) *Worker {
	return &Worker{
		browser: browser,
		urlFor:  urlFor,
		opts:    opts,
		logger:  log.ForComponent("worker"),
	}
}

type shardOutput struct {
	id   int
	path string
}

// Run crawls every shard with at most concurrency sessions open at once and
// returns the written shard files ordered by shard ID. Page, row and shard
// failures are logged, never returned; only cancellation is.
func (w *Worker) Run(ctx context.Context, section models.Section, shards []models.Shard, concurrency int) ([]string, error) {
	if concurrency < 1 {
		return nil, errors.NewConfiguration("concurrency must be positive", nil)
	}

	log := w.logger.WithFields(logger.Fields{
		"run_id":  uuid.NewString(),
		"section": string(section),
	})
	if len(shards) == 0 {
		log.Warn().Msg("No shards to crawl")
		return nil, nil
	}

	sc := crawler.NewShardCrawler(section, w.urlFor(section), w.opts.PageCache, w.opts.Snapshots, log)
	dir := dataset.SectionDir(w.opts.OutputDir, section)

	start := time.Now()
	if w.opts.SoftDeadline > 0 {
		timer := time.AfterFunc(w.opts.SoftDeadline, func() {
			log.Warn().Dur("deadline", w.opts.SoftDeadline).Msg("Crawl is running past its soft deadline")
		})
		defer timer.Stop()
	}

	log.Info().Int("shards", len(shards)).Int("concurrency", concurrency).Msg("Crawl started")

	sem := semaphore.NewWeighted(int64(concurrency))
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		outputs []shardOutput
	)

	for _, shard := range shards {
		wg.Add(1)
		go func(shard models.Shard) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				log.Warn().Int("shard", shard.ID).Msg("Shard not started: crawl cancelled")
				return
			}
			defer sem.Release(1)

			path, ok := w.runShard(ctx, sc, dir, shard, log)
			if !ok {
				return
			}
			mu.Lock()
			outputs = append(outputs, shardOutput{id: shard.ID, path: path})
			mu.Unlock()
		}(shard)
	}
	wg.Wait()

	sort.Slice(outputs, func(i, j int) bool { return outputs[i].id < outputs[j].id })
	paths := make([]string, len(outputs))
	for i, o := range outputs {
		paths[i] = o.path
	}

	log.Info().
		Int("shards_written", len(paths)).
		Int("shards_failed", len(shards)-len(paths)).
		Dur("elapsed", time.Since(start)).
		Msg("Crawl finished")

	return paths, ctx.Err()
}

// runShard owns one session for the lifetime of a shard
func (w *Worker) runShard(ctx context.Context, sc *crawler.ShardCrawler, dir string, shard models.Shard, log *logger.Logger) (string, bool) {
	slog := log.WithFields(logger.Fields{"shard": shard.ID, "first_page": shard.Start, "last_page": shard.End})

	session, err := w.browser.NewSession(ctx)
	if err != nil {
		slog.WithError(err).Error().Msg("Abandoning shard: could not open session")
		return "", false
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.WithError(err).Warn().Msg("Failed to close session")
		}
	}()

	result, err := sc.Crawl(ctx, session, shard)
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeAuthentication) {
			slog.WithError(err).Error().Msg("Abandoning shard: authentication failed")
		} else {
			slog.WithError(err).Warn().Msg("Shard interrupted; no artifact written")
		}
		return "", false
	}

	path, existed, err := dataset.WriteShard(dir, shard, result.Records)
	if err != nil {
		slog.WithError(errors.NewStorage(string(sc.Section), "failed to write shard", err)).Error().Msg("Abandoning shard")
		return "", false
	}
	if existed {
		slog.Warn().Str("path", path).Msg("Overwrote stale shard artifact")
	}

	slog.Debug().Str("path", path).Int("records", len(result.Records)).Msg("Shard written")
	return path, true
}
