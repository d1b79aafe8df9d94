package harvester

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cardfetch/internal/downloader"
	"cardfetch/pkg/catalog"
	"cardfetch/pkg/config"
	"cardfetch/pkg/logger"
	"cardfetch/pkg/ratelimit"
)

// CatalogClient is the remote side of a run. It is closed when Run returns.
type CatalogClient interface {
	FetchCatalog(ctx context.Context) (*catalog.Catalog, error)
	downloader.AssetSource
	Close() error
}

// Options configures a Harvester
type Options struct {
	// ImageFolder is where targets are reported to live
	ImageFolder string
	BatchSize   int
	BatchDelay  time.Duration
	// Strategy is config.StrategyBatch or config.StrategyTokenBucket
	Strategy    string
	ReplaceMode string
}

// OptionsFromConfig maps the user configuration onto harvester options
func OptionsFromConfig(cfg *config.Config, imageFolder string) Options {
	return Options{
		ImageFolder: imageFolder,
		BatchSize:   cfg.RateLimit.BatchSize,
		BatchDelay:  cfg.RateLimit.BatchDelay,
		Strategy:    cfg.RateLimit.Strategy,
		ReplaceMode: cfg.Download.ReplaceMode,
	}
}

// Harvester downloads every image in the catalog in paced batches
type Harvester struct {
	client    CatalogClient
	writer    *downloader.Writer
	opts      Options
	batcher   *ratelimit.Batcher
	limiter   ratelimit.Limiter
	observers observers
	logger    logger.Logger
}

// New creates a Harvester. Items are processed one at a time; with the batch
// strategy a fixed pause separates batches, with token_bucket every request
// waits for a token instead and batches follow each other directly.
func New(client CatalogClient, store downloader.AssetStore, opts Options, log logger.Logger) *Harvester {
	if log == nil {
		log = logger.GetLogger()
	}
	log = log.WithField("component", "harvester")

	h := &Harvester{
		client: client,
		writer: downloader.NewWriter(client, store, opts.ReplaceMode, log),
		opts:   opts,
		logger: log,
	}

	switch opts.Strategy {
	case config.StrategyTokenBucket:
		h.batcher = ratelimit.NewBatcher(opts.BatchSize, 0)
		h.limiter = ratelimit.NewTokenBucket(h.batcher.Size(), opts.BatchDelay)
	default:
		h.batcher = ratelimit.NewBatcher(opts.BatchSize, opts.BatchDelay)
	}

	return h
}

// AddObserver registers o for progress notifications
func (h *Harvester) AddObserver(o Observer) {
	h.observers = append(h.observers, o)
}

// Run fetches the catalog and downloads every item, checking ctx before each
// one. A download that has started always finishes, even if ctx is cancelled
// meanwhile.
//
// The returned report is never nil. The error is non-nil only for an Aborted
// run; a Cancelled run is not an error.
func (h *Harvester) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := h.logger.WithField("run_id", report.RunID)

	defer func() {
		if err := h.client.Close(); err != nil {
			log.WithError(err).Warn("Failed to close catalog client")
		}
	}()

	logger.LogComponentStart(log, "harvester", map[string]interface{}{
		"batch_size":   h.batcher.Size(),
		"batch_delay":  h.opts.BatchDelay.String(),
		"strategy":     h.strategy(),
		"replace_mode": h.writer.ReplaceMode(),
		"image_folder": h.opts.ImageFolder,
	})

	report.State = Fetching
	cat, err := h.client.FetchCatalog(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Info("Cancelled while fetching catalog")
			return h.finish(log, report, Cancelled), nil
		}
		report.Err = err
		log.WithError(err).Error("Failed to fetch catalog")
		return h.finish(log, report, Aborted), err
	}

	report.State = Running
	report.Total = cat.Len()
	report.Batches = h.batcher.Count(cat.Len())
	if h.limiter != nil {
		h.limiter.Reset()
	}
	h.observers.catalogFetched(report.RunState, report.Batches)

	log.InfoWithFields("Starting downloads", map[string]interface{}{
		"total":   report.Total,
		"batches": report.Batches,
		"invalid": cat.InvalidCount(),
	})

	for batch, items := range ratelimit.Batches(cat.Items, h.batcher.Size()) {
		if batch > 0 && h.limiter == nil {
			h.observers.batchPaused(batch, report.Batches, h.batcher.Delay())
			logger.LogBatchPause(log, batch, report.Batches, report.Processed, report.Total)
			report.Pauses++
			// a cancelled pause is picked up by the check below
			_ = h.batcher.Pause(ctx)
		}

		for _, item := range items {
			if ctx.Err() != nil {
				return h.finish(log, report, Cancelled), nil
			}
			if h.limiter != nil {
				if err := h.limiter.Wait(ctx); err != nil {
					return h.finish(log, report, Cancelled), nil
				}
			}

			h.process(ctx, report, item)
		}
	}

	return h.finish(log, report, Completed), nil
}

func (h *Harvester) process(ctx context.Context, report *Report, item catalog.Item) {
	outcome := ItemOutcome{Index: item.Index, ID: downloader.DisplayID(item)}

	target, err := downloader.PlanFor(item, h.opts.ImageFolder)
	if err != nil {
		outcome.Err = &downloader.AssetFailure{ID: outcome.ID, Cause: err}
		h.logger.WarnWithFields("Skipping invalid catalog item", map[string]interface{}{
			"index": item.Index,
			"error": err.Error(),
		})
	} else {
		outcome.Key = target.Key
		result := h.writer.DownloadAndStore(context.WithoutCancel(ctx), target)
		outcome.Size = result.Size
		outcome.Duration = result.Duration
		if result.Failure != nil {
			outcome.Err = result.Failure
		}
	}

	report.Processed++
	if outcome.Err != nil {
		report.Failed++
		report.Failures = append(report.Failures, Failure{Index: item.Index, ID: outcome.ID, Err: outcome.Err})
	} else {
		report.Succeeded++
	}

	h.observers.itemDone(report.RunState, outcome)
}

func (h *Harvester) finish(log logger.Logger, report *Report, state State) *Report {
	report.State = state
	report.FinishedAt = time.Now()

	logger.LogMetrics(log, "run", map[string]interface{}{
		"state":       state.String(),
		"total":       report.Total,
		"processed":   report.Processed,
		"succeeded":   report.Succeeded,
		"failed":      report.Failed,
		"pauses":      report.Pauses,
		"duration_ms": report.Duration().Milliseconds(),
	})
	logger.LogComponentStop(log, "harvester", state.String())

	h.observers.runFinished(report)
	return report
}

func (h *Harvester) strategy() string {
	if h.limiter != nil {
		return config.StrategyTokenBucket
	}
	return config.StrategyBatch
}
