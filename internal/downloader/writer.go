package downloader

import (
	"context"
	"fmt"
	"time"

	"cardfetch/pkg/config"
	"cardfetch/pkg/logger"
)

// AssetSource fetches the bytes behind an image URL
type AssetSource interface {
	FetchAsset(ctx context.Context, url string) ([]byte, error)
}

// AssetStore persists asset bytes by key
type AssetStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// AssetFailure is the per-item error recorded when an asset could not be
// downloaded or stored
type AssetFailure struct {
	ID    string
	Cause error
}

func (f *AssetFailure) Error() string {
	return fmt.Sprintf("card %s: %v", f.ID, f.Cause)
}

func (f *AssetFailure) Unwrap() error {
	return f.Cause
}

// Result is the outcome of one DownloadAndStore call
type Result struct {
	Target   Target
	Size     int
	Duration time.Duration
	Failure  *AssetFailure
}

// Succeeded reports whether the asset was stored
func (r Result) Succeeded() bool {
	return r.Failure == nil
}

// Writer downloads one asset at a time into an AssetStore
type Writer struct {
	source      AssetSource
	store       AssetStore
	replaceMode string
	logger      logger.Logger
}

// NewWriter creates a Writer. replaceMode is config.ReplaceAtomic or
// config.ReplaceDeleteFirst; anything else is treated as atomic.
func NewWriter(source AssetSource, store AssetStore, replaceMode string, log logger.Logger) *Writer {
	if log == nil {
		log = logger.GetLogger()
	}
	if replaceMode != config.ReplaceDeleteFirst {
		replaceMode = config.ReplaceAtomic
	}

	return &Writer{
		source:      source,
		store:       store,
		replaceMode: replaceMode,
		logger:      log.WithField("component", "writer"),
	}
}

// ReplaceMode returns the effective replace mode
func (w *Writer) ReplaceMode() string {
	return w.replaceMode
}

// DownloadAndStore fetches target.SourceURL and stores it under target.Key.
// Failures are returned in the Result, never as a panic or error.
//
// In atomic mode an existing asset is only replaced once the new bytes are in
// hand, so a failed fetch keeps it. In delete_first mode the existing asset is
// removed before the fetch.
func (w *Writer) DownloadAndStore(ctx context.Context, target Target) Result {
	start := time.Now()
	result := Result{Target: target}

	fail := func(err error) Result {
		result.Failure = &AssetFailure{ID: target.ID, Cause: err}
		result.Duration = time.Since(start)
		logger.LogDownload(w.logger, target.ID, 0, err)
		return result
	}

	if w.replaceMode == config.ReplaceDeleteFirst {
		exists, err := w.store.Exists(ctx, target.Key)
		if err != nil {
			return fail(err)
		}
		if exists {
			w.logger.DebugWithFields("Removing existing asset", map[string]interface{}{
				"card_id": target.ID,
				"key":     target.Key,
			})
			if err := w.store.Delete(ctx, target.Key); err != nil {
				return fail(err)
			}
		}
	}

	data, err := w.source.FetchAsset(ctx, target.SourceURL)
	if err != nil {
		return fail(fmt.Errorf("download failed: %w", err))
	}

	if err := w.store.Save(ctx, target.Key, data); err != nil {
		return fail(fmt.Errorf("save failed: %w", err))
	}

	result.Size = len(data)
	result.Duration = time.Since(start)
	logger.LogDownload(w.logger, target.ID, result.Size, nil)
	return result
}
