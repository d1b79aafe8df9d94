// Package harvester runs a complete catalog download.
//
// A run moves through Idle, Fetching and Running into one of three terminal
// states:
//
//	Completed  every catalog item was attempted
//	Cancelled  the context was cancelled; items already started finished
//	Aborted    the catalog could not be fetched or parsed
//
// Items are downloaded one at a time in batches. Between two batches the
// harvester pauses for the batch delay, so the default 20 items per batch and
// 1s delay keep the image host below 20 requests per second. A failed item is
// recorded in the Report and the run moves on.
//
//	h := harvester.New(client, store, harvester.OptionsFromConfig(cfg, dir), log)
//	h.AddObserver(progress)
//	report, err := h.Run(ctx)
package harvester
