package harvester

import (
	"time"
)

// ItemOutcome describes one processed item
type ItemOutcome struct {
	Index    int
	ID       string
	Key      string
	Size     int
	Duration time.Duration
	// Err is nil on success, otherwise a *downloader.AssetFailure
	Err error
}

// Observer receives progress notifications from Run. All methods are called
// from the goroutine executing Run.
type Observer interface {
	CatalogFetched(state RunState, batches int)
	ItemDone(state RunState, outcome ItemOutcome)
	BatchPaused(batch, batches int, delay time.Duration)
	RunFinished(report *Report)
}

type observers []Observer

func (o observers) catalogFetched(state RunState, batches int) {
	for _, obs := range o {
		obs.CatalogFetched(state, batches)
	}
}

func (o observers) itemDone(state RunState, outcome ItemOutcome) {
	for _, obs := range o {
		obs.ItemDone(state, outcome)
	}
}

func (o observers) batchPaused(batch, batches int, delay time.Duration) {
	for _, obs := range o {
		obs.BatchPaused(batch, batches, delay)
	}
}

func (o observers) runFinished(report *Report) {
	for _, obs := range o {
		obs.RunFinished(report)
	}
}
