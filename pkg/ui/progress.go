package ui

import (
	"fmt"
	"strings"
	"time"

	"cardfetch/pkg/harvester"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	progressWidth = 20
)

// Progress prints one line per processed item and per batch pause. It
// implements harvester.Observer.
type Progress struct {
	console *Console
	batches int
}

// NewProgress creates a progress printer on console
func NewProgress(console *Console) *Progress {
	return &Progress{console: console}
}

// Bar renders done/total as a fixed-width bar
func Bar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = done * progressWidth / total
	}
	filled = min(max(filled, 0), progressWidth)

	bar := strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, progressWidth-filled)
	return fmt.Sprintf("[%s] %d/%d", bar, done, total)
}

func (p *Progress) CatalogFetched(state harvester.RunState, batches int) {
	p.batches = batches
	if p.console.Quiet() {
		return
	}
	fmt.Fprintf(p.console.Writer(), "%s %d cards in %d batches\n",
		p.console.Magenta("[CATALOG]"), state.Total, batches)
}

func (p *Progress) ItemDone(state harvester.RunState, outcome harvester.ItemOutcome) {
	if p.console.Quiet() {
		return
	}
	out := p.console.Writer()
	if outcome.Err != nil {
		fmt.Fprintf(out, "%s %s %s\n", p.console.Red("[FAILED]"), p.console.Dim(Bar(state.Processed, state.Total)), outcome.Err)
		return
	}
	fmt.Fprintf(out, "%s %s Downloaded image for Card ID: %s\n",
		p.console.Green("[OK]"), p.console.Dim(Bar(state.Processed, state.Total)), outcome.ID)
}

func (p *Progress) BatchPaused(batch, batches int, delay time.Duration) {
	if p.console.Quiet() {
		return
	}
	fmt.Fprintf(p.console.Writer(), "%s batch %d/%d done, waiting %s\n",
		p.console.Yellow("[PAUSE]"), batch, batches, delay)
}

func (p *Progress) RunFinished(report *harvester.Report) {}
