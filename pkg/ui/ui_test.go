package ui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"cardfetch/internal/downloader"
	"cardfetch/pkg/errors"
	"cardfetch/pkg/harvester"

	"github.com/stretchr/testify/assert"
)

func TestConsoleDisablesColorForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false, false)

	assert.False(t, c.ColorEnabled())
	assert.Equal(t, "plain", c.Red("plain"))

	c.PrintInfo("Output", "./CardImages")
	assert.Equal(t, "Output: ./CardImages\n", buf.String())
}

func TestConsolePaint(t *testing.T) {
	c := &Console{color: true}
	assert.Equal(t, "\033[32mok\033[0m", c.Green("ok"))
}

func TestConsoleQuiet(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true, true)

	c.PrintBanner()
	c.PrintInfo("a", "b")
	c.PrintWarning("careful")
	c.PrintSuccess("done")
	assert.Empty(t, buf.String())

	c.PrintError("fetch failed", "boom")
	assert.Equal(t, "fetch failed: boom\n", buf.String())
}

func TestBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat(ProgressEmpty, 20)+"] 0/45", Bar(0, 45))
	assert.Equal(t, "["+strings.Repeat(ProgressBar, 20)+"] 45/45", Bar(45, 45))
	assert.Equal(t, "["+strings.Repeat(ProgressBar, 10)+strings.Repeat(ProgressEmpty, 10)+"] 5/10", Bar(5, 10))
	assert.Equal(t, "["+strings.Repeat(ProgressEmpty, 20)+"] 0/0", Bar(0, 0))
}

func TestProgressLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(NewConsole(&buf, true, false))

	var _ harvester.Observer = p

	p.CatalogFetched(harvester.RunState{Total: 45}, 3)
	p.ItemDone(harvester.RunState{Total: 45, Processed: 1}, harvester.ItemOutcome{ID: "46986414"})
	p.ItemDone(harvester.RunState{Total: 45, Processed: 2}, harvester.ItemOutcome{
		ID:  "12345",
		Err: &downloader.AssetFailure{ID: "12345", Cause: fmt.Errorf("not found")},
	})
	p.BatchPaused(1, 3, time.Second)

	out := buf.String()
	assert.Contains(t, out, "[CATALOG] 45 cards in 3 batches")
	assert.Contains(t, out, "Downloaded image for Card ID: 46986414")
	assert.Contains(t, out, "[FAILED]")
	assert.Contains(t, out, "card 12345: not found")
	assert.Contains(t, out, "[PAUSE] batch 1/3 done, waiting 1s")
}

func TestProgressQuiet(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(NewConsole(&buf, true, true))

	p.CatalogFetched(harvester.RunState{Total: 1}, 1)
	p.ItemDone(harvester.RunState{Total: 1, Processed: 1}, harvester.ItemOutcome{ID: "1"})
	p.BatchPaused(1, 2, time.Second)
	assert.Empty(t, buf.String())
}

func TestReportRender(t *testing.T) {
	var buf bytes.Buffer
	view := NewReportView(NewConsole(&buf, true, false))

	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	report := &harvester.Report{
		RunID:      "run-1",
		RunState:   harvester.RunState{State: harvester.Completed, Total: 3, Processed: 3, Succeeded: 2, Failed: 1},
		Failures:   []harvester.Failure{{Index: 1, ID: "12345", Err: fmt.Errorf("not found")}},
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
	}

	view.Print(&buf, report)
	out := buf.String()

	assert.NotContains(t, out, "\033[", "no escape codes without color")
	for _, want := range []string{"RUN REPORT", "run-1", "Completed", "Succeeded", "Failed IDs", "12345", "1.5s"} {
		assert.Contains(t, out, want)
	}
}

func TestReportRenderAbortedAndTruncated(t *testing.T) {
	view := NewReportView(NewConsole(&bytes.Buffer{}, true, false))

	report := &harvester.Report{
		RunState: harvester.RunState{State: harvester.Aborted},
		Err:      errors.New(errors.ErrorTypeCatalogMalformed, 0, "data is not an array"),
	}
	for i := 0; i < maxListedFailures+3; i++ {
		report.Failures = append(report.Failures, harvester.Failure{ID: fmt.Sprint(i)})
	}

	out := view.Render(report)
	assert.Contains(t, out, "Aborted")
	assert.Contains(t, out, "data is not an array")
	assert.Contains(t, out, "(+3 more)")
}

type recordingSender struct {
	titles, messages []string
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
	return nil
}

func TestNotifierSendsOnFinish(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifierWithSender(sender)
	var _ harvester.Observer = n

	n.CatalogFetched(harvester.RunState{Total: 3}, 1)
	n.ItemDone(harvester.RunState{Total: 3, Processed: 1}, harvester.ItemOutcome{ID: "1"})
	assert.Empty(t, sender.titles)

	n.RunFinished(&harvester.Report{RunState: harvester.RunState{State: harvester.Completed, Total: 3, Processed: 3, Succeeded: 2, Failed: 1}})
	assert.Equal(t, []string{"cardfetch: Completed"}, sender.titles)
	assert.Equal(t, []string{"2 of 3 cards downloaded, 1 failed"}, sender.messages)
}

func TestSummary(t *testing.T) {
	cancelled := &harvester.Report{RunState: harvester.RunState{State: harvester.Cancelled, Total: 45, Processed: 7}}
	assert.Equal(t, "Stopped after 7 of 45 cards, 0 failed", Summary(cancelled))

	aborted := &harvester.Report{RunState: harvester.RunState{State: harvester.Aborted}, Err: fmt.Errorf("catalog down")}
	assert.Equal(t, "Run aborted: catalog down", Summary(aborted))
}
