package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"cardfetch/pkg/harvester"
)

// maxListedFailures bounds the failed ids printed in the report box
const maxListedFailures = 25

// ReportView renders a harvester.Report as a bordered box
type ReportView struct {
	renderer *lipgloss.Renderer

	panel lipgloss.Style
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	good  lipgloss.Style
	bad   lipgloss.Style
	warn  lipgloss.Style
}

// NewReportView creates a view that renders for console
func NewReportView(console *Console) *ReportView {
	r := lipgloss.NewRenderer(console.Writer())
	if !console.ColorEnabled() {
		r.SetColorProfile(termenv.Ascii)
	}

	return &ReportView{
		renderer: r,
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF00FF")).
			Padding(0, 2),
		title: r.NewStyle().Foreground(lipgloss.Color("#00FFFF")).Bold(true),
		label: r.NewStyle().Foreground(lipgloss.Color("#00FFFF")).Width(11),
		value: r.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		good:  r.NewStyle().Foreground(lipgloss.Color("#39FF14")).Bold(true),
		bad:   r.NewStyle().Foreground(lipgloss.Color("#FF3131")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#FF6700")).Bold(true),
	}
}

// Render returns the report box
func (v *ReportView) Render(report *harvester.Report) string {
	rows := []string{
		v.title.Render("RUN REPORT"),
		"",
		v.row("Run", report.RunID),
		v.row("State", v.state(report.State)),
		v.row("Total", fmt.Sprint(report.Total)),
		v.row("Processed", fmt.Sprint(report.Processed)),
		v.row("Succeeded", fmt.Sprint(report.Succeeded)),
		v.row("Failed", fmt.Sprint(report.Failed)),
		v.row("Duration", report.Duration().Round(time.Millisecond).String()),
	}

	if report.Err != nil {
		rows = append(rows, v.row("Error", v.bad.Render(report.Err.Error())))
	}

	if ids := report.FailedIDs(); len(ids) > 0 {
		listed := ids
		if len(listed) > maxListedFailures {
			listed = listed[:maxListedFailures]
		}
		line := strings.Join(listed, ", ")
		if len(ids) > len(listed) {
			line += fmt.Sprintf(" (+%d more)", len(ids)-len(listed))
		}
		rows = append(rows, v.row("Failed IDs", line))
	}

	return v.panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Print writes the rendered report to w
func (v *ReportView) Print(w io.Writer, report *harvester.Report) {
	fmt.Fprintln(w, v.Render(report))
}

func (v *ReportView) row(label, value string) string {
	return v.label.Render(label) + " " + v.value.Render(value)
}

func (v *ReportView) state(s harvester.State) string {
	switch s {
	case harvester.Completed:
		return v.good.Render(s.String())
	case harvester.Cancelled:
		return v.warn.Render(s.String())
	default:
		return v.bad.Render(s.String())
	}
}
