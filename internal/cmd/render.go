package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/sprintpack/internal/export"
	"github.com/Iron-Ham/sprintpack/internal/graph"
	"github.com/Iron-Ham/sprintpack/internal/schedule"
)

// maxSummaryWidth bounds the summary column of the table output.
const maxSummaryWidth = 48

// writeResult prints a planning result in the configured output format.
func writeResult(w io.Writer, res *schedule.Result, format string, periodSize float64) error {
	if format == "" || strings.EqualFold(format, "table") {
		return renderSchedule(w, res, periodSize)
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	return export.Write(w, res.Schedule, f)
}

// renderSchedule prints a styled summary, one block per sprint, the lane
// contents and any build warnings.
func renderSchedule(w io.Writer, res *schedule.Result, periodSize float64) error {
	sched := res.Schedule
	rows := export.Rows(sched)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Schedule") + "\n")
	b.WriteString(summaryBox.Render(fmt.Sprintf("lanes %d   span %s   sprints %d   tasks %d",
		len(sched.Lanes), formatWeight(sched.Span()), res.Periods, len(rows))) + "\n\n")

	current := -1
	for _, row := range rows {
		if row.Period != current {
			if current != -1 {
				b.WriteString("\n")
			}
			current = row.Period
			b.WriteString(periodHeader(row.Period, periodSize) + "\n")
		}
		b.WriteString(laneStyle.Render(fmt.Sprintf("lane %d", row.Lane)) +
			keyStyle.Render(row.Key) +
			spanStyle.Render(fmt.Sprintf("[%s, %s)", formatWeight(row.WeightBefore), formatWeight(row.WeightAfter))) +
			mutedStyle.Render(truncate(row.Summary, maxSummaryWidth)) + "\n")
	}
	if len(rows) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(headerStyle.Render("Lanes") + "\n")
	for _, lane := range sched.Lanes {
		keys := make([]string, len(lane.Placements))
		for i, p := range lane.Placements {
			keys[i] = p.Key()
		}
		b.WriteString(laneStyle.Render(fmt.Sprintf("lane %d", lane.Index)) +
			spanStyle.Render("weight "+formatWeight(lane.Weight)) +
			strings.Join(keys, " → ") + "\n")
	}

	writeDiagnostics(&b, res.Diagnostics)

	_, err := io.WriteString(w, b.String())
	return err
}

func periodHeader(number int, size float64) string {
	if number == 0 {
		return headerStyle.Render("Unscheduled")
	}
	lo := float64(number-1) * size
	return headerStyle.Render(fmt.Sprintf("Sprint %d", number)) + " " +
		mutedStyle.Render(fmt.Sprintf("[%s, %s)", formatWeight(lo), formatWeight(lo+size)))
}

func writeDiagnostics(b *strings.Builder, diags *graph.Diagnostics) {
	if diags.Len() == 0 {
		return
	}
	b.WriteString("\n" + warningStyle.Bold(true).Render(fmt.Sprintf("Warnings (%d)", diags.Len())) + "\n")
	for _, d := range diags.All() {
		b.WriteString(warningStyle.Render("  "+d.String()) + "\n")
	}
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// truncate shortens s to maxWidth visual columns, adding "..." if truncated.
// It handles ANSI escape codes and wide characters.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}
