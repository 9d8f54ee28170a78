package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
)

const (
	formatPretty = "pretty"
	formatJSON   = "json"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

func checkFormat(format string) error {
	switch format {
	case formatPretty, formatJSON, "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printReport(w io.Writer, report domain.MatrixReport, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, report)
	case formatPretty, "":
		printPrettyReport(w, report)
		return nil
	default:
		return checkFormat(format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPrettyReport(w io.Writer, report domain.MatrixReport) {
	total := report.EndedAt.Sub(report.StartedAt)
	if report.StartedAt.IsZero() || report.EndedAt.IsZero() {
		total = 0
	}

	var bytes int64
	for _, r := range report.Results {
		bytes += r.OutputBytes
	}

	fmt.Fprintln(w, headingStyle.Render("Experiment: "+report.Experiment))
	if !report.StartedAt.IsZero() {
		fmt.Fprintf(w, "Started:    %s (%s)\n", report.StartedAt.Format(time.RFC3339), humanize.Time(report.StartedAt))
	}
	fmt.Fprintf(w, "Duration:   %s\n", total.Round(time.Second))
	fmt.Fprintf(w, "Leaves:     %d (%s)\n", len(report.Results), countsLine(report))
	fmt.Fprintf(w, "Collected:  %s\n", humanize.Bytes(uint64(bytes)))

	var problems []domain.LeafResult
	for _, r := range report.Results {
		if r.Status == domain.StatusFailed || r.Status == domain.StatusCanceled {
			problems = append(problems, r)
		}
	}
	if len(problems) == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, r := range problems {
		fmt.Fprintf(w, "- [%s] %s\n", failStyle.Render(string(r.Status)), r.Leaf)
		if r.Error != "" {
			fmt.Fprintf(w, "  %s\n", r.Error)
		}
		if r.StderrPath != "" && r.Status == domain.StatusFailed {
			fmt.Fprintf(w, "  %s\n", faintStyle.Render("stderr: "+r.StderrPath))
		}
	}
}

func countsLine(report domain.MatrixReport) string {
	return fmt.Sprintf("%s succeeded, %s failed, %s skipped, %s canceled",
		humanize.Comma(int64(report.Count(domain.StatusSucceeded))),
		humanize.Comma(int64(report.Count(domain.StatusFailed))),
		humanize.Comma(int64(report.Count(domain.StatusSkipped))),
		humanize.Comma(int64(report.Count(domain.StatusCanceled))),
	)
}

func printPlan(w io.Writer, report domain.MatrixReport, format string) error {
	if format == formatJSON {
		return writeJSON(w, report)
	}

	for _, r := range report.Results {
		status := string(r.Status)
		if r.Status == domain.StatusSkipped {
			status = faintStyle.Render(status)
		}
		fmt.Fprintf(w, "%-8s %s\n", status, r.Leaf)
	}
	pending := report.Count(domain.StatusPending)
	fmt.Fprintf(w, "\n%s to run, %s already done\n",
		humanize.Comma(int64(pending)),
		humanize.Comma(int64(report.Count(domain.StatusSkipped))),
	)
	return nil
}
