package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// shortLeaf is the one-line label used in the progress view.
func shortLeaf(l domain.Leaf) string {
	return fmt.Sprintf("%s  split %s  %s  #%s", l.Example, l.Split, l.Backend, l.Iteration)
}

var statusOrder = []domain.LeafStatus{
	domain.StatusSucceeded,
	domain.StatusFailed,
	domain.StatusSkipped,
	domain.StatusCanceled,
}

func renderCounts(t Theme, counts map[domain.LeafStatus]int) string {
	parts := make([]string, 0, len(statusOrder))
	for _, s := range statusOrder {
		parts = append(parts, t.Status(s).Render(fmt.Sprintf("%s %d", s, counts[s])))
	}
	return strings.Join(parts, " • ")
}

func renderRecent(t Theme, recent []domain.LeafResult, width int) string {
	if len(recent) == 0 {
		return t.Help.Render("(no leaf finished yet)")
	}

	var b strings.Builder
	for i, r := range recent {
		if i > 0 {
			b.WriteString("\n")
		}
		badge := t.Status(r.Status).Render(fmt.Sprintf("%-9s", r.Status))
		line := shortLeaf(r.Leaf)
		if d := r.Duration(); d > 0 {
			line += "  " + d.Round(100*time.Millisecond).String()
		}
		b.WriteString(badge + " " + clampString(line, width))
	}
	return b.String()
}
