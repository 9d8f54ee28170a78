package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linqs/psl-grounding-benchmarks/internal/usecase"
)

// startMatrix runs deps.Run in its own goroutine. Every event and the final
// matrixDoneMsg go through events until quit is closed; the final message is
// also delivered on result so the caller gets it even if the UI died first.
func startMatrix(ctx context.Context, deps Deps, events chan<- tea.Msg, quit <-chan struct{}, result chan<- matrixDoneMsg) {
	send := func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-quit:
		}
	}

	go func() {
		obs := usecase.ObserverFunc(func(e usecase.Event) {
			send(matrixEventMsg{event: e})
		})
		report, err := deps.Run(ctx, obs)
		done := matrixDoneMsg{report: report, err: err}
		result <- done
		send(done)
	}()
}

func cmdWaitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}
