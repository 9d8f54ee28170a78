package usecase

import "github.com/linqs/psl-grounding-benchmarks/internal/domain"

type EventKind string

const (
	// EventPlanned is sent once, before any leaf, with Total set.
	EventPlanned   EventKind = "planned"
	EventLeafStart EventKind = "leaf_start"
	EventLeafDone  EventKind = "leaf_done"
)

// Event reports matrix progress to a UI.
type Event struct {
	Kind  EventKind
	Total int

	Leaf   domain.Leaf
	Result domain.LeafResult
}

// Observer receives events synchronously from the matrix loop.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) OnEvent(Event) {}
