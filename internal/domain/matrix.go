package domain

import (
	"path"
	"strconv"
)

// Path segment keys, in directory order.
const (
	SegmentExperiment = "experiment"
	SegmentExample    = "example"
	SegmentSplit      = "split"
	SegmentBackend    = "backend"
	SegmentIteration  = "iteration"
)

// Leaf is one cell of the run matrix: a single PSL invocation.
type Leaf struct {
	Experiment string `json:"experiment"`
	Example    string `json:"example"`
	Split      string `json:"split"`
	Backend    string `json:"backend"`
	Iteration  string `json:"iteration"`

	// Index is the 0-based position of the leaf in its plan.
	Index int `json:"index"`
}

// Segment is a "key::value" path component.
type Segment struct {
	Key   string
	Value string
}

func (s Segment) String() string {
	return s.Key + "::" + s.Value
}

// Segments returns the path components of the leaf directory, outermost first.
func (l Leaf) Segments() []Segment {
	return []Segment{
		{SegmentExperiment, l.Experiment},
		{SegmentExample, l.Example},
		{SegmentSplit, l.Split},
		{SegmentBackend, l.Backend},
		{SegmentIteration, l.Iteration},
	}
}

// RelDir is the slash-separated leaf directory relative to the results dir.
func (l Leaf) RelDir() string {
	segs := l.Segments()
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.String()
	}
	return path.Join(parts...)
}

func (l Leaf) String() string {
	return l.RelDir()
}

// IterationLabel formats a 1-based iteration number zero-padded to the width
// of total, so directory listings sort naturally (01..10).
func IterationLabel(i, total int) string {
	width := len(strconv.Itoa(total))
	s := strconv.Itoa(i)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// Plan expands the matrix iteration × example × split × backend.
// Iteration is the outermost loop so a partially finished experiment has
// complete early iterations across all examples.
func Plan(cfg Config, examples []Example) []Leaf {
	var leaves []Leaf
	for it := 1; it <= cfg.Iterations; it++ {
		label := IterationLabel(it, cfg.Iterations)
		for _, ex := range examples {
			for _, split := range ex.Splits {
				for _, b := range cfg.Backends {
					leaves = append(leaves, Leaf{
						Experiment: cfg.Experiment,
						Example:    ex.Name,
						Split:      split,
						Backend:    b.Name,
						Iteration:  label,
						Index:      len(leaves),
					})
				}
			}
		}
	}
	return leaves
}

// BackendByName returns the configured backend with the given name.
func (c Config) BackendByName(name string) (Backend, bool) {
	for _, b := range c.Backends {
		if b.Name == name {
			return b, true
		}
	}
	return Backend{}, false
}
