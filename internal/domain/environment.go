package domain

// Vars is a key/value store used for {{name}} templating of config values.
type Vars map[string]string

// Merge merges base and override vars (override wins) and returns a new map.
func Merge(base Vars, override Vars) Vars {
	out := Vars{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// LeafVars exposes the identifiers of a leaf as template variables.
func LeafVars(l Leaf) Vars {
	return Vars{
		"experiment": l.Experiment,
		"example":    l.Example,
		"split":      l.Split,
		"backend":    l.Backend,
		"iteration":  l.Iteration,
	}
}
