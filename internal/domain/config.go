package domain

import (
	"fmt"
	"strings"
)

// Config represents the resolved pslbench configuration loaded from pslbench.yaml
// and overridden by command line flags.
type Config struct {
	Experiment string
	Iterations int
	Backends   []Backend

	// Splits, when non-empty, replaces split discovery for every example.
	Splits []string

	Paths PathsConfig
	Run   RunConfig
	Data  DataConfig
}

// Backend is a database backend PSL is run against. Args are appended to the
// run script invocation (e.g. "--postgres psl").
type Backend struct {
	Name string
	Args []string
}

type PathsConfig struct {
	ResultsDir string
}

type RunConfig struct {
	Script  string
	CLIDir  string
	Stdout  string
	Stderr  string
	Outputs []string
}

// DataConfig drives the split substitution in *.data files.
// Glob, Match and Replace are {{var}} templates; see LeafVars.
type DataConfig struct {
	Glob         string
	Match        string
	Replace      string
	BackupSuffix string
}

// DefaultConfig provides sane defaults if pslbench.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Experiment: "default",
		Iterations: 10,
		Backends: []Backend{
			{Name: "H2"},
			{Name: "Postgres", Args: []string{"--postgres", "psl"}},
		},
		Paths: PathsConfig{
			ResultsDir: "results",
		},
		Run: RunConfig{
			Script:  "./run.sh",
			CLIDir:  "cli",
			Stdout:  "out.txt",
			Stderr:  "out.err",
			Outputs: []string{"inferred-predicates"},
		},
		Data: DataConfig{
			Glob:         "{{example}}-*.data",
			Match:        "data/{{example}}/[0-9]+",
			Replace:      "data/{{example}}/{{split}}",
			BackupSuffix: ".bak",
		},
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Experiment) == "" {
		return invalidField("experiment", "experiment id is required")
	}
	if err := checkSegment("experiment", c.Experiment); err != nil {
		return err
	}
	if c.Iterations < 1 {
		return invalidField("iterations", fmt.Sprintf("must be >= 1, got %d", c.Iterations))
	}
	if len(c.Backends) == 0 {
		return invalidField("backends", "at least one backend is required")
	}

	seen := map[string]bool{}
	for i, b := range c.Backends {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return invalidField(fmt.Sprintf("backends[%d].name", i), "backend name is required")
		}
		if err := checkSegment(fmt.Sprintf("backends[%d].name", i), name); err != nil {
			return err
		}
		if seen[name] {
			return invalidField(fmt.Sprintf("backends[%d].name", i), fmt.Sprintf("duplicate backend %q", name))
		}
		seen[name] = true
	}

	for i, s := range c.Splits {
		if strings.TrimSpace(s) == "" {
			return invalidField(fmt.Sprintf("splits[%d]", i), "split id is required")
		}
		if err := checkSegment(fmt.Sprintf("splits[%d]", i), s); err != nil {
			return err
		}
	}

	if strings.TrimSpace(c.Run.Script) == "" {
		return invalidField("run.script", "run script is required")
	}
	if strings.TrimSpace(c.Run.Stdout) == "" {
		return invalidField("run.stdout", "stdout file name is required")
	}
	if strings.TrimSpace(c.Run.Stderr) == "" {
		return invalidField("run.stderr", "stderr file name is required")
	}
	if err := c.Run.checkFileNames(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Data.Glob) == "" {
		return invalidField("data.glob", "data file glob is required")
	}
	if strings.TrimSpace(c.Data.Match) == "" {
		return invalidField("data.match", "split match pattern is required")
	}
	if strings.TrimSpace(c.Data.BackupSuffix) == "" {
		return invalidField("data.backup_suffix", "backup suffix is required")
	}
	return nil
}

// FilterBackends keeps only the named backends (case-insensitive), preserving
// configuration order. An empty filter keeps everything.
func (c Config) FilterBackends(names []string) (Config, error) {
	if len(names) == 0 {
		return c, nil
	}

	want := map[string]bool{}
	for _, n := range names {
		want[strings.ToLower(strings.TrimSpace(n))] = true
	}

	out := c
	out.Backends = nil
	for _, b := range c.Backends {
		if want[strings.ToLower(b.Name)] {
			out.Backends = append(out.Backends, b)
			delete(want, strings.ToLower(b.Name))
		}
	}

	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for n := range want {
			missing = append(missing, n)
		}
		return c, &OpError{
			Op:   "config.filter_backends",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("unknown backend(s) %v: %w", missing, ErrInvalidConfig),
		}
	}
	return out, nil
}

func invalidField(field, msg string) error {
	return &OpError{
		Op:   "config.validate",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, ErrInvalidConfig),
	}
}

// checkSegment rejects values that would escape their key::value directory.
func checkSegment(field, v string) error {
	switch {
	case strings.ContainsAny(v, `/\`):
		return invalidField(field, fmt.Sprintf("%q must not contain path separators", v))
	case v == "." || v == "..":
		return invalidField(field, fmt.Sprintf("%q is not a valid directory name", v))
	}
	return nil
}

// checkFileNames rejects leaf file names that would overwrite each other.
func (r RunConfig) checkFileNames() error {
	owner := map[string]string{ManifestFile: "manifest"}
	claim := func(field, name string) error {
		if prev, ok := owner[name]; ok {
			return invalidField(field, fmt.Sprintf("%q is already used by %s", name, prev))
		}
		owner[name] = field
		return nil
	}

	if err := claim("run.stdout", r.Stdout); err != nil {
		return err
	}
	if err := claim("run.stderr", r.Stderr); err != nil {
		return err
	}
	for i, o := range r.Outputs {
		field := fmt.Sprintf("run.outputs[%d]", i)
		if strings.TrimSpace(o) == "" {
			return invalidField(field, "output name is required")
		}
		if err := claim(field, o); err != nil {
			return err
		}
	}
	return nil
}
