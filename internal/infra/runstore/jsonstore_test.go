package runstore

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
)

func testLeaf() domain.Leaf {
	return domain.Leaf{
		Experiment: "grounding",
		Example:    "citeseer",
		Split:      "0",
		Backend:    "H2",
		Iteration:  "01",
	}
}

func TestDir_Layout(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig())

	want := filepath.Join(tmp, "results", "experiment::grounding", "example::citeseer", "split::0", "backend::H2", "iteration::01")
	if got := store.Dir(testLeaf()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if got := store.StdoutPath(testLeaf()); got != filepath.Join(want, "out.txt") {
		t.Fatalf("unexpected stdout path %s", got)
	}
}

func TestDir_AbsoluteResultsDir(t *testing.T) {
	abs := t.TempDir()
	cfg := domain.DefaultConfig()
	cfg.Paths.ResultsDir = abs

	store := NewJSONStore("/somewhere/else", cfg)
	if !strings.HasPrefix(store.Dir(testLeaf()), abs) {
		t.Fatalf("expected absolute results dir to be used, got %s", store.Dir(testLeaf()))
	}
}

func TestExists_FollowsStdoutFile(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig())
	leaf := testLeaf()

	ok, err := store.Exists(leaf)
	if err != nil || ok {
		t.Fatalf("expected not exists, got ok=%v err=%v", ok, err)
	}

	dir, err := store.Prepare(leaf)
	if err != nil {
		t.Fatalf("Prepare error: %v", err)
	}

	// An empty leaf dir is not output.
	ok, _ = store.Exists(leaf)
	if ok {
		t.Fatalf("expected dir without out.txt not to count")
	}

	if err := os.WriteFile(filepath.Join(dir, "out.txt"), []byte("log"), 0o644); err != nil {
		t.Fatal(err)
	}
	ok, err = store.Exists(leaf)
	if err != nil || !ok {
		t.Fatalf("expected exists, got ok=%v err=%v", ok, err)
	}

	if err := store.Discard(leaf); err != nil {
		t.Fatalf("Discard error: %v", err)
	}
	ok, _ = store.Exists(leaf)
	if ok {
		t.Fatalf("expected discard to remove out.txt")
	}
	// Discarding twice is fine.
	if err := store.Discard(leaf); err != nil {
		t.Fatalf("second Discard error: %v", err)
	}
}

func TestCollectOutputs_MovesTrees(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp, domain.DefaultConfig())
	leaf := testLeaf()
	if _, err := store.Prepare(leaf); err != nil {
		t.Fatal(err)
	}

	cli := t.TempDir()
	preds := filepath.Join(cli, "inferred-predicates")
	if err := os.MkdirAll(preds, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(preds, "HASCAT.txt"), []byte("1\t2\t0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := store.CollectOutputs(leaf, cli, []string{"inferred-predicates", "not-there"})
	if err != nil {
		t.Fatalf("CollectOutputs error: %v", err)
	}
	if n != int64(len("1\t2\t0.5\n")) {
		t.Fatalf("unexpected byte count %d", n)
	}
	if _, err := os.Stat(preds); !os.IsNotExist(err) {
		t.Fatalf("expected source to be moved away, stat err=%v", err)
	}
	moved := filepath.Join(store.Dir(leaf), "inferred-predicates", "HASCAT.txt")
	if _, err := os.Stat(moved); err != nil {
		t.Fatalf("expected moved file at %s: %v", moved, err)
	}
}

func TestClearOutputs_RemovesStaleOutputs(t *testing.T) {
	store := NewJSONStore(t.TempDir(), domain.DefaultConfig())

	cli := t.TempDir()
	preds := filepath.Join(cli, "inferred-predicates")
	if err := os.MkdirAll(preds, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(preds, "PARTIAL.txt"), []byte("1\t"), 0o644); err != nil {
		t.Fatal(err)
	}
	data := filepath.Join(cli, "citeseer-eval.data")
	if err := os.WriteFile(data, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := store.ClearOutputs(cli, []string{"inferred-predicates", "not-there"}); err != nil {
		t.Fatalf("ClearOutputs error: %v", err)
	}
	if _, err := os.Stat(preds); !os.IsNotExist(err) {
		t.Fatalf("expected stale outputs removed, stat err=%v", err)
	}
	if _, err := os.Stat(data); err != nil {
		t.Fatalf("unrelated files must stay: %v", err)
	}

	// A later failed run has nothing stale to collect.
	leaf := testLeaf()
	if _, err := store.Prepare(leaf); err != nil {
		t.Fatal(err)
	}
	n, err := store.CollectOutputs(leaf, cli, []string{"inferred-predicates"})
	if err != nil || n != 0 {
		t.Fatalf("CollectOutputs = %d, %v; want 0, nil", n, err)
	}
}

func TestSaveManifest_WritesRunJSONAndIndex(t *testing.T) {
	tmp := t.TempDir()
	now := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)
	store := NewJSONStore(tmp, domain.DefaultConfig(), WithIndex(true), WithNow(func() time.Time { return now }))

	res := domain.LeafResult{
		Leaf:      testLeaf(),
		Status:    domain.StatusFailed,
		ExitCode:  1,
		StartedAt: now,
		EndedAt:   now.Add(3 * time.Second),
		OutputDir: store.Dir(testLeaf()),
	}
	if err := store.SaveManifest(res); err != nil {
		t.Fatalf("SaveManifest error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(store.Dir(testLeaf()), "run.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var decoded domain.LeafResult
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Status != domain.StatusFailed || decoded.ExitCode != 1 {
		t.Fatalf("unexpected manifest %+v", decoded)
	}
	if decoded.Leaf.Backend != "H2" {
		t.Fatalf("expected leaf in manifest, got %+v", decoded.Leaf)
	}

	entries, _ := os.ReadDir(store.Dir(testLeaf()))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}

	f, err := os.Open(filepath.Join(store.ExperimentDir("grounding"), "index.jsonl"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer f.Close()

	var lines int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines++
		var row map[string]any
		if err := json.Unmarshal(sc.Bytes(), &row); err != nil {
			t.Fatalf("index line is not JSON: %v", err)
		}
		if row["dir"] != testLeaf().RelDir() {
			t.Fatalf("unexpected index dir %v", row["dir"])
		}
	}
	if lines != 1 {
		t.Fatalf("expected 1 index line, got %d", lines)
	}
}
