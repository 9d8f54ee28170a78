package template

import (
	"testing"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
)

func TestRenderStringSingleVar(t *testing.T) {
	out, err := RenderString("{{example}}-*.data", domain.Vars{"example": "citeseer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "citeseer-*.data" {
		t.Fatalf("expected replaced string, got %q", out)
	}
}

func TestRenderStringMultipleVars(t *testing.T) {
	out, err := RenderString("data/{{ example }}/{{split}}", domain.Vars{
		"example": "cora",
		"split":   "4",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "data/cora/4" {
		t.Fatalf("expected replaced string, got %q", out)
	}
}

func TestRenderStringMissingVar(t *testing.T) {
	_, err := RenderString("data/{{example}}", domain.Vars{})
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid config error, got %v", err)
	}
}

func TestRenderStringMalformed(t *testing.T) {
	for _, in := range []string{"data/{{example", "data/{{ }}"} {
		if _, err := RenderString(in, domain.Vars{"example": "x"}); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestRenderPatternQuotesValues(t *testing.T) {
	re, err := RenderPattern("data/{{example}}/[0-9]+", domain.Vars{"example": "kg.id"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !re.MatchString("../data/kg.id/12/eval") {
		t.Fatalf("expected literal example name to match")
	}
	if re.MatchString("../data/kgXid/12/eval") {
		t.Fatalf("expected '.' in example name to be literal")
	}
}

func TestRenderPatternInvalidRegex(t *testing.T) {
	_, err := RenderPattern("data/{{example}}/[0-9", domain.Vars{"example": "x"})
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid config error, got %v", err)
	}
}
