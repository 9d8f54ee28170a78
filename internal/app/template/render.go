package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/linqs/psl-grounding-benchmarks/internal/domain"
)

// RenderString replaces {{VAR}} placeholders with vars values.
// It returns an error if a variable is missing or a placeholder is malformed.
func RenderString(input string, vars domain.Vars) (string, error) {
	return render(input, vars, nil)
}

// RenderPattern renders a regular expression template. Substituted values are
// quoted so an example named "a.b" only matches itself; the template text
// around the placeholders is kept as regex syntax.
func RenderPattern(input string, vars domain.Vars) (*regexp.Regexp, error) {
	src, err := render(input, vars, regexp.QuoteMeta)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "template.pattern",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("compile %q: %w", src, err),
		}
	}
	return re, nil
}

func render(input string, vars domain.Vars, escape func(string) string) (string, error) {
	if input == "" {
		return "", nil
	}

	var out strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", templateErr(input, "unclosed template expression")
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", templateErr(input, "empty template expression")
		}

		value, ok := vars[key]
		if !ok {
			return "", templateErr(input, fmt.Sprintf("missing variable %q", key))
		}

		if escape != nil {
			value = escape(value)
		}
		out.WriteString(value)
		rest = rest[end+2:]
	}
}

func templateErr(input, msg string) error {
	return &domain.OpError{
		Op:   "template.render",
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("%s in %q: %w", msg, input, domain.ErrInvalidConfig),
	}
}
