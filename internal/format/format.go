package format

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"gopkg.in/yaml.v3"
)

// Kind selects the parse mode for a configuration file.
type Kind int

const (
	// Markup is the YAML-superset mode used for .yaml, .yml and .json files.
	Markup Kind = iota
	// Expression is the restricted-expression mode used for every other
	// extension.
	Expression
)

// Detect returns the parse mode for path, dispatching on the file
// extension, case-insensitively.
func Detect(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return Markup
	default:
		return Expression
	}
}

// Parse parses data in the mode detected from path and returns the
// configuration mapping.
func Parse(path string, data []byte) (map[string]any, error) {
	if Detect(path) == Markup {
		return parseMarkup(data)
	}
	return parseExpression(data)
}

// parseMarkup decodes YAML — and therefore JSON, which YAML subsumes — into
// a string-keyed mapping.
func parseMarkup(data []byte) (map[string]any, error) {
	out := make(map[string]any)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("format: parse yaml: %w", err)
	}
	return out, nil
}

// exportsRE matches the module-style assignment prefix ("exports = ..." or
// "module.exports = ...") at the start of a line.
var exportsRE = regexp.MustCompile(`(?m)^\s*(?:module\s*\.\s*)?exports\s*=`)

// parseExpression evaluates data as one declarative expression that must
// yield a mapping. The evaluator runs with an empty environment — map
// literals, scalars and arithmetic only, no calls into the host process.
// An exports assignment is honored by evaluating its right-hand side.
func parseExpression(data []byte) (map[string]any, error) {
	src := string(data)
	if loc := exportsRE.FindStringIndex(src); loc != nil {
		src = src[loc[1]:]
	}
	src = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(src), ";"))

	out, err := expr.Eval(src, nil)
	if err != nil {
		return nil, fmt.Errorf("format: evaluate expression: %w", err)
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("format: expression yields %T, want a mapping", out)
	}
	return m, nil
}
