package progress

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Rule decides whether the merged slot values of one level line up. The
// slots are concatenated in order and matched against a pattern that wants
// every marker, in order, anywhere in the result.
type Rule struct {
	Level   int
	Slots   []string
	Markers []string

	source  string
	program *vm.Program
}

// SubsequencePattern returns a regular expression matching any string that
// contains markers in order, with anything allowed between them.
func SubsequencePattern(markers []string) string {
	quoted := make([]string, len(markers))
	for i, m := range markers {
		quoted[i] = regexp.QuoteMeta(m)
	}
	return ".*" + strings.Join(quoted, ".*") + ".*"
}

// CompileRule builds the expression for level and compiles it once.
func CompileRule(level int, slots, markers []string) (*Rule, error) {
	if len(slots) == 0 {
		return nil, errors.New("progress: rule needs at least one slot")
	}
	if len(markers) == 0 {
		return nil, errors.New("progress: rule needs at least one marker")
	}
	env := make(map[string]any, len(slots))
	for _, name := range slots {
		if !identRe.MatchString(name) {
			return nil, fmt.Errorf("progress: slot %q is not a valid rule identifier", name)
		}
		env[name] = ""
	}
	source := fmt.Sprintf("(%s) matches %s", strings.Join(slots, " + "), strconv.Quote(SubsequencePattern(markers)))
	program, err := expr.Compile(source, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("progress: compile level %d rule: %w", level, err)
	}
	return &Rule{
		Level:   level,
		Slots:   append([]string(nil), slots...),
		Markers: append([]string(nil), markers...),
		source:  source,
		program: program,
	}, nil
}

// Source returns the expression text.
func (r *Rule) Source() string { return r.source }

// Match evaluates the rule against merged. Slots missing from merged count
// as empty strings.
func (r *Rule) Match(merged map[string]string) (bool, error) {
	env := make(map[string]any, len(r.Slots))
	for _, name := range r.Slots {
		env[name] = merged[name]
	}
	out, err := expr.Run(r.program, env)
	if err != nil {
		return false, fmt.Errorf("progress: level %d rule: %w", r.Level, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}
