package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Predicate is a compiled boolean expression evaluated against an entity.
// Entity fields are exposed under their JSON names.
type Predicate struct {
	source  string
	program *vm.Program
}

// CompileWhere compiles an expr-lang expression such as
// `capacity > 50000 && city == "Madrid"`.
func CompileWhere(source string) (*Predicate, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("where expression must not be empty")
	}
	program, err := expr.Compile(source,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile where %q: %w", source, err)
	}
	return &Predicate{source: source, program: program}, nil
}

func (p *Predicate) String() string {
	return p.source
}

// Match evaluates the predicate against item.
func (p *Predicate) Match(item any) (bool, error) {
	env, err := toEnv(item)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate where %q: %w", p.source, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("where %q returned %T, want bool", p.source, out)
	}
	return ok, nil
}

// Where keeps the items matching source. An empty source keeps everything.
func Where[T any](items []T, source string) ([]T, error) {
	if strings.TrimSpace(source) == "" {
		return items, nil
	}
	pred, err := CompileWhere(source)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		ok, err := pred.Match(it)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func toEnv(item any) (map[string]any, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}
	env := map[string]any{}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("entity is not an object: %w", err)
	}
	return env, nil
}
