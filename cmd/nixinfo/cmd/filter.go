package cmd

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// entityEnv is the environment filter expressions are evaluated against,
// e.g. `Type == "hardware" && Name startsWith "ch"`.
type entityEnv struct {
	ID         string
	Name       string
	Type       string
	Definition string
}

func envOf(e namedEntity) entityEnv {
	def, _ := e.Definition()
	return entityEnv{ID: e.ID(), Name: e.Name(), Type: e.Type(), Definition: def}
}

// matcher evaluates a compiled boolean expression. The first evaluation
// error rejects every further entity and is reported by Err.
type matcher struct {
	prg *vm.Program
	err error
}

// newMatcher compiles src. An empty expression accepts everything.
func newMatcher(src string) (*matcher, error) {
	if src == "" {
		return &matcher{}, nil
	}
	prg, err := expr.Compile(src, expr.Env(entityEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	return &matcher{prg: prg}, nil
}

func (m *matcher) match(e namedEntity) bool {
	if m.prg == nil {
		return true
	}
	if m.err != nil {
		return false
	}
	out, err := expr.Run(m.prg, envOf(e))
	if err != nil {
		m.err = fmt.Errorf("evaluate filter on %s: %w", e.ID(), err)
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func (m *matcher) Err() error {
	return m.err
}
