// Package grammars contains ready to use grammars: shell, RouterOS script, LaTeX and a JavaScript subset
// delegating tagged template literals to other grammars.
//
// Each function returns a new grammar value, so the caller may adjust it before compiling.
package grammars

import (
	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/lexer"
	"github.com/ava12/hilite/registry"
)

// All returns all bundled grammars.
func All() []*grammar.Grammar {
	return []*grammar.Grammar{Bash(), RouterOS(), LaTeX(), JavaScript()}
}

// Register registers all bundled grammars, stops at the first error.
func Register(r *registry.Registry) error {
	for _, g := range All() {
		if _, e := r.Register(g); e != nil {
			return e
		}
	}
	return nil
}

// NewRegistry creates a registry containing all bundled grammars.
func NewRegistry(o lexer.Options) (*registry.Registry, error) {
	r := registry.New(o)
	if e := Register(r); e != nil {
		return nil, e
	}
	return r, nil
}
