package pattern

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ava12/hilite"
)

// fragmentRefRe finds {{name}} references. It runs once per pattern at compile time,
// so the standard engine is enough here.
var fragmentRefRe = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_.-]*)\}\}`)

// Fragments holds resolved named fragments. Fragments is immutable after resolution.
type Fragments struct {
	resolved map[string]string
}

func undefinedFragmentError(name, where string) *hilite.Error {
	return hilite.FormatError(ErrUndefinedFragment, "undefined fragment %q referenced by %s", name, where)
}

func fragmentCycleError(path []string) *hilite.Error {
	return hilite.FormatError(ErrFragmentCycle, "cyclic fragment reference: %s", strings.Join(path, " -> "))
}

const (
	unvisited = iota
	visiting
	visited
)

type fragmentResolver struct {
	defs     map[string]string
	state    map[string]int
	path     []string
	resolved map[string]string
}

// ResolveFragments interpolates fragment references inside definitions.
// Returns nil and hilite.Error if some reference is undefined or definitions are cyclic.
func ResolveFragments(defs map[string]string) (*Fragments, error) {
	r := &fragmentResolver{
		defs:     defs,
		state:    make(map[string]int, len(defs)),
		resolved: make(map[string]string, len(defs)),
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, e := r.resolve(name); e != nil {
			return nil, e
		}
	}
	return &Fragments{r.resolved}, nil
}

func (r *fragmentResolver) resolve(name string) (string, error) {
	switch r.state[name] {
	case visited:
		return r.resolved[name], nil
	case visiting:
		start := 0
		for i, n := range r.path {
			if n == name {
				start = i
				break
			}
		}
		cycle := append(append([]string{}, r.path[start:]...), name)
		return "", fragmentCycleError(cycle)
	}

	r.state[name] = visiting
	r.path = append(r.path, name)
	src, e := r.interpolate(r.defs[name], "fragment "+name)
	if e != nil {
		return "", e
	}
	r.path = r.path[:len(r.path)-1]
	r.state[name] = visited
	r.resolved[name] = src
	return src, nil
}

func (r *fragmentResolver) interpolate(src, where string) (string, error) {
	var e error
	res := fragmentRefRe.ReplaceAllStringFunc(src, func(ref string) string {
		if e != nil {
			return ""
		}

		name := ref[2 : len(ref)-2]
		if _, defined := r.defs[name]; !defined {
			e = undefinedFragmentError(name, where)
			return ""
		}

		var text string
		text, e = r.resolve(name)
		return text
	})
	return res, e
}

// Has reports whether fragment is defined.
func (f *Fragments) Has(name string) bool {
	if f == nil {
		return false
	}
	_, has := f.resolved[name]
	return has
}

// Get returns resolved fragment source.
func (f *Fragments) Get(name string) (string, bool) {
	if f == nil {
		return "", false
	}
	src, has := f.resolved[name]
	return src, has
}

// Expand interpolates fragment references in pattern source; where describes the pattern in error messages.
func (f *Fragments) Expand(src, where string) (string, error) {
	if !strings.Contains(src, "{{") {
		return src, nil
	}

	var e error
	res := fragmentRefRe.ReplaceAllStringFunc(src, func(ref string) string {
		name := ref[2 : len(ref)-2]
		text, has := f.Get(name)
		if !has && e == nil {
			e = undefinedFragmentError(name, where)
		}
		return text
	})
	if e != nil {
		return "", e
	}
	return res, nil
}
