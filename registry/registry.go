// Package registry keeps compiled grammars by name and resolves delegation between them.
package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/ava12/hilite"
	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/internal/logging"
	"github.com/ava12/hilite/lexer"
)

// Error codes used by registry:
const (
	// ErrUnknownGrammar indicates that neither grammar name nor alias is registered.
	ErrUnknownGrammar = hilite.RegistryErrors + iota

	// ErrDuplicateGrammar indicates that grammar name or alias is already taken.
	ErrDuplicateGrammar
)

var log = logging.ForSubsys("registry")

// Registry maps grammar names and aliases to compiled lexers.
// Grammars are expected to be registered before scanning starts,
// all methods are safe for concurrent use.
type Registry struct {
	opts    lexer.Options
	mu      sync.RWMutex
	lexers  map[string]*lexer.Lexer
	aliases map[string]string
	names   []string
}

// Ranked is a scan result of one candidate grammar.
type Ranked struct {
	Name   string
	Result *lexer.Result
}

// New creates an empty registry, o is used to compile all registered grammars.
func New(o lexer.Options) *Registry {
	return &Registry{
		opts:    o,
		lexers:  make(map[string]*lexer.Lexer),
		aliases: make(map[string]string),
	}
}

func key(name string) string {
	return cases.Fold().String(name)
}

func unknownGrammarError(name string) *hilite.Error {
	return hilite.FormatError(ErrUnknownGrammar, "unknown grammar %q", name)
}

func duplicateGrammarError(name string) *hilite.Error {
	return hilite.FormatError(ErrDuplicateGrammar, "grammar name or alias %q is already registered", name)
}

// Register compiles grammar and registers it along with its aliases.
// Delegated grammars are resolved through this registry when text is scanned,
// so they may be registered later and may refer to each other.
func (r *Registry) Register(g *grammar.Grammar) (*lexer.Lexer, error) {
	if g == nil || g.Name == "" {
		return nil, hilite.FormatError(lexer.ErrBadMode, "grammar has no name")
	}

	r.mu.RLock()
	e := r.checkFree(append([]string{g.Name}, g.Aliases...))
	r.mu.RUnlock()
	if e != nil {
		return nil, e
	}

	l, e := lexer.New(g, r, r.opts)
	if e != nil {
		return nil, e
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e = r.checkFree(append([]string{g.Name}, g.Aliases...)); e != nil {
		return nil, e
	}
	k := key(g.Name)
	r.lexers[k] = l
	r.names = append(r.names, g.Name)
	for _, alias := range g.Aliases {
		r.aliases[key(alias)] = k
	}

	log.WithFields(logrus.Fields{
		"grammar": g.Name,
		"aliases": g.Aliases,
		"modes":   l.ModeCount(),
	}).Debug("Registered grammar")
	return l, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(gs ...*grammar.Grammar) *Registry {
	for _, g := range gs {
		if _, e := r.Register(g); e != nil {
			panic(e)
		}
	}
	return r
}

// checkFree must be called with mutex held.
func (r *Registry) checkFree(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		k := key(name)
		if name == "" || seen[k] || r.lexers[k] != nil || r.aliases[k] != "" {
			return duplicateGrammarError(name)
		}
		seen[k] = true
	}
	return nil
}

// RegisterAliases adds aliases to registered grammar.
func (r *Registry) RegisterAliases(name string, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k, found := r.canonical(name)
	if !found {
		return unknownGrammarError(name)
	}
	if e := r.checkFree(aliases); e != nil {
		return e
	}
	for _, alias := range aliases {
		r.aliases[key(alias)] = k
	}
	return nil
}

// canonical must be called with mutex held.
func (r *Registry) canonical(name string) (string, bool) {
	k := key(name)
	if r.lexers[k] != nil {
		return k, true
	}
	k, found := r.aliases[k]
	return k, found
}

// Resolve returns the lexer registered under name or alias, letter case is ignored.
func (r *Registry) Resolve(name string) (*lexer.Lexer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k, found := r.canonical(name)
	if !found {
		return nil, unknownGrammarError(name)
	}
	return r.lexers[k], nil
}

// Has reports whether name or alias is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, found := r.canonical(name)
	return found
}

// Names returns registered grammar names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Scan scans text with named grammar.
func (r *Registry) Scan(text, name string) (*lexer.Result, error) {
	l, e := r.Resolve(name)
	if e != nil {
		return nil, e
	}
	return l.Scan(text)
}

// Rank scans text with each named grammar concurrently and returns successful results
// ordered by descending relevance, ties keep the order of names.
// All registered grammars are tried if names are not given.
// Grammars that fail to scan the text are dropped.
// Returns ErrUnknownGrammar if some name is not registered or context error if ctx is done.
func (r *Registry) Rank(ctx context.Context, text string, names ...string) ([]Ranked, error) {
	if len(names) == 0 {
		names = r.Names()
	}
	lexers := make([]*lexer.Lexer, len(names))
	for i, name := range names {
		l, e := r.Resolve(name)
		if e != nil {
			return nil, e
		}
		lexers[i] = l
	}

	results := make([]*lexer.Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, l := range lexers {
		g.Go(func() error {
			if e := ctx.Err(); e != nil {
				return e
			}

			res, e := l.Scan(text)
			if e != nil {
				log.WithFields(logrus.Fields{"grammar": l.Name(), "error": e}).Debug("Grammar dropped from ranking")
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if e := g.Wait(); e != nil {
		return nil, e
	}

	res := make([]Ranked, 0, len(names))
	for i, sr := range results {
		if sr != nil {
			res = append(res, Ranked{lexers[i].Name(), sr})
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Result.Relevance > res[j].Result.Relevance
	})
	return res, nil
}

// Best returns the name of the most relevant grammar for text, see Rank.
// Returns empty string if no grammar scans the text.
func (r *Registry) Best(ctx context.Context, text string, names ...string) (string, error) {
	ranked, e := r.Rank(ctx, text, names...)
	if e != nil || len(ranked) == 0 {
		return "", e
	}
	return ranked[0].Name, nil
}
