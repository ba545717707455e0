// Package lexer compiles grammars and scans text.
//
// Scanning is a single pass over the text with a stack of active modes.
// At each position the earliest match among child mode begins, end patterns, and illegal patterns
// of the top mode wins, then the text is emitted as tokens and the stack is updated.
package lexer

import (
	"sort"
	"time"

	"github.com/ava12/hilite"
	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/internal/logging"
	"github.com/ava12/hilite/keywords"
	"github.com/ava12/hilite/pattern"
)

// Error codes used by lexer:
const (
	// ErrUndefinedMode indicates a reference to unknown named mode.
	ErrUndefinedMode = hilite.CompileErrors + 20 + iota

	// ErrBadMode indicates contradicting mode options.
	ErrBadMode
)

const (
	// ErrIllegalConstruct indicates that illegal pattern has matched.
	ErrIllegalConstruct = hilite.ScanErrors + iota

	// ErrRecursionLimit indicates that mode nesting exceeds Options.MaxDepth.
	ErrRecursionLimit
)

// DefaultMaxDepth is used when Options.MaxDepth is not set.
const DefaultMaxDepth = 512

var log = logging.ForSubsys("lexer")

// Options affect grammar compilation and scanning.
type Options struct {
	// MaxDepth limits mode nesting including delegated scans.
	MaxDepth int

	// MatchTimeout limits a single pattern match attempt, zero means no limit.
	MatchTimeout time.Duration
}

// Resolver resolves delegated grammar names at scan time.
type Resolver interface {
	Resolve(name string) (*Lexer, error)
}

// Lexer is a compiled grammar. Lexer is immutable and safe for concurrent use.
type Lexer struct {
	name              string
	aliases           []string
	modes             []*mode
	illegal           *pattern.Pattern
	illegalAtRootOnly bool
	tieBreak          grammar.TieBreak
	resolver          Resolver
	maxDepth          int
	delegates         []string
	popts             pattern.Options
}

// New compiles grammar. resolver is used to resolve delegated grammars, it may be nil.
// Returns nil and hilite.Error on error.
func New(g *grammar.Grammar, resolver Resolver, o Options) (*Lexer, error) {
	if g == nil {
		return nil, hilite.FormatError(ErrBadMode, "no grammar")
	}

	c, e := newCompiler(g, o)
	if e != nil {
		return nil, e
	}
	if e = c.compile(); e != nil {
		return nil, e
	}

	maxDepth := o.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	l := &Lexer{
		name:              g.Name,
		aliases:           append([]string(nil), g.Aliases...),
		modes:             c.modes,
		illegal:           c.illegal,
		illegalAtRootOnly: g.IllegalAtRootOnly,
		tieBreak:          g.TieBreak,
		resolver:          resolver,
		maxDepth:          maxDepth,
		delegates:         c.delegateNames(),
		popts:             c.popts,
	}
	return l, nil
}

// Name returns grammar name.
func (l *Lexer) Name() string {
	return l.name
}

// Aliases returns grammar aliases.
func (l *Lexer) Aliases() []string {
	return append([]string(nil), l.aliases...)
}

// ModeCount returns the number of compiled modes including the root mode.
func (l *Lexer) ModeCount() int {
	return len(l.modes)
}

// Delegates returns sorted names of grammars referenced by delegating modes.
func (l *Lexer) Delegates() []string {
	return append([]string(nil), l.delegates...)
}

func (c *compiler) delegateNames() []string {
	seen := make(map[string]bool)
	var res []string
	for _, m := range c.modes {
		for _, name := range m.delegate {
			if !seen[name] {
				seen[name] = true
				res = append(res, name)
			}
		}
	}
	sort.Strings(res)
	return res
}

type keywordPolicy int

const (
	inheritKeywords keywordPolicy = iota
	ownKeywords
	noKeywords
)

type modeFlags int

const (
	endSameAsBegin modeFlags = 1 << iota
	excludeBegin
	excludeEnd
	returnBegin
	returnEnd
	endsParent
	endsWithParent
	skip
	startOfText
	afterDotFilter
)

type mode struct {
	index     int
	name      string
	category  string
	begin     *pattern.Pattern
	end       *pattern.Pattern
	illegal   *pattern.Pattern
	kwPolicy  keywordPolicy
	keywords  *keywords.Table
	relevance int
	children  []int
	starts    int
	flags     modeFlags
	delegate  []string
}

func (m *mode) is(f modeFlags) bool {
	return m.flags&f != 0
}
