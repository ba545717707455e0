// Package pattern compiles grammar patterns.
//
// Patterns use ECMAScript regular expression syntax (lookahead and back references included)
// and are matched against decoded text, so all offsets are rune indexes.
// Lines are significant: ^ and $ match at line boundaries.
package pattern

import (
	"time"

	"github.com/dlclark/regexp2"

	"github.com/ava12/hilite"
)

// Error codes used by pattern:
const (
	// ErrBadPattern indicates malformed regular expression.
	ErrBadPattern = hilite.CompileErrors + iota

	// ErrUndefinedFragment indicates a reference to unknown fragment.
	ErrUndefinedFragment

	// ErrFragmentCycle indicates a fragment referencing itself directly or transitively.
	ErrFragmentCycle

	// ErrMatch indicates that regular expression engine failed during matching (e.g. timed out).
	ErrMatch = hilite.ScanErrors + 10
)

// Options affect pattern compilation.
type Options struct {
	// CaseInsensitive makes pattern ignore letter case.
	CaseInsensitive bool

	// MatchTimeout limits a single match attempt, zero means no limit.
	MatchTimeout time.Duration
}

// Pattern is a compiled pattern. Pattern is immutable and safe for concurrent use.
type Pattern struct {
	src string
	re  *regexp2.Regexp
}

// Match describes a successful match, Start and End are rune indexes.
type Match struct {
	Start, End int

	// Group contains the text captured by the first group or the whole match if pattern has no groups.
	Group string
}

// Len returns match length in runes.
func (m Match) Len() int {
	return m.End - m.Start
}

func badPatternError(src string, e error) *hilite.Error {
	return hilite.FormatError(ErrBadPattern, "incorrect pattern /%s/ (%s)", src, e.Error())
}

func matchError(p *Pattern, e error) *hilite.Error {
	return hilite.FormatError(ErrMatch, "cannot match /%s/ (%s)", p.src, e.Error())
}

// Compile compiles pattern source.
// Returns nil and hilite.Error on error.
func Compile(src string, o Options) (*Pattern, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript | regexp2.Multiline)
	if o.CaseInsensitive {
		opts |= regexp2.IgnoreCase
	}

	re, e := regexp2.Compile(src, opts)
	if e != nil {
		return nil, badPatternError(src, e)
	}

	if o.MatchTimeout > 0 {
		re.MatchTimeout = o.MatchTimeout
	}
	return &Pattern{src, re}, nil
}

// MustCompile is like Compile but panics on error. Intended for package-level patterns.
func MustCompile(src string, o Options) *Pattern {
	p, e := Compile(src, o)
	if e != nil {
		panic(e)
	}
	return p
}

// Source returns pattern source, so compiled patterns may be composed again.
func (p *Pattern) Source() string {
	return p.src
}

// String returns pattern source.
func (p *Pattern) String() string {
	return p.src
}

// FindAt returns the leftmost match starting at or after rune index pos.
// Returns false if there is no match.
func (p *Pattern) FindAt(text []rune, pos int) (Match, bool, error) {
	if pos > len(text) {
		return Match{}, false, nil
	}

	m, e := p.re.FindRunesMatchStartingAt(text, pos)
	if e != nil {
		return Match{}, false, matchError(p, e)
	}
	if m == nil {
		return Match{}, false, nil
	}

	res := Match{Start: m.Index, End: m.Index + m.Length}
	if g := m.GroupByNumber(1); g != nil && len(g.Captures) > 0 {
		res.Group = g.String()
	} else {
		res.Group = m.String()
	}
	return res, true, nil
}

// MatchesAt reports whether pattern has a match starting exactly at pos.
func (p *Pattern) MatchesAt(text []rune, pos int) (Match, bool, error) {
	m, found, e := p.FindAt(text, pos)
	if e != nil || !found || m.Start != pos {
		return Match{}, false, e
	}
	return m, true, nil
}

// FindAll returns all non-overlapping matches in text.
// Empty matches are skipped, the search then continues at the next rune.
func (p *Pattern) FindAll(text []rune) ([]Match, error) {
	var res []Match
	pos := 0
	for pos <= len(text) {
		m, found, e := p.FindAt(text, pos)
		if e != nil {
			return nil, e
		}
		if !found {
			break
		}

		if m.End == m.Start {
			pos = m.Start + 1
			continue
		}

		res = append(res, m)
		pos = m.End
	}
	return res, nil
}
