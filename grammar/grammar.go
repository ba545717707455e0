// Package grammar defines declarative grammar description used by lexer.
//
// Grammar contains no scanning code. It is a tree (in fact a graph) of modes,
// each mode describing how to recognize one lexical region: its begin and end
// patterns, child modes, keyword table, and category.
// Grammar values are compiled by lexer.New and must not be modified afterwards.
package grammar

import (
	"github.com/ava12/hilite/keywords"
)

// SelfRef is the Mode.Ref value denoting the mode containing the reference.
const SelfRef = "self"

// Keywords is a declarative keyword table.
type Keywords = keywords.Def

// TieBreak selects the winner when several candidates match at the same position.
type TieBreak int

const (
	// ChildrenFirst tries child mode begins in declaration order, then end patterns, then illegal patterns.
	ChildrenFirst TieBreak = iota

	// EndFirst tries end patterns, then child mode begins, then illegal patterns.
	EndFirst
)

func (tb TieBreak) String() string {
	if tb == EndFirst {
		return "end-first"
	}
	return "children-first"
}

// Mode describes one lexical region. Zero values of all fields are defaults.
// A mode with no End that does not end with parent is a one-shot mode: it closes right after its begin.
type Mode struct {
	// Name is used in error messages only.
	Name string

	// Ref makes this mode a reference to Grammar.Modes entry or to the containing mode if set to SelfRef.
	// All other fields of a reference are ignored.
	Ref string

	// Category is the highlighting category of the region, empty category means the mode only groups rules.
	Category string

	// Begin is the pattern opening the region. Modes with no Begin open at the current position.
	Begin string

	// Match is the pattern of one-shot mode, it is mutually exclusive with Begin and End.
	Match string

	// End is the pattern closing the region.
	End string

	// BeginKeywords is a space separated list of words opening the region.
	// It also serves as the mode's keyword table unless Keywords is set.
	// A word preceded by a dot does not open the region.
	BeginKeywords string

	// Keywords replaces inherited keyword table.
	Keywords *Keywords

	// NoKeywords disables keyword highlighting inside the region unless Keywords is set.
	NoKeywords bool

	// Illegal is the pattern that must not match inside the region.
	Illegal string

	// Relevance is added to scan relevance each time the region is opened, may be negative.
	Relevance int

	// Contains lists child modes.
	Contains []*Mode

	// Variants lists mode alternatives. Each variant is the mode with fields overridden by variant fields,
	// see Inherit. Variants must not have variants.
	Variants []*Mode

	// Starts is the mode opened right after this one closes.
	Starts *Mode

	// EndSameAsBegin makes the region close with the same text that opened it:
	// the first capturing group of Begin or the whole begin match if there are no groups.
	// If End is also set, its first group (or the whole match) must equal that text.
	EndSameAsBegin bool

	// ExcludeBegin makes begin match belong to the enclosing region.
	ExcludeBegin bool

	// ExcludeEnd makes end match belong to the enclosing region.
	ExcludeEnd bool

	// ReturnBegin makes the region start before begin match, so the match is scanned again by child modes.
	ReturnBegin bool

	// ReturnEnd makes the region close before end match, so the match is scanned again by enclosing mode.
	ReturnEnd bool

	// EndsParent makes the enclosing region close along with this one.
	EndsParent bool

	// EndsWithParent makes the region close when any enclosing region closes.
	EndsWithParent bool

	// Skip makes the region part of the enclosing region: no tokens of its own, no relevance.
	Skip bool

	// StartOfText makes begin match only at the very beginning of the text.
	StartOfText bool

	// Delegate lists grammar names scanning the region's content.
	// If several names are listed, the grammar with the best relevance wins.
	Delegate []string
}

// Grammar describes a language. Grammar is the synthetic root mode of its modes.
type Grammar struct {
	// Name is the unique grammar name.
	Name string

	// Aliases are alternative names used to resolve the grammar.
	Aliases []string

	// CaseInsensitive makes all patterns and keyword tables ignore letter case.
	CaseInsensitive bool

	// Keywords is the keyword table used outside of any mode and inherited by modes.
	Keywords *Keywords

	// Illegal is the pattern that must not match; matching makes scan fail.
	Illegal string

	// IllegalAtRootOnly limits Illegal to the text outside of any mode.
	IllegalAtRootOnly bool

	// Contains lists top level modes.
	Contains []*Mode

	// Modes is the library of named modes referenced with Mode.Ref.
	Modes map[string]*Mode

	// Fragments are named pattern fragments referenced as {{name}} in any pattern of the grammar.
	Fragments map[string]string

	// TieBreak selects the winner among candidates matching at the same position.
	TieBreak TieBreak
}

// Ref creates a reference to named mode.
func Ref(name string) *Mode {
	return &Mode{Ref: name}
}

// Self creates a reference to the containing mode.
func Self() *Mode {
	return &Mode{Ref: SelfRef}
}

// IsRef reports whether the mode is a reference.
func (m *Mode) IsRef() bool {
	return m.Ref != ""
}

// IsOneShot reports whether the mode closes right after its begin.
func (m *Mode) IsOneShot() bool {
	return m.End == "" && !m.EndsWithParent && !m.EndSameAsBegin
}

// Inherit returns a copy of base with non-zero fields of overrides applied in order.
// Boolean flags can only be set by overrides, not cleared.
// Neither base nor overrides are modified, nested modes are shared.
func Inherit(base *Mode, overrides ...*Mode) *Mode {
	res := &Mode{}
	if base != nil {
		*res = *base
	}
	for _, o := range overrides {
		if o != nil {
			res.apply(o)
		}
	}
	return res
}

func setString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func (m *Mode) apply(o *Mode) {
	setString(&m.Name, o.Name)
	setString(&m.Ref, o.Ref)
	setString(&m.Category, o.Category)
	setString(&m.Begin, o.Begin)
	setString(&m.Match, o.Match)
	setString(&m.End, o.End)
	setString(&m.BeginKeywords, o.BeginKeywords)
	setString(&m.Illegal, o.Illegal)

	if o.Match != "" {
		m.Begin = ""
	} else if o.Begin != "" {
		m.Match = ""
	}
	if o.Keywords != nil {
		m.Keywords = o.Keywords
	}
	if o.Relevance != 0 {
		m.Relevance = o.Relevance
	}
	if o.Contains != nil {
		m.Contains = o.Contains
	}
	if o.Variants != nil {
		m.Variants = o.Variants
	}
	if o.Starts != nil {
		m.Starts = o.Starts
	}
	if o.Delegate != nil {
		m.Delegate = o.Delegate
	}

	m.NoKeywords = m.NoKeywords || o.NoKeywords
	m.EndSameAsBegin = m.EndSameAsBegin || o.EndSameAsBegin
	m.ExcludeBegin = m.ExcludeBegin || o.ExcludeBegin
	m.ExcludeEnd = m.ExcludeEnd || o.ExcludeEnd
	m.ReturnBegin = m.ReturnBegin || o.ReturnBegin
	m.ReturnEnd = m.ReturnEnd || o.ReturnEnd
	m.EndsParent = m.EndsParent || o.EndsParent
	m.EndsWithParent = m.EndsWithParent || o.EndsWithParent
	m.Skip = m.Skip || o.Skip
	m.StartOfText = m.StartOfText || o.StartOfText
}

// Words creates a keyword table with one category.
func Words(category string, words ...string) *Keywords {
	return &Keywords{Categories: map[string][]string{category: words}}
}
