// Package langdef loads grammar definitions from YAML, TOML, or JSON files.
//
// A definition file mirrors grammar.Grammar and grammar.Mode fields in snake_case:
//
//	name: ini
//	aliases: [conf]
//	case_insensitive: true
//	keywords:
//	  words: [true false]
//	contains:
//	  - factory: hash_comment
//	  - category: section
//	    begin: '^\['
//	    end: '\]'
//	  - ref: value
//	modes:
//	  value:
//	    category: string
//	    begin: '='
//	    end: '$'
//
// A mode may be built by a shared factory (see Factories), its other fields override the factory result.
// A mode containing only "ref" refers to a named mode or to the containing mode ("self").
// Fragments named after shared patterns (ident, underscore_ident, number, c_number, binary_number, re_starters)
// are predefined unless the file defines them.
package langdef

import (
	"reflect"
	"sort"
	"strings"

	"github.com/ava12/hilite"
	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/keywords"
)

// Error codes used by langdef:
const (
	// ErrBadFormat indicates unknown file format or malformed file contents.
	ErrBadFormat = hilite.LoadErrors + iota

	// ErrBadDefinition indicates well-formed file describing incorrect grammar.
	ErrBadDefinition

	// ErrReadFile indicates that definition file cannot be read.
	ErrReadFile
)

// Definition is the file representation of grammar.Grammar.
type Definition struct {
	Name              string              `yaml:"name" toml:"name" json:"name"`
	Aliases           []string            `yaml:"aliases" toml:"aliases" json:"aliases"`
	CaseInsensitive   bool                `yaml:"case_insensitive" toml:"case_insensitive" json:"case_insensitive"`
	Keywords          *KeywordsDef        `yaml:"keywords" toml:"keywords" json:"keywords"`
	Illegal           string              `yaml:"illegal" toml:"illegal" json:"illegal"`
	IllegalAtRootOnly bool                `yaml:"illegal_at_root_only" toml:"illegal_at_root_only" json:"illegal_at_root_only"`
	TieBreak          string              `yaml:"tie_break" toml:"tie_break" json:"tie_break"`
	Fragments         map[string]string   `yaml:"fragments" toml:"fragments" json:"fragments"`
	Modes             map[string]*ModeDef `yaml:"modes" toml:"modes" json:"modes"`
	Contains          []*ModeDef          `yaml:"contains" toml:"contains" json:"contains"`
}

// KeywordsDef is the file representation of keyword table.
// Words go to keywords.DefaultCategory.
type KeywordsDef struct {
	Pattern    string              `yaml:"pattern" toml:"pattern" json:"pattern"`
	Words      []string            `yaml:"words" toml:"words" json:"words"`
	Categories map[string][]string `yaml:"categories" toml:"categories" json:"categories"`
}

// ModeDef is the file representation of grammar.Mode.
type ModeDef struct {
	Factory        string       `yaml:"factory" toml:"factory" json:"factory"`
	Args           []string     `yaml:"args" toml:"args" json:"args"`
	Name           string       `yaml:"name" toml:"name" json:"name"`
	Ref            string       `yaml:"ref" toml:"ref" json:"ref"`
	Category       string       `yaml:"category" toml:"category" json:"category"`
	Begin          string       `yaml:"begin" toml:"begin" json:"begin"`
	Match          string       `yaml:"match" toml:"match" json:"match"`
	End            string       `yaml:"end" toml:"end" json:"end"`
	BeginKeywords  string       `yaml:"begin_keywords" toml:"begin_keywords" json:"begin_keywords"`
	Keywords       *KeywordsDef `yaml:"keywords" toml:"keywords" json:"keywords"`
	NoKeywords     bool         `yaml:"no_keywords" toml:"no_keywords" json:"no_keywords"`
	Illegal        string       `yaml:"illegal" toml:"illegal" json:"illegal"`
	Relevance      int          `yaml:"relevance" toml:"relevance" json:"relevance"`
	Contains       []*ModeDef   `yaml:"contains" toml:"contains" json:"contains"`
	Variants       []*ModeDef   `yaml:"variants" toml:"variants" json:"variants"`
	Starts         *ModeDef     `yaml:"starts" toml:"starts" json:"starts"`
	EndSameAsBegin bool         `yaml:"end_same_as_begin" toml:"end_same_as_begin" json:"end_same_as_begin"`
	ExcludeBegin   bool         `yaml:"exclude_begin" toml:"exclude_begin" json:"exclude_begin"`
	ExcludeEnd     bool         `yaml:"exclude_end" toml:"exclude_end" json:"exclude_end"`
	ReturnBegin    bool         `yaml:"return_begin" toml:"return_begin" json:"return_begin"`
	ReturnEnd      bool         `yaml:"return_end" toml:"return_end" json:"return_end"`
	EndsParent     bool         `yaml:"ends_parent" toml:"ends_parent" json:"ends_parent"`
	EndsWithParent bool         `yaml:"ends_with_parent" toml:"ends_with_parent" json:"ends_with_parent"`
	Skip           bool         `yaml:"skip" toml:"skip" json:"skip"`
	StartOfText    bool         `yaml:"start_of_text" toml:"start_of_text" json:"start_of_text"`
	Delegate       []string     `yaml:"delegate" toml:"delegate" json:"delegate"`
}

// Factory builds a shared mode from string arguments.
type Factory struct {
	MinArgs, MaxArgs int
	New              func(args []string) *grammar.Mode
}

func noArgs(f func() *grammar.Mode) Factory {
	return Factory{New: func([]string) *grammar.Mode { return f() }}
}

// Factories lists shared modes available in definition files by name.
var Factories = map[string]Factory{
	"backslash_escape": noArgs(grammar.BackslashEscape),
	"apos_string":      noArgs(grammar.AposString),
	"quote_string":     noArgs(grammar.QuoteString),
	"hash_comment":     noArgs(grammar.HashComment),
	"c_line_comment":   noArgs(grammar.CLineComment),
	"c_block_comment":  noArgs(grammar.CBlockComment),
	"number":           noArgs(grammar.Number),
	"c_number":         noArgs(grammar.CNumber),
	"binary_number":    noArgs(grammar.BinaryNumber),
	"title":            noArgs(grammar.Title),
	"underscore_title": noArgs(grammar.UnderscoreTitle),
	"comment": {MinArgs: 2, MaxArgs: 2, New: func(args []string) *grammar.Mode {
		return grammar.Comment(args[0], args[1])
	}},
	"shebang": {MaxArgs: 1, New: func(args []string) *grammar.Mode {
		binary := ""
		if len(args) > 0 {
			binary = args[0]
		}
		return grammar.Shebang(binary)
	}},
}

var builtinFragments = map[string]string{
	"ident":            grammar.IdentRe,
	"underscore_ident": grammar.UnderscoreIdentRe,
	"number":           grammar.NumberRe,
	"c_number":         grammar.CNumberRe,
	"binary_number":    grammar.BinaryNumberRe,
	"re_starters":      grammar.ReStartersRe,
}

var tieBreaks = map[string]grammar.TieBreak{
	"":                             grammar.ChildrenFirst,
	grammar.ChildrenFirst.String(): grammar.ChildrenFirst,
	grammar.EndFirst.String():      grammar.EndFirst,
}

func badDefinitionError(where, msg string, params ...any) *hilite.Error {
	return hilite.FormatError(ErrBadDefinition, where+": "+msg, params...)
}

type converter struct {
	named map[string]*grammar.Mode
}

// Grammar converts definition to grammar.
// Returns nil and hilite.Error with ErrBadDefinition code if definition is inconsistent.
// Patterns are not compiled here, lexer.New reports pattern errors.
func (d *Definition) Grammar() (*grammar.Grammar, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, badDefinitionError("grammar", "name is not set")
	}
	where := "grammar " + d.Name

	tb, found := tieBreaks[strings.ToLower(d.TieBreak)]
	if !found {
		return nil, badDefinitionError(where, "unknown tie break %q", d.TieBreak)
	}

	g := &grammar.Grammar{
		Name:              d.Name,
		Aliases:           append([]string(nil), d.Aliases...),
		CaseInsensitive:   d.CaseInsensitive,
		Keywords:          convertKeywords(d.Keywords),
		Illegal:           d.Illegal,
		IllegalAtRootOnly: d.IllegalAtRootOnly,
		TieBreak:          tb,
		Fragments:         make(map[string]string, len(builtinFragments)+len(d.Fragments)),
	}
	for name, src := range builtinFragments {
		g.Fragments[name] = src
	}
	for name, src := range d.Fragments {
		g.Fragments[name] = src
	}

	c := &converter{named: make(map[string]*grammar.Mode, len(d.Modes))}
	names := make([]string, 0, len(d.Modes))
	for name := range d.Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == "" || name == grammar.SelfRef {
			return nil, badDefinitionError(where, "incorrect mode name %q", name)
		}
		m, e := c.mode(d.Modes[name], "mode "+name)
		if e != nil {
			return nil, e
		}
		if m.IsRef() {
			return nil, badDefinitionError("mode "+name, "named mode cannot be a reference")
		}
		if m.Name == "" {
			m.Name = name
		}
		c.named[name] = m
	}
	if len(c.named) > 0 {
		g.Modes = c.named
	}

	var e error
	g.Contains, e = c.modes(d.Contains, where)
	if e != nil {
		return nil, e
	}
	return g, nil
}

func convertKeywords(kd *KeywordsDef) *grammar.Keywords {
	if kd == nil {
		return nil
	}

	res := &grammar.Keywords{
		Pattern:    kd.Pattern,
		Categories: make(map[string][]string, len(kd.Categories)+1),
	}
	for cat, words := range kd.Categories {
		res.Categories[cat] = append([]string(nil), words...)
	}
	if len(kd.Words) > 0 {
		res.Categories[keywords.DefaultCategory] = append(res.Categories[keywords.DefaultCategory], kd.Words...)
	}
	return res
}

func (c *converter) modes(defs []*ModeDef, where string) ([]*grammar.Mode, error) {
	if defs == nil {
		return nil, nil
	}

	res := make([]*grammar.Mode, len(defs))
	for i, md := range defs {
		m, e := c.mode(md, where)
		if e != nil {
			return nil, e
		}
		res[i] = m
	}
	return res, nil
}

func (c *converter) mode(md *ModeDef, where string) (*grammar.Mode, error) {
	if md == nil {
		return nil, badDefinitionError(where, "empty mode")
	}
	if md.Name != "" {
		where = "mode " + md.Name
	}

	if md.Ref != "" {
		bare := *md
		bare.Ref = ""
		if !reflect.ValueOf(bare).IsZero() {
			return nil, badDefinitionError(where, "reference %q has other fields", md.Ref)
		}
		return grammar.Ref(md.Ref), nil
	}

	m := &grammar.Mode{
		Name:           md.Name,
		Category:       md.Category,
		Begin:          md.Begin,
		Match:          md.Match,
		End:            md.End,
		BeginKeywords:  md.BeginKeywords,
		Keywords:       convertKeywords(md.Keywords),
		NoKeywords:     md.NoKeywords,
		Illegal:        md.Illegal,
		Relevance:      md.Relevance,
		EndSameAsBegin: md.EndSameAsBegin,
		ExcludeBegin:   md.ExcludeBegin,
		ExcludeEnd:     md.ExcludeEnd,
		ReturnBegin:    md.ReturnBegin,
		ReturnEnd:      md.ReturnEnd,
		EndsParent:     md.EndsParent,
		EndsWithParent: md.EndsWithParent,
		Skip:           md.Skip,
		StartOfText:    md.StartOfText,
		Delegate:       append([]string(nil), md.Delegate...),
	}

	var e error
	if m.Contains, e = c.modes(md.Contains, where); e != nil {
		return nil, e
	}
	if m.Variants, e = c.modes(md.Variants, where+" variant"); e != nil {
		return nil, e
	}
	if md.Starts != nil {
		if m.Starts, e = c.mode(md.Starts, where+" starts"); e != nil {
			return nil, e
		}
	}

	if md.Factory == "" {
		if len(md.Args) > 0 {
			return nil, badDefinitionError(where, "arguments given without factory")
		}
		return m, nil
	}

	f, found := Factories[md.Factory]
	switch {
	case !found:
		return nil, badDefinitionError(where, "unknown factory %q", md.Factory)
	case len(md.Args) < f.MinArgs || len(md.Args) > f.MaxArgs:
		return nil, badDefinitionError(where, "factory %q expects %d to %d arguments, got %d",
			md.Factory, f.MinArgs, f.MaxArgs, len(md.Args))
	}
	return grammar.Inherit(f.New(md.Args), m), nil
}
