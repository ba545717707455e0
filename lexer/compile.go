package lexer

import (
	"strconv"
	"strings"

	"github.com/ava12/hilite"
	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/internal/queue"
	"github.com/ava12/hilite/keywords"
	"github.com/ava12/hilite/pattern"
)

// anywhereRe matches empty string at any position.
const anywhereRe = `\B|\b`

const rootIndex = 0

type modeKey struct {
	def     *grammar.Mode
	variant int
}

type compileJob struct {
	index int
	def   *grammar.Mode
}

type compiler struct {
	g        *grammar.Grammar
	popts    pattern.Options
	frags    *pattern.Fragments
	modes    []*mode
	index    map[modeKey]int
	patterns map[string]*pattern.Pattern
	tables   map[*grammar.Keywords]*keywords.Table
	jobs     *queue.Queue[compileJob]
	illegal  *pattern.Pattern
}

func undefinedModeError(name, where string) *hilite.Error {
	return hilite.FormatError(ErrUndefinedMode, "undefined mode %q referenced by %s", name, where)
}

func badModeError(where, msg string, params ...any) *hilite.Error {
	return hilite.FormatError(ErrBadMode, where+": "+msg, params...)
}

// inContext prefixes hilite.Error message with grammar part description.
func inContext(e error, where string) error {
	he, ok := e.(*hilite.Error)
	if !ok {
		return e
	}
	return hilite.FormatError(he.Code, "%s: %s", where, he.Message)
}

func newCompiler(g *grammar.Grammar, o Options) (*compiler, error) {
	frags, e := pattern.ResolveFragments(g.Fragments)
	if e != nil {
		return nil, inContext(e, "grammar "+g.Name)
	}

	return &compiler{
		g:        g,
		popts:    pattern.Options{CaseInsensitive: g.CaseInsensitive, MatchTimeout: o.MatchTimeout},
		frags:    frags,
		index:    make(map[modeKey]int),
		patterns: make(map[string]*pattern.Pattern),
		tables:   make(map[*grammar.Keywords]*keywords.Table),
		jobs:     queue.New[compileJob](),
	}, nil
}

func (c *compiler) compile() error {
	root := &grammar.Mode{
		Name:     "root",
		Contains: c.g.Contains,
		Keywords: c.g.Keywords,
	}
	if c.g.Keywords == nil {
		root.NoKeywords = true
	}
	c.modeIndex(root, -1)

	var e error
	if c.g.Illegal != "" {
		c.illegal, e = c.pattern(c.g.Illegal, "grammar illegal pattern")
		if e != nil {
			return e
		}
	}

	for {
		job, ok := c.jobs.First()
		if !ok {
			break
		}
		if e = c.compileMode(job); e != nil {
			return e
		}
	}
	return nil
}

// modeIndex returns the index of compiled mode, new modes are queued for compilation.
func (c *compiler) modeIndex(def *grammar.Mode, variant int) int {
	key := modeKey{def, variant}
	if index, found := c.index[key]; found {
		return index
	}

	eff := def
	if variant >= 0 {
		base := *def
		base.Variants = nil
		eff = grammar.Inherit(&base, def.Variants[variant])
	}

	index := len(c.modes)
	c.index[key] = index
	c.modes = append(c.modes, &mode{index: index, starts: -1})
	c.jobs.Append(compileJob{index, eff})
	return index
}

func describeMode(index int, def *grammar.Mode) string {
	switch {
	case index == rootIndex:
		return "root mode"
	case def.Name != "":
		return "mode " + strconv.Quote(def.Name)
	default:
		return "mode #" + strconv.Itoa(index)
	}
}

func (c *compiler) pattern(src, where string) (*pattern.Pattern, error) {
	src, e := c.frags.Expand(src, where)
	if e != nil {
		return nil, e
	}
	if p, found := c.patterns[src]; found {
		return p, nil
	}

	p, e := pattern.Compile(src, c.popts)
	if e != nil {
		return nil, inContext(e, where)
	}
	c.patterns[src] = p
	return p, nil
}

func (c *compiler) table(def *grammar.Keywords, where string) (*keywords.Table, error) {
	if t, found := c.tables[def]; found {
		return t, nil
	}

	kd := *def
	if kd.Pattern != "" {
		src, e := c.frags.Expand(kd.Pattern, where)
		if e != nil {
			return nil, e
		}
		kd.Pattern = src
	}
	t, e := keywords.Compile(kd, c.popts)
	if e != nil {
		return nil, inContext(e, where)
	}
	c.tables[def] = t
	return t, nil
}

func validateMode(def *grammar.Mode, where string) error {
	switch {
	case def.Match != "" && (def.Begin != "" || def.End != "" || def.BeginKeywords != ""):
		return badModeError(where, "match is used along with begin or end")
	case def.Begin != "" && def.BeginKeywords != "":
		return badModeError(where, "both begin and begin keywords are set")
	case def.EndSameAsBegin && def.Begin == "" && def.Match == "" && def.BeginKeywords == "":
		return badModeError(where, "end same as begin requires begin pattern")
	}
	for _, name := range def.Delegate {
		if name == "" {
			return badModeError(where, "empty delegated grammar name")
		}
	}
	return nil
}

func (c *compiler) compileMode(job compileJob) error {
	m := c.modes[job.index]
	def := job.def
	where := describeMode(job.index, def)
	if e := validateMode(def, where); e != nil {
		return e
	}

	m.name = def.Name
	m.category = def.Category
	m.relevance = def.Relevance
	if len(def.Delegate) > 0 {
		m.delegate = append([]string(nil), def.Delegate...)
	}

	flags := []struct {
		set  bool
		flag modeFlags
	}{
		{def.EndSameAsBegin, endSameAsBegin},
		{def.ExcludeBegin, excludeBegin},
		{def.ExcludeEnd, excludeEnd},
		{def.ReturnBegin, returnBegin},
		{def.ReturnEnd, returnEnd},
		{def.EndsParent, endsParent},
		{def.EndsWithParent, endsWithParent},
		{def.Skip, skip},
		{def.StartOfText, startOfText},
		{def.BeginKeywords != "", afterDotFilter},
	}
	for _, f := range flags {
		if f.set {
			m.flags |= f.flag
		}
	}

	e := c.compilePatterns(m, def, where)
	if e == nil {
		e = c.compileKeywords(m, def, where)
	}
	if e == nil {
		e = c.compileChildren(m, def, where)
	}
	return e
}

func (c *compiler) compilePatterns(m *mode, def *grammar.Mode, where string) error {
	var e error
	if m.index != rootIndex {
		src := def.Begin
		switch {
		case def.Match != "":
			src = def.Match
		case def.BeginKeywords != "":
			src = pattern.Concat(pattern.Words(def.BeginKeywords), pattern.Raw(`(?!\.)(?=\b|\.)`)).Source()
		case src == "":
			src = anywhereRe
		}
		if m.begin, e = c.pattern(src, where+" begin"); e != nil {
			return e
		}

		switch {
		case def.End != "":
			m.end, e = c.pattern(def.End, where+" end")
		case def.EndSameAsBegin || def.EndsWithParent:
		default:
			m.end, e = c.pattern(anywhereRe, where+" end")
		}
		if e != nil {
			return e
		}
	}

	if def.Illegal != "" {
		m.illegal, e = c.pattern(def.Illegal, where+" illegal")
	}
	return e
}

func (c *compiler) compileKeywords(m *mode, def *grammar.Mode, where string) error {
	var e error
	switch {
	case def.Keywords != nil:
		m.kwPolicy = ownKeywords
		m.keywords, e = c.table(def.Keywords, where+" keywords")
	case def.BeginKeywords != "":
		m.kwPolicy = ownKeywords
		m.keywords, e = keywords.Compile(keywords.Def{
			Categories: map[string][]string{keywords.DefaultCategory: strings.Fields(def.BeginKeywords)},
		}, c.popts)
		if e != nil {
			e = inContext(e, where+" begin keywords")
		}
	case def.NoKeywords:
		m.kwPolicy = noKeywords
	default:
		m.kwPolicy = inheritKeywords
	}
	return e
}

// deref resolves mode reference, nil result means reference to the containing mode.
func (c *compiler) deref(ref *grammar.Mode, where string) (*grammar.Mode, error) {
	if ref == nil {
		return nil, badModeError(where, "nil child mode")
	}
	if !ref.IsRef() {
		return ref, nil
	}
	if ref.Ref == grammar.SelfRef {
		return nil, nil
	}

	target := c.g.Modes[ref.Ref]
	if target == nil {
		return nil, undefinedModeError(ref.Ref, where)
	}
	if target.IsRef() {
		return nil, badModeError(where, "named mode %q is a reference", ref.Ref)
	}
	return target, nil
}

func (c *compiler) compileChildren(m *mode, def *grammar.Mode, where string) error {
	for _, child := range def.Contains {
		target, e := c.deref(child, where)
		if e != nil {
			return e
		}
		if target == nil {
			m.children = append(m.children, m.index)
			continue
		}
		if len(target.Variants) == 0 {
			m.children = append(m.children, c.modeIndex(target, -1))
			continue
		}
		for i, v := range target.Variants {
			if v == nil || len(v.Variants) > 0 {
				return badModeError(where, "variant #%d of child mode is empty or has variants", i)
			}
			m.children = append(m.children, c.modeIndex(target, i))
		}
	}

	if def.Starts == nil {
		return nil
	}
	target, e := c.deref(def.Starts, where)
	switch {
	case e != nil:
		return e
	case target == nil:
		m.starts = m.index
	case len(target.Variants) > 0:
		return badModeError(where, "starts mode has variants")
	default:
		m.starts = c.modeIndex(target, -1)
	}
	return nil
}
