package lexer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/hilite"
	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/internal/test"
	"github.com/ava12/hilite/keywords"
	"github.com/ava12/hilite/pattern"
)

type piece struct {
	Category string
	Text     string
	Depth    int
}

type resolverMap map[string]*Lexer

func (rm resolverMap) Resolve(name string) (*Lexer, error) {
	if l, has := rm[name]; has {
		return l, nil
	}
	return nil, hilite.FormatError(hilite.RegistryErrors, "unknown grammar %q", name)
}

func compile(t *testing.T, g *grammar.Grammar, r Resolver) *Lexer {
	t.Helper()
	l, e := New(g, r, Options{})
	require.NoError(t, e)
	return l
}

func scan(t *testing.T, l *Lexer, text string) *Result {
	t.Helper()
	res, e := l.Scan(text)
	require.NoError(t, e)
	checkCoverage(t, text, res)
	return res
}

// checkCoverage asserts that tokens are non-empty, ordered, and cover the whole text.
func checkCoverage(t *testing.T, text string, res *Result) {
	t.Helper()
	pos := 0
	var sb strings.Builder
	for i, tok := range res.Tokens {
		require.Equal(t, pos, tok.Start, "token #%d starts at wrong offset", i)
		require.Greater(t, tok.End, tok.Start, "token #%d is empty", i)
		sb.WriteString(text[tok.Start:tok.End])
		pos = tok.End
	}
	require.Equal(t, len(text), pos)
	require.Equal(t, text, sb.String())
	for i, r := range res.Regions {
		require.LessOrEqual(t, r.Start, r.End, "region #%d", i)
		require.LessOrEqual(t, r.End, len(text), "region #%d", i)
	}
}

func pieces(res *Result, tokens []Token) []piece {
	ps := make([]piece, len(tokens))
	for i, t := range tokens {
		ps[i] = piece{t.Category, res.TokenText(t), t.Depth}
	}
	return ps
}

func braceGrammar() *grammar.Grammar {
	return &grammar.Grammar{
		Name: "braces",
		Contains: []*grammar.Mode{{
			Name:     "brace",
			Category: "brace",
			Begin:    `\{`,
			End:      `\}`,
			Contains: []*grammar.Mode{grammar.Self()},
		}},
	}
}

func TestLineComment(t *testing.T) {
	l := compile(t, &grammar.Grammar{Name: "hash", Contains: []*grammar.Mode{grammar.HashComment()}}, nil)
	text := "x = 1 # note\ny = 2"
	res := scan(t, l, text)
	expected := []piece{
		{"", "x = 1 ", 0},
		{"comment", "# note", 1},
		{"", "\ny = 2", 0},
	}
	assert.Equal(t, expected, pieces(res, res.Merged()))
	assert.Equal(t, []Region{{Category: "comment", Start: 6, End: 12, Depth: 1, Grammar: "hash"}}, res.Regions)
}

func TestNestedEscape(t *testing.T) {
	l := compile(t, &grammar.Grammar{Name: "str", Contains: []*grammar.Mode{grammar.QuoteString()}}, nil)
	text := `"a\"b"`
	res := scan(t, l, text)
	assert.Equal(t, []piece{{"string", text, 1}}, pieces(res, res.Merged()))
	require.Len(t, res.Regions, 1)
	assert.Equal(t, len(text), res.Regions[0].End)
}

func TestRecursiveBraces(t *testing.T) {
	l := compile(t, braceGrammar(), nil)
	res := scan(t, l, "{ { } }")

	var kinds []TokenKind
	var depths []int
	for _, tok := range res.Tokens {
		if tok.Kind == Begin || tok.Kind == End {
			kinds = append(kinds, tok.Kind)
			depths = append(depths, tok.Depth)
		}
	}
	assert.Equal(t, []TokenKind{Begin, Begin, End, End}, kinds)
	assert.Equal(t, []int{1, 2, 2, 1}, depths)
	assert.Equal(t, []Region{
		{Category: "brace", Start: 0, End: 7, Depth: 1, Grammar: "braces"},
		{Category: "brace", Start: 2, End: 5, Depth: 2, Grammar: "braces"},
	}, res.Regions)
}

func TestIllegal(t *testing.T) {
	g := &grammar.Grammar{Name: "noat", Illegal: `@`, Contains: []*grammar.Mode{grammar.QuoteString()}}
	l := compile(t, g, nil)

	samples := []string{"a @ b", `"x@y"`, "@"}
	for _, text := range samples {
		res, e := l.Scan(text)
		test.ExpectErrorCode(t, ErrIllegalConstruct, e)
		assert.Nil(t, res)
	}

	res, e := l.ScanLenient("a @ b")
	require.NoError(t, e)
	checkCoverage(t, "a @ b", res)

	_, e = l.Scan("ok\n  @")
	var he *hilite.Error
	require.ErrorAs(t, e, &he)
	assert.Equal(t, 2, he.Line)
	assert.Equal(t, 3, he.Col)
}

func TestIllegalInsideLexeme(t *testing.T) {
	g := &grammar.Grammar{
		Name:     "noat",
		Illegal:  `@`,
		Contains: []*grammar.Mode{{Category: "string", Match: `'[^']*'`}},
	}
	l := compile(t, g, nil)

	res := scan(t, l, "x '@' y")
	assert.Equal(t, []piece{{"", "x ", 0}, {"string", "'@'", 1}, {"", " y", 0}}, pieces(res, res.Merged()))

	_, e := l.Scan("x @ y")
	test.ExpectErrorCode(t, ErrIllegalConstruct, e)
	_, e = l.Scan("'a' @")
	test.ExpectErrorCode(t, ErrIllegalConstruct, e)
}

func TestIllegalAtRootOnly(t *testing.T) {
	g := &grammar.Grammar{Name: "noat", Illegal: `@`, IllegalAtRootOnly: true, Contains: []*grammar.Mode{grammar.QuoteString()}}
	l := compile(t, g, nil)
	scan(t, l, `"x@y"`)
	_, e := l.Scan("x@y")
	test.ExpectErrorCode(t, ErrIllegalConstruct, e)

	g = &grammar.Grammar{Name: "str", Contains: []*grammar.Mode{grammar.QuoteString()}}
	l = compile(t, g, nil)
	_, e = l.Scan("\"a\nb\"")
	test.ExpectErrorCode(t, ErrIllegalConstruct, e)
}

func TestDelegation(t *testing.T) {
	rm := resolverMap{}
	inner := compile(t, &grammar.Grammar{
		Name:     "inner",
		Keywords: grammar.Words("keyword", "let"),
		Contains: []*grammar.Mode{grammar.Number()},
	}, rm)
	outer := compile(t, &grammar.Grammar{
		Name: "outer",
		Contains: []*grammar.Mode{{
			Category:  "template",
			Begin:     `\{\{`,
			End:       `\}\}`,
			Delegate:  []string{"inner"},
			Relevance: 1,
		}},
	}, rm)
	rm["inner"] = inner
	rm["outer"] = outer

	text := "a {{let x 1}} let"
	res := scan(t, outer, text)
	expected := []piece{
		{"", "a ", 0},
		{"template", "{{", 1},
		{"keyword", "let", 2},
		{"", " x ", 2},
		{"number", "1", 3},
		{"template", "}}", 1},
		{"", " let", 0},
	}
	assert.Equal(t, expected, pieces(res, res.Merged()))

	var grammars []string
	for _, tok := range res.Merged() {
		grammars = append(grammars, tok.Grammar)
	}
	assert.Equal(t, []string{"outer", "outer", "inner", "inner", "inner", "outer", "outer"}, grammars)

	assert.Equal(t, []Region{
		{Category: "template", Start: 2, End: 13, Depth: 1, Grammar: "outer"},
		{Category: "language:inner", Start: 4, End: 11, Depth: 2, Grammar: "inner"},
		{Category: "number", Start: 10, End: 11, Depth: 3, Grammar: "inner"},
	}, res.Regions)
	assert.Equal(t, 1, res.Relevance)
}

func TestDelegationContinues(t *testing.T) {
	rm := resolverMap{}
	rm["inner"] = compile(t, &grammar.Grammar{
		Name:     "inner",
		Contains: []*grammar.Mode{{Category: "string", Begin: `'`, End: `'`}},
	}, rm)
	outer := compile(t, &grammar.Grammar{
		Name: "outer",
		Contains: []*grammar.Mode{{
			Begin:    `<`,
			End:      `>`,
			Delegate: []string{"inner"},
			Contains: []*grammar.Mode{{Category: "subst", Match: `\$\w+`}},
		}},
	}, rm)

	res := scan(t, outer, "<'a $x b' c>")
	expected := []piece{
		{"", "<", 0},
		{"string", "'a ", 2},
		{"subst", "$x", 1},
		{"string", " b'", 2},
		{"", " c", 1},
		{"", ">", 0},
	}
	assert.Equal(t, expected, pieces(res, res.Merged()))
}

func TestUnknownDelegate(t *testing.T) {
	g := &grammar.Grammar{
		Name:     "outer",
		Contains: []*grammar.Mode{{Category: "code", Begin: "`", End: "`", Delegate: []string{"missing"}}},
	}
	for _, r := range []Resolver{nil, resolverMap{}} {
		l := compile(t, g, r)
		res := scan(t, l, "`x y`")
		assert.Equal(t, []piece{{"code", "`x y`", 1}}, pieces(res, res.Merged()))
	}
}

func TestBestDelegate(t *testing.T) {
	rm := resolverMap{}
	rm["words"] = compile(t, &grammar.Grammar{Name: "words", Keywords: grammar.Words("keyword", "select where")}, rm)
	rm["strict"] = compile(t, &grammar.Grammar{Name: "strict", Illegal: `\w`}, rm)
	rm["plain"] = compile(t, &grammar.Grammar{Name: "plain"}, rm)
	outer := compile(t, &grammar.Grammar{
		Name: "outer",
		Contains: []*grammar.Mode{{
			Begin:     `\[`,
			End:       `\]`,
			Delegate:  []string{"plain", "strict", "words", "missing"},
			Relevance: 1,
		}},
	}, rm)

	res := scan(t, outer, "[select a where b]")
	require.Len(t, res.Regions, 1)
	assert.Equal(t, "language:words", res.Regions[0].Category)
	assert.Equal(t, 2, res.Relevance)
}

func TestEndSameAsBegin(t *testing.T) {
	g := &grammar.Grammar{
		Name: "heredoc",
		Contains: []*grammar.Mode{
			grammar.EndSameAsBegin(&grammar.Mode{Category: "string", Begin: `<<(\w+)\n`}),
			grammar.EndSameAsBegin(&grammar.Mode{Category: "quoted", Begin: `\$(\w*)\$`, End: `\$(\w*)\$`}),
		},
	}
	l := compile(t, g, nil)

	text := "x <<EOF\nEND\nEOF\ny"
	res := scan(t, l, text)
	require.Len(t, res.Regions, 1)
	assert.Equal(t, "string", res.Regions[0].Category)
	assert.Equal(t, "<<EOF\nEND\nEOF", text[res.Regions[0].Start:res.Regions[0].End])

	text = "$a$ x $b$ y $a$ z"
	res = scan(t, l, text)
	require.Len(t, res.Regions, 1)
	assert.Equal(t, "$a$ x $b$ y $a$", text[res.Regions[0].Start:res.Regions[0].End])
}

func tieBreakGrammar(tb grammar.TieBreak) *grammar.Grammar {
	return &grammar.Grammar{
		Name:     "tie",
		TieBreak: tb,
		Contains: []*grammar.Mode{{
			Category: "block",
			Begin:    `\(`,
			End:      `\)`,
			Contains: []*grammar.Mode{{Category: "close", Match: `\)`}},
		}},
	}
}

func TestTieBreak(t *testing.T) {
	text := "(a)b"

	res := scan(t, compile(t, tieBreakGrammar(grammar.ChildrenFirst), nil), text)
	assert.Equal(t, []Region{
		{Category: "block", Start: 0, End: 4, Depth: 1, Grammar: "tie"},
		{Category: "close", Start: 2, End: 3, Depth: 2, Grammar: "tie"},
	}, res.Regions)

	res = scan(t, compile(t, tieBreakGrammar(grammar.EndFirst), nil), text)
	assert.Equal(t, []Region{{Category: "block", Start: 0, End: 3, Depth: 1, Grammar: "tie"}}, res.Regions)
}

func TestKeywords(t *testing.T) {
	g := &grammar.Grammar{
		Name:     "kw",
		Keywords: grammar.Words("keyword", "if then fi"),
		Contains: []*grammar.Mode{
			grammar.QuoteString(),
			{Begin: `\(`, End: `\)`},
			{Category: "own", Begin: `\[`, End: `\]`, Keywords: grammar.Words("literal", "true")},
		},
	}
	l := compile(t, g, nil)
	text := `if x then "if" (if) [if true] fi`
	res := scan(t, l, text)
	expected := []piece{
		{"keyword", "if", 0},
		{"", " x ", 0},
		{"keyword", "then", 0},
		{"", " ", 0},
		{"string", `"if"`, 1},
		{"", " (", 0},
		{"keyword", "if", 0},
		{"", ") ", 0},
		{"own", "[if ", 1},
		{"literal", "true", 1},
		{"own", "]", 1},
		{"", " ", 0},
		{"keyword", "fi", 0},
	}
	assert.Equal(t, expected, pieces(res, res.Merged()))
	assert.Equal(t, 2, res.Relevance)
}

func TestCaseInsensitive(t *testing.T) {
	g := &grammar.Grammar{
		Name:            "sql",
		CaseInsensitive: true,
		Keywords:        grammar.Words("keyword", "select from"),
		Contains:        []*grammar.Mode{{Category: "string", Begin: `q'`, End: `'`}},
	}
	l := compile(t, g, nil)
	res := scan(t, l, "SELECT a From Q'b'")
	expected := []piece{
		{"keyword", "SELECT", 0},
		{"", " a ", 0},
		{"keyword", "From", 0},
		{"", " ", 0},
		{"string", "Q'b'", 1},
	}
	assert.Equal(t, expected, pieces(res, res.Merged()))
	assert.Equal(t, 2, res.Relevance)
}

func TestBeginKeywords(t *testing.T) {
	g := &grammar.Grammar{
		Name: "decl",
		Contains: []*grammar.Mode{{
			Category:      "class",
			BeginKeywords: "class interface",
			End:           `\{`,
			ExcludeEnd:    true,
			Contains:      []*grammar.Mode{grammar.Title()},
		}},
	}
	l := compile(t, g, nil)
	res := scan(t, l, "x.class; class Foo {")
	expected := []piece{
		{"", "x.class; ", 0},
		{"keyword", "class", 1},
		{"class", " ", 1},
		{"title", "Foo", 2},
		{"class", " ", 1},
		{"", "{", 0},
	}
	assert.Equal(t, expected, pieces(res, res.Merged()))
}

func TestExcludeAndReturn(t *testing.T) {
	g := &grammar.Grammar{
		Name: "flags",
		Contains: []*grammar.Mode{
			{Category: "inner", Begin: `\(`, End: `\)`, ExcludeBegin: true, ExcludeEnd: true},
			{
				Category:    "call",
				Begin:       `\w+(?=\[)`,
				ReturnBegin: true,
				End:         `\]`,
				Contains:    []*grammar.Mode{{Category: "title", Begin: `\w+`}},
			},
			{Category: "tag", Begin: `<`, End: `(?=;)`, ReturnEnd: true},
		},
	}
	l := compile(t, g, nil)

	res := scan(t, l, "x(ab)y")
	assert.Equal(t, []piece{{"", "x(", 0}, {"inner", "ab", 1}, {"", ")y", 0}}, pieces(res, res.Merged()))

	res = scan(t, l, "foo[x]")
	expected := []piece{
		{"title", "foo", 2},
		{"call", "[", 1},
		{"title", "x", 2},
		{"call", "]", 1},
	}
	assert.Equal(t, expected, pieces(res, res.Merged()))
	assert.Equal(t, Region{Category: "call", Start: 0, End: 6, Depth: 1, Grammar: "flags"}, res.Regions[0])

	res = scan(t, l, "<a;b")
	assert.Equal(t, []piece{{"tag", "<a", 1}, {"", ";b", 0}}, pieces(res, res.Merged()))
}

func TestSkip(t *testing.T) {
	g := &grammar.Grammar{
		Name: "skip",
		Contains: []*grammar.Mode{{
			Category: "string",
			Begin:    `"`,
			End:      `"`,
			Contains: []*grammar.Mode{{Begin: `\\"`, Skip: true, Relevance: 5}},
		}},
	}
	l := compile(t, g, nil)
	res := scan(t, l, `"a\"b"`)
	require.Len(t, res.Tokens, 3)
	assert.Equal(t, Begin, res.Tokens[0].Kind)
	assert.Equal(t, `a\"b`, res.TokenText(res.Tokens[1]))
	assert.Equal(t, End, res.Tokens[2].Kind)
	assert.Equal(t, 0, res.Relevance)
}

func TestEndsParent(t *testing.T) {
	g := &grammar.Grammar{
		Name: "ends",
		Contains: []*grammar.Mode{
			{
				Category: "list",
				Begin:    `\[`,
				End:      `\]`,
				Contains: []*grammar.Mode{{Category: "stop", Begin: `!`, EndsParent: true}},
			},
			{
				Category: "tag",
				Begin:    `<`,
				End:      `>`,
				Contains: []*grammar.Mode{{
					Category:       "attr",
					Begin:          `\w+=`,
					EndsWithParent: true,
					Contains:       []*grammar.Mode{grammar.QuoteString()},
				}},
			},
		},
	}
	l := compile(t, g, nil)

	res := scan(t, l, "[a!b]c")
	assert.Equal(t, []piece{{"list", "[a", 1}, {"stop", "!", 2}, {"", "b]c", 0}}, pieces(res, res.Merged()))

	text := `<a x="1">z`
	res = scan(t, l, text)
	expected := []piece{
		{"tag", "<a ", 1},
		{"attr", "x=", 2},
		{"string", `"1"`, 3},
		{"tag", ">", 1},
		{"", "z", 0},
	}
	assert.Equal(t, expected, pieces(res, res.Merged()))
	assert.Equal(t, Region{Category: "attr", Start: 3, End: 8, Depth: 2, Grammar: "ends"}, res.Regions[1])
}

func TestEndsParentAtRootTerminates(t *testing.T) {
	g := &grammar.Grammar{
		Name:     "term",
		Keywords: grammar.Words("keyword", "stop"),
		Contains: []*grammar.Mode{{Category: "marker", Match: `__END__`, EndsParent: true}},
	}
	l := compile(t, g, nil)
	res := scan(t, l, "stop __END__ stop {")
	expected := []piece{
		{"keyword", "stop", 0},
		{"", " ", 0},
		{"marker", "__END__", 1},
		{"", " stop {", 0},
	}
	assert.Equal(t, expected, pieces(res, res.Merged()))
}

func TestStartsAndVariants(t *testing.T) {
	g := &grammar.Grammar{
		Name: "starts",
		Modes: map[string]*grammar.Mode{
			"string": {
				Category: "string",
				Variants: []*grammar.Mode{
					{Begin: `"`, End: `"`},
					{Begin: `'`, End: `'`, Relevance: 2},
				},
			},
		},
		Contains: []*grammar.Mode{
			grammar.Ref("string"),
			{
				Category: "keyword",
				Match:    `\bfunc\b`,
				Starts:   &grammar.Mode{Category: "title", End: `(?=\()`, Contains: []*grammar.Mode{grammar.Ref("string")}},
			},
		},
	}
	l := compile(t, g, nil)
	assert.Equal(t, 5, l.ModeCount())

	res := scan(t, l, `func f'x'() "a" 'b'`)
	expected := []piece{
		{"keyword", "func", 1},
		{"title", " f", 1},
		{"string", "'x'", 2},
		{"", `() `, 0},
		{"string", `"a"`, 1},
		{"", " ", 0},
		{"string", "'b'", 1},
	}
	assert.Equal(t, expected, pieces(res, res.Merged()))
	assert.Equal(t, 4, res.Relevance)
}

func TestShebangRelevance(t *testing.T) {
	g := &grammar.Grammar{
		Name:     "sh",
		Contains: []*grammar.Mode{grammar.Shebang("bash|sh"), grammar.HashComment(), {Category: "penalty", Match: `;;;`, Relevance: -20}},
	}
	l := compile(t, g, nil)

	res := scan(t, l, "#!/bin/bash\necho")
	assert.Equal(t, 10, res.Relevance)
	assert.Equal(t, "meta", res.Regions[0].Category)

	res = scan(t, l, "echo\n#!/bin/bash")
	assert.Equal(t, 0, res.Relevance)
	assert.Equal(t, "comment", res.Regions[0].Category)

	res = scan(t, l, "#!/bin/sh\n;;;")
	assert.Equal(t, 0, res.Relevance)
}

func TestEmptyInput(t *testing.T) {
	l := compile(t, braceGrammar(), nil)
	res, e := l.Scan("")
	require.NoError(t, e)
	assert.Empty(t, res.Tokens)
	assert.Empty(t, res.Regions)
	assert.Equal(t, 0, res.Relevance)
}

func TestZeroLengthMatches(t *testing.T) {
	g := &grammar.Grammar{
		Name: "zero",
		Contains: []*grammar.Mode{
			{Category: "empty", Begin: `(?=x)`},
			{Category: "loop", Begin: `(?=y)`, ReturnBegin: true, End: `(?=y)`, ReturnEnd: true},
			{Category: "deep", Begin: `(?=z)`, Contains: []*grammar.Mode{{Category: "deeper", Begin: `(?=z)`, EndsWithParent: true}}, End: `$`},
			{Category: "anchor", Begin: `^`},
		},
	}
	l := compile(t, g, nil)
	for _, text := range []string{"x", "xyx", "yyy", "zz\nzz", "\n\n", "a x y z"} {
		scan(t, l, text)
	}
}

func TestRecursionLimit(t *testing.T) {
	l, e := New(braceGrammar(), nil, Options{MaxDepth: 3})
	require.NoError(t, e)

	scan(t, l, "{{}}")
	_, e = l.Scan("{{{}}}")
	test.ExpectErrorCode(t, ErrRecursionLimit, e)

	rm := resolverMap{}
	self := compile(t, &grammar.Grammar{
		Name:     "self",
		Contains: []*grammar.Mode{{Begin: `\(`, End: `\)`, Delegate: []string{"self"}}},
	}, rm)
	rm["self"] = self
	_, e = self.Scan(strings.Repeat("(", 600) + strings.Repeat(")", 600))
	test.ExpectErrorCode(t, ErrRecursionLimit, e)
}

func TestDelegatedErrorPosition(t *testing.T) {
	rm := resolverMap{}
	self, e := New(&grammar.Grammar{
		Name:     "self",
		Contains: []*grammar.Mode{{Begin: `\(`, End: `\)`, Delegate: []string{"self"}}},
	}, rm, Options{MaxDepth: 3})
	require.NoError(t, e)
	rm["self"] = self

	_, e = self.Scan("ab\n" + strings.Repeat("(", 8) + strings.Repeat(")", 8))
	test.ExpectErrorCode(t, ErrRecursionLimit, e)
	var he *hilite.Error
	require.ErrorAs(t, e, &he)
	assert.Equal(t, 2, he.Line)
	assert.Greater(t, he.Col, 1)
	assert.LessOrEqual(t, he.Col, 8)
}

func TestCompileErrors(t *testing.T) {
	samples := []struct {
		g    *grammar.Grammar
		code int
	}{
		{&grammar.Grammar{Contains: []*grammar.Mode{{Begin: `(`}}}, pattern.ErrBadPattern},
		{&grammar.Grammar{Illegal: `[`}, pattern.ErrBadPattern},
		{&grammar.Grammar{Contains: []*grammar.Mode{grammar.Ref("missing")}}, ErrUndefinedMode},
		{&grammar.Grammar{Contains: []*grammar.Mode{{Begin: "{{a}}"}}, Fragments: map[string]string{"a": "{{b}}", "b": "{{a}}"}}, pattern.ErrFragmentCycle},
		{&grammar.Grammar{Contains: []*grammar.Mode{{Begin: "{{a}}"}}}, pattern.ErrUndefinedFragment},
		{&grammar.Grammar{Contains: []*grammar.Mode{{Match: "a", End: "b"}}}, ErrBadMode},
		{&grammar.Grammar{Contains: []*grammar.Mode{{EndSameAsBegin: true}}}, ErrBadMode},
		{&grammar.Grammar{Contains: []*grammar.Mode{{Begin: "a", Delegate: []string{""}}}}, ErrBadMode},
		{&grammar.Grammar{Contains: []*grammar.Mode{nil}}, ErrBadMode},
		{&grammar.Grammar{Keywords: &grammar.Keywords{Categories: map[string][]string{"k": {"a|b"}}}}, keywords.ErrBadKeywords},
		{nil, ErrBadMode},
	}
	for i, s := range samples {
		t.Run(fmt.Sprintf("sample %d", i), func(t *testing.T) {
			_, e := New(s.g, nil, Options{})
			test.ExpectErrorCode(t, s.code, e)
		})
	}
}

func TestFragments(t *testing.T) {
	g := &grammar.Grammar{
		Name:      "frag",
		Fragments: map[string]string{"ident": `[a-z]+`, "call": `{{ident}}(?=\()`},
		Contains:  []*grammar.Mode{{Category: "title", Match: "{{call}}"}},
	}
	res := scan(t, compile(t, g, nil), "a(b) c")
	assert.Equal(t, []piece{{"title", "a", 1}, {"", "(b) c", 0}}, pieces(res, res.Merged()))
}

func TestDeterminism(t *testing.T) {
	g := &grammar.Grammar{
		Name:     "mixed",
		Keywords: grammar.Words("keyword", "if else while"),
		Contains: []*grammar.Mode{
			grammar.CLineComment(), grammar.CBlockComment(), grammar.QuoteString(), grammar.AposString(), grammar.CNumber(),
			{Category: "block", Begin: `\{`, End: `\}`, Contains: []*grammar.Mode{grammar.Self(), grammar.QuoteString()}},
		},
	}
	text := "if (x) { while 'a' // c\n { y = \"{\" /* TODO: z */ 0x1F } } else 2.5e3"

	l1 := compile(t, g, nil)
	l2 := compile(t, g, nil)
	r1 := scan(t, l1, text)
	r2 := scan(t, l1, text)
	r3 := scan(t, l2, text)

	assert.Empty(t, cmp.Diff(r1, r2))
	assert.Empty(t, cmp.Diff(r1, r3))
	assert.Equal(t, l1.ModeCount(), l2.ModeCount())
}

func TestConcurrentScans(t *testing.T) {
	l := compile(t, braceGrammar(), nil)
	text := strings.Repeat("{ a { b } }", 50)
	expected := scan(t, l, text)

	results := make(chan *Result, 8)
	for i := 0; i < cap(results); i++ {
		go func() {
			res, _ := l.Scan(text)
			results <- res
		}()
	}
	for i := 0; i < cap(results); i++ {
		assert.Empty(t, cmp.Diff(expected, <-results))
	}
}

func TestMultibyteOffsets(t *testing.T) {
	l := compile(t, &grammar.Grammar{Name: "str", Contains: []*grammar.Mode{grammar.QuoteString()}}, nil)
	text := `ключ = "значение" ü`
	res := scan(t, l, text)
	merged := res.Merged()
	require.Len(t, merged, 3)
	assert.Equal(t, `"значение"`, res.TokenText(merged[1]))
	assert.Equal(t, "string", merged[1].Category)
}

func TestDelegates(t *testing.T) {
	g := &grammar.Grammar{
		Name: "multi",
		Contains: []*grammar.Mode{
			{Begin: "a", End: "b", Delegate: []string{"css", "js"}},
			{Begin: "c", End: "d", Delegate: []string{"js"}},
		},
	}
	l := compile(t, g, nil)
	assert.Equal(t, []string{"css", "js"}, l.Delegates())
	assert.Equal(t, "multi", l.Name())
}
