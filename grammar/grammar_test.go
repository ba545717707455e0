package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/hilite/pattern"
)

func TestInherit(t *testing.T) {
	child := Number()
	base := &Mode{
		Category:  "string",
		Begin:     `"`,
		End:       `"`,
		Relevance: 2,
		Contains:  []*Mode{child},
	}

	v := Inherit(base, &Mode{Begin: `'`, End: `'`, ExcludeEnd: true}, &Mode{Relevance: -1})
	assert.Equal(t, "string", v.Category)
	assert.Equal(t, `'`, v.Begin)
	assert.Equal(t, `'`, v.End)
	assert.Equal(t, -1, v.Relevance)
	assert.True(t, v.ExcludeEnd)
	assert.Same(t, child, v.Contains[0])

	assert.Equal(t, `"`, base.Begin)
	assert.False(t, base.ExcludeEnd)
	assert.Equal(t, 2, base.Relevance)

	m := Inherit(base, &Mode{Match: `x`})
	assert.Equal(t, "", m.Begin)
	assert.Equal(t, "x", m.Match)

	empty := Inherit(nil)
	assert.Equal(t, &Mode{}, empty)
}

func TestModeKinds(t *testing.T) {
	assert.True(t, Number().IsOneShot())
	assert.False(t, QuoteString().IsOneShot())
	assert.False(t, (&Mode{Begin: "x", EndsWithParent: true}).IsOneShot())
	assert.False(t, EndSameAsBegin(&Mode{Begin: `(\w+)`}).IsOneShot())

	assert.True(t, Self().IsRef())
	assert.Equal(t, SelfRef, Self().Ref)
	assert.True(t, Ref("string").IsRef())
	assert.False(t, Title().IsRef())

	assert.Equal(t, "children-first", ChildrenFirst.String())
	assert.Equal(t, "end-first", EndFirst.String())
}

func TestFactoriesReturnNewModes(t *testing.T) {
	a, b := QuoteString(), QuoteString()
	require.NotSame(t, a, b)
	a.Relevance = 5
	assert.Equal(t, 0, b.Relevance)
}

func TestCommonPatternsCompile(t *testing.T) {
	modes := []*Mode{
		BackslashEscape(), AposString(), QuoteString(), HashComment(), CLineComment(), CBlockComment(),
		Number(), CNumber(), BinaryNumber(), Title(), UnderscoreTitle(), Shebang(""), Shebang("bash|sh"),
	}
	for _, m := range modes {
		for _, src := range []string{m.Begin, m.End, m.Illegal} {
			if src != "" {
				_, e := pattern.Compile(src, pattern.Options{})
				assert.NoError(t, e, src)
			}
		}
	}

	for _, src := range []string{IdentRe, UnderscoreIdentRe, NumberRe, CNumberRe, BinaryNumberRe, ReStartersRe, MatchNothingRe} {
		_, e := pattern.Compile(src, pattern.Options{})
		assert.NoError(t, e, src)
	}
}

func TestShebang(t *testing.T) {
	p := pattern.MustCompile(Shebang("bash|sh").Begin, pattern.Options{})
	m, found, e := p.FindAt([]rune("#!/usr/bin/env bash -e\necho"), 0)
	require.NoError(t, e)
	require.True(t, found)
	assert.Equal(t, 22, m.End)

	_, found, e = p.FindAt([]rune("#!/usr/bin/python"), 0)
	require.NoError(t, e)
	assert.False(t, found)

	assert.Equal(t, 10, Shebang("sh").Relevance)
	assert.Equal(t, 0, Shebang("").Relevance)
}

func TestCommentDocTag(t *testing.T) {
	c := HashComment()
	require.Len(t, c.Contains, 1)
	p := pattern.MustCompile(c.Contains[0].Begin, pattern.Options{})
	m, found, e := p.FindAt([]rune("# see  TODO: fix"), 0)
	require.NoError(t, e)
	require.True(t, found)
	assert.Equal(t, 5, m.Start)
	assert.Equal(t, 7, m.End)
}
