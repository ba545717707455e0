package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/internal/test"
	"github.com/ava12/hilite/lexer"
)

func wordsGrammar(name string, words string, aliases ...string) *grammar.Grammar {
	return &grammar.Grammar{
		Name:     name,
		Aliases:  aliases,
		Keywords: grammar.Words("keyword", words),
	}
}

func TestRegisterAndResolve(t *testing.T) {
	r := New(lexer.Options{})
	l, e := r.Register(wordsGrammar("Shell", "echo", "sh", "bash"))
	require.NoError(t, e)
	require.NotNil(t, l)

	for _, name := range []string{"Shell", "shell", "SH", "bash"} {
		got, e := r.Resolve(name)
		require.NoError(t, e, name)
		assert.Same(t, l, got, name)
		assert.True(t, r.Has(name))
	}

	_, e = r.Resolve("zsh")
	test.ExpectErrorCode(t, ErrUnknownGrammar, e)
	assert.False(t, r.Has("zsh"))

	require.NoError(t, r.RegisterAliases("sh", "zsh"))
	got, e := r.Resolve("ZSH")
	require.NoError(t, e)
	assert.Same(t, l, got)

	test.ExpectErrorCode(t, ErrUnknownGrammar, r.RegisterAliases("fish", "f"))
	assert.Equal(t, []string{"Shell"}, r.Names())
}

func TestDuplicates(t *testing.T) {
	r := New(lexer.Options{})
	r.MustRegister(wordsGrammar("a", "x", "b"))

	samples := []*grammar.Grammar{
		wordsGrammar("A", "x"),
		wordsGrammar("B", "x"),
		wordsGrammar("c", "x", "a"),
		wordsGrammar("d", "x", "e", "E"),
		wordsGrammar("f", "x", ""),
	}
	for _, g := range samples {
		_, e := r.Register(g)
		test.ExpectErrorCode(t, ErrDuplicateGrammar, e)
	}
	test.ExpectErrorCode(t, ErrDuplicateGrammar, r.RegisterAliases("a", "b"))
	assert.Equal(t, []string{"a"}, r.Names())
	assert.False(t, r.Has("c"))
}

func TestCompileErrorOnRegister(t *testing.T) {
	r := New(lexer.Options{})
	_, e := r.Register(&grammar.Grammar{Name: "bad", Contains: []*grammar.Mode{grammar.Ref("none")}})
	test.ExpectErrorCode(t, lexer.ErrUndefinedMode, e)
	assert.False(t, r.Has("bad"))

	_, e = r.Register(&grammar.Grammar{})
	test.ExpectErrorCode(t, lexer.ErrBadMode, e)

	assert.Panics(t, func() {
		r.MustRegister(&grammar.Grammar{Name: "bad", Illegal: "("})
	})
}

func TestLazyDelegation(t *testing.T) {
	r := New(lexer.Options{})
	r.MustRegister(&grammar.Grammar{
		Name: "host",
		Contains: []*grammar.Mode{{
			Category: "embedded",
			Begin:    `<%`,
			End:      `%>`,
			Delegate: []string{"guest"},
		}},
	})

	text := "a <%echo%> b"
	res, e := r.Scan(text, "host")
	require.NoError(t, e)
	require.Len(t, res.Regions, 1)

	r.MustRegister(&grammar.Grammar{
		Name:     "guest",
		Keywords: grammar.Words("keyword", "echo"),
		Contains: []*grammar.Mode{{
			Category: "call",
			Begin:    `\(`,
			End:      `\)`,
			Delegate: []string{"host"},
		}},
	})

	res, e = r.Scan(text, "host")
	require.NoError(t, e)
	require.Len(t, res.Regions, 2)
	assert.Equal(t, lexer.Region{Category: "language:guest", Start: 4, End: 8, Depth: 2, Grammar: "guest"}, res.Regions[1])

	res, e = r.Scan("(<%(x)%>)", "guest")
	require.NoError(t, e)
	assert.Equal(t, "(<%(x)%>)", res.Text)

	_, e = r.Scan(text, "nope")
	test.ExpectErrorCode(t, ErrUnknownGrammar, e)
}

func TestRank(t *testing.T) {
	r := New(lexer.Options{})
	r.MustRegister(
		wordsGrammar("one", "alpha"),
		wordsGrammar("two", "alpha beta"),
		wordsGrammar("also-two", "beta gamma"),
		&grammar.Grammar{Name: "strict", Keywords: grammar.Words("keyword", "alpha beta gamma|10"), Illegal: `!`},
	)

	ranked, e := r.Rank(context.Background(), "alpha beta gamma!")
	require.NoError(t, e)
	var names []string
	var scores []int
	for _, rk := range ranked {
		names = append(names, rk.Name)
		scores = append(scores, rk.Result.Relevance)
	}
	assert.Equal(t, []string{"two", "also-two", "one"}, names)
	assert.Equal(t, []int{2, 2, 1}, scores)

	best, e := r.Best(context.Background(), "alpha gamma", "one", "also-two", "two")
	require.NoError(t, e)
	assert.Equal(t, "one", best)

	best, e = r.Best(context.Background(), "gamma gamma", "strict", "one")
	require.NoError(t, e)
	assert.Equal(t, "strict", best)

	_, e = r.Rank(context.Background(), "x", "one", "unknown")
	test.ExpectErrorCode(t, ErrUnknownGrammar, e)
}

func TestRankCancelled(t *testing.T) {
	r := New(lexer.Options{})
	r.MustRegister(wordsGrammar("one", "alpha"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, e := r.Rank(ctx, "alpha")
	assert.ErrorIs(t, e, context.Canceled)
}
