package grammars

import (
	"github.com/ava12/hilite/grammar"
)

const (
	jsKeywords = "as in of if for while finally var new function do return void else break catch instanceof with throw " +
		"case default try switch continue typeof delete let yield const class debugger async await static import from " +
		"export extends"
	jsLiterals = "true false null undefined NaN Infinity"
	jsBuiltins = "setInterval setTimeout clearInterval clearTimeout require exports eval isFinite isNaN parseFloat " +
		"parseInt decodeURI decodeURIComponent encodeURI encodeURIComponent escape unescape " +
		"arguments this super console window document localStorage module global " +
		"Intl DataView Number Math Date String RegExp Object Function Boolean Error Symbol Set Map WeakSet WeakMap " +
		"Proxy Reflect JSON Promise Float64Array Int16Array Int32Array Int8Array Uint16Array Uint32Array Float32Array " +
		"Array Uint8Array Uint8ClampedArray ArrayBuffer BigInt64Array BigUint64Array BigInt " +
		"EvalError InternalError RangeError ReferenceError SyntaxError TypeError URIError"
)

// Tagged templates whose content is scanned by other grammars.
var jsTemplateTags = []struct {
	tag      string
	delegate []string
}{
	{"sh", []string{"bash"}},
	{"tex", []string{"latex"}},
	{"code", []string{"bash", "routeros", "latex"}},
}

// JavaScript returns the grammar of a JavaScript subset.
// Tagged template literals sh`...`, tex`...` and code`...` are delegated to shell, LaTeX
// and the best of shell, RouterOS and LaTeX grammars respectively, ${...} substitutions stay in JavaScript.
func JavaScript() *grammar.Grammar {
	kw := &grammar.Keywords{
		Pattern: `[A-Za-z$_][0-9A-Za-z$_]*`,
		Categories: map[string][]string{
			"keyword":  {jsKeywords},
			"literal":  {jsLiterals},
			"built_in": {jsBuiltins},
		},
	}

	contains := []*grammar.Mode{
		grammar.Inherit(grammar.Shebang("node"), &grammar.Mode{Relevance: 5}),
		{Category: "meta", Begin: `^\s*['"]use (strict|asm)['"]`, Relevance: 10},
		grammar.AposString(),
		grammar.QuoteString(),
	}
	for _, t := range jsTemplateTags {
		contains = append(contains, &grammar.Mode{
			Begin: `\b` + t.tag + "`",
			Starts: &grammar.Mode{
				End:      "`",
				Contains: []*grammar.Mode{grammar.BackslashEscape(), grammar.Ref("subst")},
				Delegate: t.delegate,
			},
		})
	}
	contains = append(contains,
		grammar.Ref("template"),
		grammar.CBlockComment(),
		grammar.CLineComment(),
		grammar.CNumber(),
		&grammar.Mode{
			Category:      "function",
			BeginKeywords: "function",
			End:           `[{;]`,
			ExcludeEnd:    true,
			Keywords:      kw,
			Illegal:       `%`,
			Contains: []*grammar.Mode{
				grammar.Inherit(grammar.Title(), &grammar.Mode{Begin: `{{ident}}`}),
				{
					Category:     "params",
					Begin:        `\(`,
					End:          `\)`,
					ExcludeBegin: true,
					ExcludeEnd:   true,
					Contains:     []*grammar.Mode{grammar.AposString(), grammar.QuoteString(), grammar.CNumber()},
				},
			},
		},
		&grammar.Mode{BeginKeywords: "while if switch catch for"},
		&grammar.Mode{
			Category:      "class",
			BeginKeywords: "class",
			End:           `[{;=]`,
			ExcludeEnd:    true,
			Illegal:       `[:"\[\]]`,
			Contains:      []*grammar.Mode{{BeginKeywords: "extends"}, grammar.UnderscoreTitle()},
		},
		&grammar.Mode{Variants: []*grammar.Mode{{Begin: `\.{{ident}}`}, {Begin: `\${{ident}}`}}},
	)

	return &grammar.Grammar{
		Name:              "javascript",
		Aliases:           []string{"js", "mjs", "cjs"},
		Keywords:          kw,
		Illegal:           `#(?![$_A-z])`,
		IllegalAtRootOnly: true,
		Fragments:         map[string]string{"ident": `[A-Za-z$_][0-9A-Za-z$_]*`},
		Modes: map[string]*grammar.Mode{
			"template": {
				Category:   "string",
				Begin:      "`",
				End:        "`",
				NoKeywords: true,
				Contains:   []*grammar.Mode{grammar.BackslashEscape(), grammar.Ref("subst")},
			},
			"subst": {
				Category: "subst",
				Begin:    `\$\{`,
				End:      `\}`,
				Keywords: kw,
				Contains: []*grammar.Mode{
					grammar.AposString(),
					grammar.QuoteString(),
					grammar.Ref("template"),
					grammar.CNumber(),
					{Begin: `\{`, End: `\}`, Contains: []*grammar.Mode{grammar.Self(), grammar.AposString(), grammar.QuoteString()}},
				},
			},
		},
		Contains: contains,
	}
}
