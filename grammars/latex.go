package grammars

import (
	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/pattern"
)

// Known commands.
var latexCommands = []string{
	`(?:NeedsTeXFormat|RequirePackage|GetIdInfo)`,
	`Provides(?:Expl)?(?:Package|Class|File)`,
	`(?:DeclareOption|ProcessOptions)`,
	`(?:documentclass|usepackage|input|include)`,
	`makeat(?:letter|other)`,
	`ExplSyntax(?:On|Off)`,
	`(?:new|renew|provide)?command`,
	`(?:re)newenvironment`,
	`(?:New|Renew|Provide|Declare)(?:Expandable)?DocumentCommand`,
	`(?:New|Renew|Provide|Declare)DocumentEnvironment`,
	`(?:(?:e|g|x)?def|let)`,
	`(?:begin|end)`,
	`(?:part|chapter|(?:sub){0,2}section|(?:sub)?paragraph)`,
	`caption`,
	`(?:label|(?:eq|page|name)?ref|(?:paren|foot|super)?cite)`,
	`(?:alpha|beta|[Gg]amma|[Dd]elta|(?:var)?epsilon|zeta|eta|[Tt]heta|vartheta)`,
	`(?:iota|(?:var)?kappa|[Ll]ambda|mu|nu|[Xx]i|[Pp]i|varpi|(?:var)rho)`,
	`(?:[Ss]igma|varsigma|tau|[Uu]psilon|[Pp]hi|varphi|chi|[Pp]si|[Oo]mega)`,
	`(?:frac|sum|prod|lim|infty|times|sqrt|leq|geq|left|right|middle|[bB]igg?)`,
	`(?:[lr]angle|q?quad|[lcvdi]?dots|d?dot|hat|tilde|bar)`,
}

// LaTeX3 programming layer names.
var latexExpl3 = []string{
	`(?:__)?[a-zA-Z]{2,}_[a-zA-Z](?:_?[a-zA-Z])+:[a-zA-Z]*`,
	`[lgc]__?[a-zA-Z](?:_?[a-zA-Z])*_[a-zA-Z]{2,}`,
	`[qs]__?[a-zA-Z](?:_?[a-zA-Z])+`,
	`use(?:_i)?:[a-zA-Z]*`,
	`(?:else|fi|or):`,
	`(?:if|cs|exp):w`,
	`(?:hbox|vbox):n`,
	`::[a-zA-Z]_unbraced`,
	`::[a-zA-Z:]`,
}

// notFollowedBy creates alternation of items, each one must not be followed by a character of class.
func notFollowedBy(items []string, class string) string {
	ps := make([]pattern.Source, len(items))
	for i, item := range items {
		ps[i] = pattern.Concat(pattern.Raw(item), pattern.NotFollowedBy(pattern.Raw(class)))
	}
	return pattern.Either(ps...).Source()
}

func caretVariants() []*grammar.Mode {
	res := make([]*grammar.Mode, 0, 6)
	for n := 6; n >= 2; n-- {
		d := string(rune('0' + n))
		res = append(res, &grammar.Mode{Begin: `\^{` + d + `}[0-9a-f]{` + d + `}`})
	}
	return append(res, &grammar.Mode{Begin: `\^{2}[\x00-\x7f]`})
}

// LaTeX returns the grammar of LaTeX documents.
// Verbatim environments and commands taking verbatim arguments are scanned as strings.
func LaTeX() *grammar.Grammar {
	common := []*grammar.Mode{
		{
			Category: "keyword",
			Begin:    `\\`,
			Contains: []*grammar.Mode{
				{EndsParent: true, Begin: notFollowedBy(latexCommands, `[a-zA-Z@:_]`)},
				{EndsParent: true, Begin: notFollowedBy(latexExpl3, `[a-zA-Z:_]`)},
				{EndsParent: true, Variants: caretVariants()},
				{EndsParent: true, Variants: []*grammar.Mode{{Begin: `[a-zA-Z@]+`}, {Begin: `[^a-zA-Z@]?`}}},
			},
		},
		{Category: "params", Begin: `#+\d?`},
		{Variants: caretVariants()},
		{Category: "built_in", Begin: `[$&^_]`},
		{Category: "meta", Begin: `% !TeX`, End: `$`, Relevance: 10},
		grammar.Comment(`%`, `$`),
	}

	braces := &grammar.Mode{Begin: `\{`, End: `\}`, Contains: append([]*grammar.Mode{grammar.Self()}, common...)}
	braceArg := grammar.Inherit(braces, &grammar.Mode{EndsParent: true, Contains: append([]*grammar.Mode{braces}, common...)})
	bracketArg := &grammar.Mode{Begin: `\[`, End: `\]`, EndsParent: true, Contains: append([]*grammar.Mode{braces}, common...)}
	space := &grammar.Mode{Begin: `\s+`}

	args := func(contains []*grammar.Mode, next *grammar.Mode) *grammar.Mode {
		return &grammar.Mode{Contains: []*grammar.Mode{space}, Starts: &grammar.Mode{Contains: contains, Starts: next}}
	}
	command := func(name string, next *grammar.Mode) *grammar.Mode {
		return &grammar.Mode{
			Begin:    `\\` + name + `(?![a-zA-Z@:_])`,
			Keywords: &grammar.Keywords{Pattern: `\\[a-zA-Z]+`, Categories: map[string][]string{"keyword": {`\` + name}}},
			Contains: []*grammar.Mode{space},
			Starts:   next,
		}
	}
	env := func(name string, next *grammar.Mode) *grammar.Mode {
		return grammar.Inherit(&grammar.Mode{
			Begin:    `\\begin(?=[ \t]*(\r?\n[ \t]*)?\{` + name + `\})`,
			Keywords: &grammar.Keywords{Pattern: `\\[a-zA-Z]+`, Categories: map[string][]string{"keyword": {`\begin`}}},
		}, args([]*grammar.Mode{braceArg}, next))
	}
	delimited := func() *grammar.Mode {
		return grammar.EndSameAsBegin(&grammar.Mode{
			Category:     "string",
			Begin:        `(.|\r?\n)`,
			End:          `(.|\r?\n)`,
			ExcludeBegin: true,
			ExcludeEnd:   true,
			EndsParent:   true,
		})
	}
	braced := func(category string) *grammar.Mode {
		return &grammar.Mode{
			Begin: `\{`,
			Starts: &grammar.Mode{
				EndsParent: true,
				Contains: []*grammar.Mode{{
					Category:   category,
					End:        `(?=\})`,
					EndsParent: true,
					Contains:   []*grammar.Mode{{Begin: `\{`, End: `\}`, Contains: []*grammar.Mode{grammar.Self()}}},
				}},
			},
		}
	}
	body := func(name string) *grammar.Mode {
		return &grammar.Mode{Category: "string", End: `(?=\\end\{` + pattern.Escape(name) + `\})`}
	}

	var verbatim []*grammar.Mode
	for _, name := range []string{"verb", "lstinline"} {
		verbatim = append(verbatim, command(name, &grammar.Mode{Contains: []*grammar.Mode{delimited()}}))
	}
	verbatim = append(verbatim,
		command("url", &grammar.Mode{Contains: []*grammar.Mode{braced("link"), braced("link")}}),
		command("hyperref", &grammar.Mode{Contains: []*grammar.Mode{braced("link")}}),
		command("href", args([]*grammar.Mode{bracketArg}, &grammar.Mode{Contains: []*grammar.Mode{braced("link")}})),
	)
	for _, star := range []string{"", "*"} {
		verbatim = append(verbatim,
			env(pattern.Escape("verbatim"+star), body("verbatim"+star)),
			env(pattern.Escape("filecontents"+star), args([]*grammar.Mode{braceArg}, body("filecontents"+star))),
		)
		for _, prefix := range []string{"", "B", "L"} {
			name := prefix + "Verbatim" + star
			verbatim = append(verbatim, env(pattern.Escape(name), args([]*grammar.Mode{bracketArg}, body(name))))
		}
	}

	return &grammar.Grammar{
		Name:     "latex",
		Aliases:  []string{"tex"},
		Contains: append(verbatim, common...),
	}
}
