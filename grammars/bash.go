package grammars

import (
	"github.com/ava12/hilite/grammar"
)

const bashShells = "fish|bash|zsh|sh|csh|ksh|tcsh|dash|scsh"

const bashBuiltins = "break cd continue eval exec exit export getopts hash pwd readonly return shift test times trap umask unset " +
	"alias bind builtin caller command declare echo enable help let local logout mapfile printf read readarray source type " +
	"typeset ulimit unalias set shopt autoload bg bindkey bye cap chdir clone comparguments compcall compctl compdescribe " +
	"compfiles compgroups compquote comptags comptry compvalues dirs disable disown echotc echoti emulate fc fg float " +
	"functions getcap getln history integer jobs kill limit log noglob popd print pushd pushln rehash sched setcap setopt " +
	"stat suspend ttyctl unfunction unhash unlimit unsetopt vared wait whence where which zcompile zformat zftp zle " +
	"zmodload zparseopts zprof zpty zregexparse zsocket zstyle ztcp"

// Bash returns the grammar of Bash and compatible shell scripts.
func Bash() *grammar.Grammar {
	braced := &grammar.Mode{
		Begin: `\$\{`,
		End:   `\}`,
		Contains: []*grammar.Mode{
			grammar.Self(),
			{Begin: `:-`, Contains: []*grammar.Mode{grammar.Ref("var")}},
		},
	}

	return &grammar.Grammar{
		Name:    "bash",
		Aliases: []string{"sh", "zsh"},
		Keywords: &grammar.Keywords{
			Pattern: `\b[a-z._-]+\b`,
			Categories: map[string][]string{
				"keyword":  {"if then else elif fi for while in do done case esac function"},
				"literal":  {"true false"},
				"built_in": {bashBuiltins},
			},
		},
		Modes: map[string]*grammar.Mode{
			"var": {
				Category: "variable",
				Variants: []*grammar.Mode{
					{Begin: `\$[\w\d#@][\w\d_]*(?![\w\d])(?![$])`},
					braced,
				},
			},
			"subst": {
				Category: "subst",
				Begin:    `\$\(`,
				End:      `\)`,
				Contains: []*grammar.Mode{grammar.BackslashEscape(), grammar.Ref("quoted")},
			},
			"quoted": {
				Category:   "string",
				Begin:      `"`,
				End:        `"`,
				NoKeywords: true,
				Contains:   []*grammar.Mode{grammar.BackslashEscape(), grammar.Ref("var"), grammar.Ref("subst")},
			},
		},
		Contains: []*grammar.Mode{
			grammar.Shebang(bashShells),
			grammar.Shebang(""),
			{
				Category:    "function",
				Begin:       `\w[\w\d_]*\s*\(\s*\)\s*\{`,
				ReturnBegin: true,
				Contains:    []*grammar.Mode{grammar.Inherit(grammar.Title(), &grammar.Mode{Begin: `\w[\w\d_]*`})},
			},
			{
				Name:  "arithmetic",
				Begin: `\$\(\(`,
				End:   `\)\)`,
				Contains: []*grammar.Mode{
					{Category: "number", Begin: `\d+#[0-9a-f]+`},
					grammar.Number(),
					grammar.Ref("var"),
				},
			},
			grammar.HashComment(),
			{
				Name:  "heredoc",
				Begin: `<<-?\s*(?=\w+)`,
				Starts: &grammar.Mode{
					Contains: []*grammar.Mode{grammar.EndSameAsBegin(&grammar.Mode{
						Category:   "string",
						Begin:      `(\w+)`,
						End:        `(\w+)`,
						NoKeywords: true,
					})},
				},
			},
			grammar.Ref("quoted"),
			{Begin: `\\"`},
			{Category: "string", Begin: `'`, End: `'`, NoKeywords: true},
			grammar.Ref("var"),
		},
	}
}
