package grammar

import (
	"github.com/ava12/hilite/pattern"
)

// Patterns shared by grammars.
const (
	IdentRe           = `[a-zA-Z]\w*`
	UnderscoreIdentRe = `[a-zA-Z_]\w*`
	NumberRe          = `\b\d+(?:\.\d+)?`
	CNumberRe         = `(?:-?)(?:\b0[xX][a-fA-F0-9]+|(?:\b\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?)`
	BinaryNumberRe    = `\b(?:0b[01]+)`
	ReStartersRe      = `!|!=|!==|%|%=|&|&&|&=|\*|\*=|\+|\+=|,|-|-=|/=|/|:|;|<<|<<=|<=|<|===|==|=|>>>=|>>=|>=|>>>|>>|>|\?|\[|\{|\(|\^|\^=|\||\|=|\|\||~`

	// MatchNothingRe never matches.
	MatchNothingRe = `\b\B`
)

const docTags = `(?:TODO|FIXME|NOTE|BUG|OPTIMIZE|HACK|XXX):`

// Each factory returns a new mode, so the caller may adjust its fields.

// BackslashEscape matches a backslash and the next character.
func BackslashEscape() *Mode {
	return &Mode{Begin: `\\[\s\S]`}
}

// AposString matches single quoted string with backslash escapes.
func AposString() *Mode {
	return &Mode{
		Category:   "string",
		Begin:      `'`,
		End:        `'`,
		Illegal:    `\n`,
		NoKeywords: true,
		Contains:   []*Mode{BackslashEscape()},
	}
}

// QuoteString matches double quoted string with backslash escapes.
func QuoteString() *Mode {
	return &Mode{
		Category:   "string",
		Begin:      `"`,
		End:        `"`,
		Illegal:    `\n`,
		NoKeywords: true,
		Contains:   []*Mode{BackslashEscape()},
	}
}

// Comment matches comment from begin to end pattern, TODO-like tags inside are highlighted as "doctag".
func Comment(begin, end string) *Mode {
	return &Mode{
		Category:   "comment",
		Begin:      begin,
		End:        end,
		NoKeywords: true,
		Contains: []*Mode{{
			Category:     "doctag",
			Begin:        pattern.Concat(pattern.Raw(`[ ]*`), pattern.Lookahead(pattern.Raw(docTags))).Source(),
			End:          docTags,
			ExcludeBegin: true,
		}},
	}
}

// HashComment matches comment from # to the end of line.
func HashComment() *Mode {
	return Comment(`#`, `$`)
}

// CLineComment matches comment from // to the end of line.
func CLineComment() *Mode {
	return Comment(`//`, `$`)
}

// CBlockComment matches /* */ comment.
func CBlockComment() *Mode {
	return Comment(`/\*`, `\*/`)
}

// Number matches simple decimal number.
func Number() *Mode {
	return &Mode{Category: "number", Begin: NumberRe}
}

// CNumber matches C-like number.
func CNumber() *Mode {
	return &Mode{Category: "number", Begin: CNumberRe}
}

// BinaryNumber matches 0b-prefixed binary number.
func BinaryNumber() *Mode {
	return &Mode{Category: "number", Begin: BinaryNumberRe}
}

// Title matches an identifier.
func Title() *Mode {
	return &Mode{Category: "title", Begin: IdentRe}
}

// UnderscoreTitle matches an identifier that may start with underscore.
func UnderscoreTitle() *Mode {
	return &Mode{Category: "title", Begin: UnderscoreIdentRe}
}

// Shebang matches interpreter directive on the first line of text.
// If binary pattern is not empty, the directive must name matching interpreter and the mode has relevance 10.
func Shebang(binary string) *Mode {
	begin := pattern.Raw(`^#![ ]*/`)
	res := &Mode{
		Category:    "meta",
		End:         `$`,
		StartOfText: true,
		NoKeywords:  true,
	}
	if binary == "" {
		res.Begin = begin.Source()
	} else {
		res.Begin = pattern.Concat(begin, pattern.Raw(`.*\b`), pattern.Either(pattern.Raw(binary)), pattern.Raw(`\b.*`)).Source()
		res.Relevance = 10
	}
	return res
}

// EndSameAsBegin marks the mode as closed by the same text that opened it and returns the mode.
func EndSameAsBegin(m *Mode) *Mode {
	m.EndSameAsBegin = true
	return m
}
