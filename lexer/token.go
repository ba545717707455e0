package lexer

// TokenKind tells what part of a region a token is.
type TokenKind int

const (
	// Text is a piece of region content or of the text outside of any region.
	Text TokenKind = iota

	// Keyword is a word found in effective keyword table.
	Keyword

	// Begin is the text that opened a categorized region.
	Begin

	// End is the text that closed a categorized region.
	End
)

var kindNames = [...]string{"text", "keyword", "begin", "end"}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token is a piece of scanned text. Start and End are byte offsets.
type Token struct {
	Kind TokenKind

	// Category is the category of keyword or of the innermost categorized region, may be empty.
	Category string

	Start, End int

	// Depth is the number of enclosing categorized regions and delegated blocks.
	Depth int

	// Grammar is the name of the grammar that produced the token.
	Grammar string
}

// Len returns token length in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// Region is a span of a categorized mode or of a delegated block. Start and End are byte offsets.
// Delegated blocks have "language:<grammar name>" category.
type Region struct {
	Category   string
	Start, End int
	Depth      int
	Grammar    string
}

// LanguagePrefix starts the category of delegated block regions.
const LanguagePrefix = "language:"

// Result contains scan results.
type Result struct {
	// Grammar is the name of scanning grammar.
	Grammar string

	// Text is the scanned text.
	Text string

	// Tokens cover the whole text in order, no token is empty.
	Tokens []Token

	// Regions are listed in order of opening.
	Regions []Region

	// Relevance is non-negative score telling how well the grammar fits the text.
	Relevance int
}

// TokenText returns the text of a token.
func (r *Result) TokenText(t Token) string {
	return r.Text[t.Start:t.End]
}

// Merged returns tokens where adjacent tokens with equal category, depth, and grammar are joined.
// Joined tokens of different kinds become Text tokens.
func (r *Result) Merged() []Token {
	res := make([]Token, 0, len(r.Tokens))
	for _, t := range r.Tokens {
		if n := len(res); n > 0 {
			last := &res[n-1]
			if last.End == t.Start && last.Category == t.Category && last.Depth == t.Depth && last.Grammar == t.Grammar {
				last.End = t.End
				if last.Kind != t.Kind {
					last.Kind = Text
				}
				continue
			}
		}
		res = append(res, t)
	}
	return res
}
