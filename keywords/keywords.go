// Package keywords classifies bare words using keyword tables.
package keywords

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ava12/hilite"
	"github.com/ava12/hilite/pattern"
)

// ErrBadKeywords indicates malformed keyword table (empty category name or bad relevance suffix).
const ErrBadKeywords = hilite.CompileErrors + 10

const (
	// DefaultPattern splits text into words when table declares no pattern.
	DefaultPattern = `\w+`

	// DefaultCategory is used by loaders for tables given as a plain word list.
	DefaultCategory = "keyword"

	// MaxHits is the number of hits of the same word that affect relevance.
	MaxHits = 7
)

// CommonWords are words that have zero relevance unless relevance is set explicitly.
var CommonWords = []string{"of", "and", "for", "in", "not", "or", "if", "then", "parent", "list", "value"}

// Def is a declarative keyword table.
type Def struct {
	// Pattern splits text into words, DefaultPattern is used if empty.
	Pattern string

	// Categories maps category name to word lists.
	// Each list item may contain several space separated words,
	// each word may have "|n" suffix setting its relevance to n.
	// Categories starting with "_" affect relevance only, words of these categories are not highlighted.
	Categories map[string][]string
}

// Entry describes a known word.
type Entry struct {
	Category  string
	Relevance int
}

// Highlighted reports whether the word gets its own token.
func (e Entry) Highlighted() bool {
	return e.Category != "" && e.Category[0] != '_'
}

// Table is a compiled keyword table. Table is immutable and safe for concurrent use.
type Table struct {
	pattern *pattern.Pattern
	fold    bool
	words   map[string]Entry
}

// Hit is a known word found in text.
type Hit struct {
	pattern.Match
	Word string
	Entry
}

func badKeywordsError(msg string, params ...any) *hilite.Error {
	return hilite.FormatError(ErrBadKeywords, "bad keyword table: "+msg, params...)
}

var commonWords = func() map[string]bool {
	res := make(map[string]bool, len(CommonWords))
	for _, w := range CommonWords {
		res[w] = true
	}
	return res
}()

// Compile creates keyword table. o.CaseInsensitive makes both the pattern and word lookup case insensitive.
// If the same word belongs to several categories, the category that is last in lexical order wins.
// Returns nil and hilite.Error on error.
func Compile(def Def, o pattern.Options) (*Table, error) {
	src := def.Pattern
	if src == "" {
		src = DefaultPattern
	}
	p, e := pattern.Compile(src, o)
	if e != nil {
		return nil, e
	}

	t := &Table{
		pattern: p,
		fold:    o.CaseInsensitive,
		words:   make(map[string]Entry),
	}

	cats := make([]string, 0, len(def.Categories))
	for cat := range def.Categories {
		if cat == "" {
			return nil, badKeywordsError("empty category name")
		}
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	for _, cat := range cats {
		for _, item := range def.Categories[cat] {
			for _, word := range strings.Fields(item) {
				if e := t.add(cat, word); e != nil {
					return nil, e
				}
			}
		}
	}

	return t, nil
}

func (t *Table) add(cat, word string) error {
	entry := Entry{Category: cat}
	word, suffix, hasSuffix := strings.Cut(word, "|")
	if word == "" {
		return badKeywordsError("empty word in category %q", cat)
	}

	switch {
	case hasSuffix:
		r, e := strconv.Atoi(suffix)
		if e != nil {
			return badKeywordsError("incorrect relevance %q for word %q", suffix, word)
		}
		entry.Relevance = r
	case commonWords[strings.ToLower(word)]:
		entry.Relevance = 0
	default:
		entry.Relevance = 1
	}

	t.words[t.normalize(word)] = entry
	return nil
}

func (t *Table) normalize(word string) string {
	if t.fold {
		return cases.Fold().String(word)
	}
	return word
}

// Pattern returns the pattern splitting text into words.
func (t *Table) Pattern() *pattern.Pattern {
	return t.pattern
}

// CaseInsensitive reports whether word lookup ignores letter case.
func (t *Table) CaseInsensitive() bool {
	return t.fold
}

// Len returns the number of distinct words.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.words)
}

// Classify returns the entry for the word.
// Returns false if table is nil or the word is unknown.
func (t *Table) Classify(word string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	entry, found := t.words[t.normalize(word)]
	return entry, found
}

// Find splits text using table pattern and returns known words, offsets are rune indexes in text.
// Hit.Word contains normalized word suitable as Hits key.
func (t *Table) Find(text []rune) ([]Hit, error) {
	if t == nil || len(t.words) == 0 || len(text) == 0 {
		return nil, nil
	}

	ms, e := t.pattern.FindAll(text)
	if e != nil {
		return nil, e
	}

	var res []Hit
	for _, m := range ms {
		word := t.normalize(string(text[m.Start:m.End]))
		if entry, found := t.words[word]; found {
			res = append(res, Hit{m, word, entry})
		}
	}
	return res, nil
}

// Hits counts word hits during a single scan. Zero value is ready to use, Hits is not safe for concurrent use.
type Hits struct {
	counts map[string]int
}

// Score registers a hit and returns its relevance contribution.
// Only first MaxHits hits of the same word contribute.
func (h *Hits) Score(word string, e Entry) int {
	if h.counts == nil {
		h.counts = make(map[string]int)
	}
	h.counts[word]++
	if h.counts[word] > MaxHits {
		return 0
	}
	return e.Relevance
}
