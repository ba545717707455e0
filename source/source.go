// Package source defines scanned text with rune and line indexes.
package source

import (
	"strings"
	"unicode/utf8"
)

// Source holds scanned text together with rune offsets and line starts.
// Scanner works with rune offsets, tokens and errors use byte offsets and line/column pairs.
// Source is not safe for concurrent use, each scan creates its own instance.
type Source struct {
	name          string
	text          string
	runes         []rune
	offsets       []int
	lineStarts    []int
	prevLineIndex int
}

// New creates new Source. name may be empty, it is used in error messages only.
func New(name, text string) *Source {
	s := &Source{name: name, text: text, prevLineIndex: -1}
	lineCnt := strings.Count(text, "\n") + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(text) && j < lineCnt; i++ {
		if text[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	n := utf8.RuneCountInString(text)
	s.runes = make([]rune, 0, n)
	s.offsets = make([]int, 0, n+1)
	for i, r := range text {
		s.runes = append(s.runes, r)
		s.offsets = append(s.offsets, i)
	}
	s.offsets = append(s.offsets, len(text))

	return s
}

// Name returns source name.
func (s *Source) Name() string {
	return s.name
}

// Text returns source text.
func (s *Source) Text() string {
	return s.text
}

// Len returns text length in bytes.
func (s *Source) Len() int {
	return len(s.text)
}

// Runes returns decoded text. The slice must not be modified.
func (s *Source) Runes() []rune {
	return s.runes
}

// RuneLen returns text length in runes.
func (s *Source) RuneLen() int {
	return len(s.runes)
}

// Offset converts rune index to byte offset. Out of range indexes are clamped.
func (s *Source) Offset(runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	if runeIndex >= len(s.offsets) {
		return len(s.text)
	}
	return s.offsets[runeIndex]
}

// Slice returns text between rune indexes.
func (s *Source) Slice(from, to int) string {
	return s.text[s.Offset(from):s.Offset(to)]
}

// LineCol returns 1-based line and column (in runes) numbers for byte offset.
func (s *Source) LineCol(pos int) (line, col int) {
	var lineIndex int
	if pos < 0 {
		pos = 0
		lineIndex = 0
	} else if pos >= len(s.text) {
		pos = len(s.text)
		lineIndex = len(s.lineStarts) - 1
	} else {
		lineIndex = s.findLineIndex(pos)
	}

	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCountInString(s.text[lineStart:pos]) + 1
}

// Pos returns byte offset for 1-based line and column (in bytes) numbers.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.text)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	} else {
		return res
	}
}

func (s *Source) findLineIndex(pos int) int {
	if s.prevLineIndex >= 0 && s.lineStarts[s.prevLineIndex] <= pos {
		lineIndex := s.prevLineIndex
		last := len(s.lineStarts) - 1
		for lineIndex <= last && s.lineStarts[lineIndex] <= pos {
			lineIndex++
		}
		lineIndex--
		s.prevLineIndex = lineIndex
		return lineIndex
	}

	leftIndex := 0
	rightIndex := len(s.lineStarts) - 1
	index := 0
	if s.prevLineIndex >= 0 {
		rightIndex = s.prevLineIndex
	}
	for leftIndex < rightIndex {
		index = (leftIndex + rightIndex + 1) >> 1
		lineStart := s.lineStarts[index]
		if lineStart == pos {
			break
		}

		if lineStart < pos {
			leftIndex = index
		} else {
			rightIndex = index - 1
			index = rightIndex
		}
	}
	s.prevLineIndex = index
	return index
}

// Pos describes a position in source text, it implements hilite.SourcePos.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos creates Pos for byte offset.
func NewPos(s *Source, pos int) Pos {
	line, col := s.LineCol(pos)
	return Pos{s, pos, line, col}
}

// Source returns source or nil.
func (p Pos) Source() *Source {
	return p.src
}

// SourceName returns source name or empty string.
func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

// Pos returns byte offset.
func (p Pos) Pos() int {
	return p.pos
}

// Line returns 1-based line number.
func (p Pos) Line() int {
	return p.line
}

// Col returns 1-based column number.
func (p Pos) Col() int {
	return p.col
}
