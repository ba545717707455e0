package source

import (
	"testing"
)

type result struct {
	pos, line, col int
}

func TestSourceLineCol(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 1, 1},
			{100, 1, 1},
			{100, 1, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 2, 1},
			{1, 2, 1},
			{1, 2, 1},
			{100, 2, 1},
			{100, 2, 1},
		},
		"0\n2\n4\n6789abcde\ng\ni\n": {
			{4, 3, 1},
			{5, 3, 2},
			{6, 4, 1},
			{7, 4, 2},
			{8, 4, 3},
			{9, 4, 4},
			{10, 4, 5},
			{11, 4, 6},
			{12, 4, 7},
			{13, 4, 8},
			{14, 4, 9},
			{19, 6, 2},
			{20, 7, 1},
			{9, 4, 4},
			{5, 3, 2},
		},
	}

	for text, results := range samples {
		source := New("", text)
		for _, res := range results {
			l, c := source.LineCol(res.pos)
			if l != res.line || c != res.col {
				t.Errorf("sample %q: expected %v, got line: %d, col: %d", text, res, l, c)
			}
		}
	}
}

func TestSourcePos(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{0, 1, 2},
			{0, 2, 1},
		},
		" ": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{1, 1, 2},
			{1, 2, 1},
		},
		"\n": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{1, 1, 2},
			{1, 2, 1},
			{1, 2, 2},
			{1, 3, 1},
		},
		"hello\nworld\n": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{1, 1, 2},
			{6, 2, 1},
			{7, 2, 2},
			{12, 2, 10},
			{12, 3, 1},
			{12, 3, 2},
			{12, 4, 1},
		},
	}

	for text, results := range samples {
		source := New("", text)
		for _, res := range results {
			p := source.Pos(res.line, res.col)
			if p != res.pos {
				t.Errorf("sample %q: expected %v, got pos: %d", text, res, p)
			}
		}
	}
}

func TestRuneOffsets(t *testing.T) {
	text := "aé中b\nü"
	s := New("sample", text)
	expected := []int{0, 1, 3, 6, 7, 8, 10}
	if s.RuneLen() != len(expected)-1 {
		t.Fatalf("expected %d runes, got %d", len(expected)-1, s.RuneLen())
	}
	for i, offset := range expected {
		if got := s.Offset(i); got != offset {
			t.Errorf("rune %d: expected offset %d, got %d", i, offset, got)
		}
	}
	if got := s.Offset(-1); got != 0 {
		t.Errorf("expected clamped offset 0, got %d", got)
	}
	if got := s.Offset(100); got != len(text) {
		t.Errorf("expected clamped offset %d, got %d", len(text), got)
	}
	if got := s.Slice(1, 3); got != "é中" {
		t.Errorf("unexpected slice %q", got)
	}
}

func TestNewPos(t *testing.T) {
	s := New("sample", "foo\nébar")
	p := NewPos(s, 6)
	if p.SourceName() != "sample" || p.Line() != 2 || p.Col() != 2 || p.Pos() != 6 {
		t.Fatalf("unexpected position %q %d:%d (%d)", p.SourceName(), p.Line(), p.Col(), p.Pos())
	}
	if p.Source() != s {
		t.Fatalf("position lost its source")
	}

	var empty Pos
	if empty.SourceName() != "" {
		t.Fatalf("expected empty source name, got %q", empty.SourceName())
	}
}
