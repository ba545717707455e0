package pattern

import (
	"strings"
)

// Source is anything that provides pattern source: Raw, Literal, or compiled *Pattern.
type Source interface {
	Source() string
}

// Raw is pattern source used as is.
type Raw string

func (r Raw) Source() string {
	return string(r)
}

// Literal is a plain string matching itself, special characters get escaped.
type Literal string

func (l Literal) Source() string {
	return Escape(string(l))
}

const metaChars = `\.+*?()|[]{}^$`

// Escape escapes all pattern meta characters in s.
func Escape(s string) string {
	if !strings.ContainsAny(s, metaChars) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if strings.ContainsRune(metaChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sources(parts []Source) []string {
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == nil {
			continue
		}
		if src := p.Source(); src != "" {
			res = append(res, src)
		}
	}
	return res
}

// Concat joins parts into one pattern.
func Concat(parts ...Source) Raw {
	return Raw(strings.Join(sources(parts), ""))
}

// Either creates non-capturing alternation of parts.
func Either(parts ...Source) Raw {
	return Raw("(?:" + strings.Join(sources(parts), "|") + ")")
}

// Group creates capturing group.
func Group(p Source) Raw {
	return Raw("(" + p.Source() + ")")
}

// Lookahead creates positive lookahead assertion.
func Lookahead(p Source) Raw {
	return Raw("(?=" + p.Source() + ")")
}

// NotFollowedBy creates negative lookahead assertion.
func NotFollowedBy(p Source) Raw {
	return Raw("(?!" + p.Source() + ")")
}

// Optional makes p optional.
func Optional(p Source) Raw {
	return Raw("(?:" + p.Source() + ")?")
}

// AnyNumberOfTimes repeats p zero or more times.
func AnyNumberOfTimes(p Source) Raw {
	return Raw("(?:" + p.Source() + ")*")
}

// Words creates pattern matching any of space separated words as a whole word.
func Words(words string) Raw {
	list := strings.Fields(words)
	parts := make([]Source, len(list))
	for i, w := range list {
		parts[i] = Literal(w)
	}
	return Concat(Raw(`\b`), Either(parts...), Raw(`\b`))
}
