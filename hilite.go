/*
Package hilite is a grammar-driven lexical highlighting engine.

Consists of subpackages:
  - cmd/hilite: console utility scanning files and ranking grammars;
  - grammar: declarative grammar and mode definitions, shared mode factories;
  - grammars: sample grammars used by tests and the console utility;
  - keywords: keyword tables and word classification;
  - langdef: loads grammar definitions from YAML, TOML, or JSON files;
  - lexer: compiles grammars and scans text into tokens and relevance;
  - pattern: pattern fragments, composition helpers, and compiled patterns;
  - registry: named grammar registry resolving delegation between grammars;
  - source: maps byte offsets to line and column numbers;
  - tree: builds and walks region trees from scan results.

Typical usage is:

1. Describe grammar either as grammar.Grammar value or as a definition file
readable by langdef. Grammar contains no scanning code, only patterns and modes.

2. Register grammars in a registry.Registry. Each grammar is compiled once
and is safe for concurrent use afterwards.

3. Scan text with registry.Registry.Scan or with resolved lexer.Lexer,
then render tokens or compare relevance scores.
*/
package hilite

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	CompileErrors  = 1   // used by pattern, keywords, and lexer when compiling grammars
	ScanErrors     = 101 // used by lexer when scanning
	RegistryErrors = 201 // used by registry
	LoadErrors     = 301 // used by langdef
)

// Error is the error type used by hilite subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source text or 0.
	Line int

	// Col contains column number in source text or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos implements this interface.
type SourcePos interface {
	// SourceName returns source name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if line != 0 && col != 0 {
		if name == "" {
			msg += fmt.Sprintf(" at line %d col %d", line, col)
		} else {
			msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
		}
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error with the same code,
// so that errors.Is works with code-only templates like &Error{Code: ErrX}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// ErrorCode returns the code of the first *Error found in e's chain or 0.
func ErrorCode(e error) int {
	var he *Error
	if errors.As(e, &he) {
		return he.Code
	}
	return 0
}
