package langdef

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ava12/hilite"
	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/internal/logging"
)

// Format is a definition file format.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

var log = logging.ForSubsys("langdef")

var extensions = map[string]Format{
	".yaml": YAML,
	".yml":  YAML,
	".toml": TOML,
	".json": JSON,
}

// FormatOf detects definition format by file name extension.
// Returns false if the extension is unknown.
func FormatOf(path string) (Format, bool) {
	f, found := extensions[strings.ToLower(filepath.Ext(path))]
	return f, found
}

func badFormatError(name string, e error) *hilite.Error {
	return hilite.FormatError(ErrBadFormat, "malformed grammar definition %s: %s", name, e)
}

// Decode parses definition data in given format, unknown fields are errors.
// name is used in error messages.
func Decode(data []byte, f Format, name string) (*Definition, error) {
	d := &Definition{}
	var e error
	switch f {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		e = dec.Decode(d)
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		e = dec.Decode(d)
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		e = dec.Decode(d)
	default:
		return nil, hilite.FormatError(ErrBadFormat, "unknown definition format %q of %s", f, name)
	}

	if e != nil {
		return nil, badFormatError(name, e)
	}
	return d, nil
}

// Parse decodes definition data and converts it to grammar.
func Parse(data []byte, f Format, name string) (*grammar.Grammar, error) {
	d, e := Decode(data, f, name)
	if e != nil {
		return nil, e
	}
	g, e := d.Grammar()
	if e != nil {
		return nil, errors.WithMessage(e, name)
	}
	return g, nil
}

// Load reads definition file, format is detected by file extension.
func Load(path string) (*grammar.Grammar, error) {
	f, found := FormatOf(path)
	if !found {
		return nil, hilite.FormatError(ErrBadFormat, "cannot detect definition format of %s", path)
	}

	data, e := os.ReadFile(path)
	if e != nil {
		return nil, hilite.FormatError(ErrReadFile, "cannot read grammar definition: %s", e)
	}
	return Parse(data, f, path)
}

// LoadDir loads all definition files found in directory (not recursively), ordered by file name.
// Files with unknown extensions are skipped.
func LoadDir(dir string) ([]*grammar.Grammar, error) {
	entries, e := os.ReadDir(dir)
	if e != nil {
		return nil, hilite.FormatError(ErrReadFile, "cannot read grammar directory: %s", e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var res []*grammar.Grammar
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, found := FormatOf(path); !found {
			log.WithField("file", path).Debug("Skipping file with unknown extension")
			continue
		}

		g, e := Load(path)
		if e != nil {
			return nil, e
		}
		res = append(res, g)
	}
	return res, nil
}
