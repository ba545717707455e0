package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/langdef"
)

type genOptions struct {
	output, packageName, varName string
}

func newGenCommand() *cobra.Command {
	var opts genOptions
	genCmd := &cobra.Command{
		Use:   "gen [flags] file",
		Short: "Convert grammar definition file to Go source",
		Long: "Convert grammar definition file to Go source file declaring *grammar.Grammar variable.\n" +
			"Generated grammar needs no definition file at run time.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(opts, args[0])
		},
	}

	flags := genCmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output file name, default is the name of input file with .go suffix")
	flags.StringVarP(&opts.packageName, "package", "p", "", "Go package name, default is dir name of output file")
	flags.StringVarP(&opts.varName, "var", "v", "", "Go variable name, default is the title-cased grammar name")
	return genCmd
}

var identRe = regexp.MustCompile("^[A-Za-z_][A-Za-z_0-9]*$")

func runGen(opts genOptions, inFileName string) error {
	g, e := langdef.Load(inFileName)
	if e != nil {
		return e
	}

	if opts.output == "" {
		ext := filepath.Ext(inFileName)
		opts.output = inFileName[:len(inFileName)-len(ext)] + ".go"
	}
	if opts.packageName == "" {
		dir, e := filepath.Abs(opts.output)
		if e != nil {
			return errors.WithStack(e)
		}
		opts.packageName = filepath.Base(filepath.Dir(dir))
	}
	if opts.varName == "" {
		opts.varName = cases.Title(language.Und).String(g.Name)
	}

	content, e := goSource(g, opts.packageName, opts.varName)
	if e != nil {
		return e
	}
	return errors.WithStack(os.WriteFile(opts.output, content, 0o666))
}

// goSource returns formatted Go source declaring variable initialized with grammar g.
func goSource(g *grammar.Grammar, packageName, varName string) ([]byte, error) {
	if !identRe.MatchString(packageName) {
		return nil, fmt.Errorf("invalid package name: %s", packageName)
	}
	if !identRe.MatchString(varName) {
		return nil, fmt.Errorf("invalid variable name: %s", varName)
	}

	var w goWriter
	w.WriteString("// Code generated with hilite gen.\n\n" +
		"package " + packageName + "\n\n" +
		"import \"github.com/ava12/hilite/grammar\"\n\n" +
		"var " + varName + " = &grammar.Grammar{\n")
	w.str("Name", g.Name)
	w.strs("Aliases", g.Aliases)
	w.flag("CaseInsensitive", g.CaseInsensitive)
	w.keywords("Keywords", g.Keywords)
	w.str("Illegal", g.Illegal)
	w.flag("IllegalAtRootOnly", g.IllegalAtRootOnly)
	if g.TieBreak == grammar.EndFirst {
		w.WriteString("TieBreak: grammar.EndFirst,\n")
	}
	if len(g.Fragments) > 0 {
		w.WriteString("Fragments: map[string]string{\n")
		for _, name := range sortedKeys(g.Fragments) {
			fmt.Fprintf(&w, "%q: %q,\n", name, g.Fragments[name])
		}
		w.WriteString("},\n")
	}
	if len(g.Modes) > 0 {
		w.WriteString("Modes: map[string]*grammar.Mode{\n")
		for _, name := range sortedKeys(g.Modes) {
			fmt.Fprintf(&w, "%q: ", name)
			w.mode(g.Modes[name])
			w.WriteString(",\n")
		}
		w.WriteString("},\n")
	}
	w.modes("Contains", g.Contains)
	w.WriteString("}\n")

	res, e := format.Source(w.Bytes())
	return res, errors.Wrap(e, "generated source is malformed")
}

func sortedKeys[T any](m map[string]T) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

type goWriter struct {
	bytes.Buffer
}

func (w *goWriter) str(field, value string) {
	if value != "" {
		fmt.Fprintf(w, "%s: %q,\n", field, value)
	}
}

func (w *goWriter) strs(field string, values []string) {
	if len(values) == 0 {
		return
	}

	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	fmt.Fprintf(w, "%s: []string{%s},\n", field, strings.Join(quoted, ", "))
}

func (w *goWriter) flag(field string, value bool) {
	if value {
		fmt.Fprintf(w, "%s: true,\n", field)
	}
}

func (w *goWriter) keywords(field string, kw *grammar.Keywords) {
	if kw == nil {
		return
	}

	fmt.Fprintf(w, "%s: &grammar.Keywords{\n", field)
	w.str("Pattern", kw.Pattern)
	if len(kw.Categories) > 0 {
		w.WriteString("Categories: map[string][]string{\n")
		for _, cat := range sortedKeys(kw.Categories) {
			fmt.Fprintf(w, "%q: ", cat)
			quoted := make([]string, len(kw.Categories[cat]))
			for i, item := range kw.Categories[cat] {
				quoted[i] = fmt.Sprintf("%q", item)
			}
			fmt.Fprintf(w, "{%s},\n", strings.Join(quoted, ", "))
		}
		w.WriteString("},\n")
	}
	w.WriteString("},\n")
}

func (w *goWriter) modes(field string, ms []*grammar.Mode) {
	if len(ms) == 0 {
		return
	}

	fmt.Fprintf(w, "%s: []*grammar.Mode{\n", field)
	for _, m := range ms {
		w.mode(m)
		w.WriteString(",\n")
	}
	w.WriteString("},\n")
}

func (w *goWriter) mode(m *grammar.Mode) {
	if m.Ref == grammar.SelfRef {
		w.WriteString("grammar.Self()")
		return
	}
	if m.IsRef() {
		fmt.Fprintf(w, "grammar.Ref(%q)", m.Ref)
		return
	}

	w.WriteString("&grammar.Mode{\n")
	w.str("Name", m.Name)
	w.str("Category", m.Category)
	w.str("Begin", m.Begin)
	w.str("Match", m.Match)
	w.str("End", m.End)
	w.str("BeginKeywords", m.BeginKeywords)
	w.keywords("Keywords", m.Keywords)
	w.flag("NoKeywords", m.NoKeywords)
	w.str("Illegal", m.Illegal)
	if m.Relevance != 0 {
		fmt.Fprintf(w, "Relevance: %d,\n", m.Relevance)
	}
	w.modes("Contains", m.Contains)
	w.modes("Variants", m.Variants)
	if m.Starts != nil {
		w.WriteString("Starts: ")
		w.mode(m.Starts)
		w.WriteString(",\n")
	}
	w.flag("EndSameAsBegin", m.EndSameAsBegin)
	w.flag("ExcludeBegin", m.ExcludeBegin)
	w.flag("ExcludeEnd", m.ExcludeEnd)
	w.flag("ReturnBegin", m.ReturnBegin)
	w.flag("ReturnEnd", m.ReturnEnd)
	w.flag("EndsParent", m.EndsParent)
	w.flag("EndsWithParent", m.EndsWithParent)
	w.flag("Skip", m.Skip)
	w.flag("StartOfText", m.StartOfText)
	w.strs("Delegate", m.Delegate)
	w.WriteString("}")
}
