package hilite_test

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ava12/hilite/grammars"
	"github.com/ava12/hilite/langdef"
	"github.com/ava12/hilite/lexer"
	"github.com/ava12/hilite/registry"
)

func Example() {
	input := `
foo = hello
# comment
bar = world
[sec]
baz =
[sec.subsec]
qux = !
`
	definition := `
name: conf
contains:
  - factory: hash_comment
  - category: section
    begin: '\['
    end: '\]'
  - category: attr
    match: '[a-z]+(?=\s*=)'
  - category: string
    begin: '='
    end: '$'
    exclude_begin: true
`
	confGrammar, e := langdef.Parse([]byte(definition), langdef.YAML, "conf.yaml")
	if e != nil {
		fmt.Println(e)
		return
	}

	r := registry.New(lexer.Options{})
	if _, e = r.Register(confGrammar); e != nil {
		panic(e)
	}
	res, e := r.Scan(input, "conf")
	if e != nil {
		panic(e)
	}

	result := make(map[string]string)
	prefix, name := "", ""
	for _, t := range res.Merged() {
		text := res.TokenText(t)
		switch t.Category {
		case "section":
			prefix = strings.Trim(text, "[]") + "."
		case "attr":
			name = prefix + text
			result[name] = ""
		case "string":
			result[name] += strings.TrimSpace(text)
		}
	}

	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Println(strings.TrimSpace(k + " = " + result[k]))
	}

	// Output:
	// bar = world
	// foo = hello
	// sec.baz =
	// sec.subsec.qux = !
}

func Example_rank() {
	r, e := grammars.NewRegistry(lexer.Options{})
	if e != nil {
		panic(e)
	}

	name, e := r.Best(context.Background(), "#!/bin/sh\nls -l $HOME\n")
	if e != nil {
		panic(e)
	}
	fmt.Println(name)

	// Output:
	// bash
}
