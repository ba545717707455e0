/*
hilite is a console utility scanning text with bundled and user supplied grammars.
Usage is

	hilite <command> [flags] [args]

Commands are:

	scan   prints tokens of files or of standard input;
	rank   prints grammars ordered by relevance for a file;
	check  loads grammar definition files and reports compile errors;
	list   prints registered grammars;
	gen    converts grammar definition file to Go source.

Grammar definition files (YAML, TOML, or JSON, see langdef package) are added with
--grammars flag. Every flag may also be set in config file given by --config flag
or in HILITE_<FLAG> environment variable, e.g. HILITE_MAX_DEPTH=100.
*/
package main

import (
	"os"
)

func main() {
	if e := newRootCommand().Execute(); e != nil {
		os.Exit(1)
	}
}
