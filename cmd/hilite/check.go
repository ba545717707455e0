package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava12/hilite"
	"github.com/ava12/hilite/registry"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

func newCheckCommand(vp *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] path...",
		Short: "Load grammar definitions and report errors",
		Long: "Load grammar definition files or directories, compile grammars and report errors.\n" +
			"Delegation to grammars that are neither bundled nor loaded is reported too.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, e := newRegistry(vp)
			if e != nil {
				return e
			}

			failed := checkPaths(cmd.OutOrStdout(), r, args)
			if failed > 0 {
				return errors.Errorf("%d definition(s) failed", failed)
			}
			return nil
		},
	}
}

// checkPaths registers grammars loaded from paths and returns the number of failures.
func checkPaths(w io.Writer, r *registry.Registry, paths []string) (failed int) {
	var names []string
	for _, path := range paths {
		gs, e := loadGrammars(path)
		if e != nil {
			fmt.Fprintf(w, "%s %s: %s\n", red("FAIL"), path, describe(e))
			failed++
			continue
		}

		for _, g := range gs {
			l, e := r.Register(g)
			if e != nil {
				fmt.Fprintf(w, "%s %s (%s): %s\n", red("FAIL"), g.Name, path, describe(e))
				failed++
				continue
			}
			fmt.Fprintf(w, "%s %s (%s): %d modes\n", green("OK"), g.Name, path, l.ModeCount())
			names = append(names, g.Name)
		}
	}

	for _, name := range names {
		l, _ := r.Resolve(name)
		for _, d := range l.Delegates() {
			if !r.Has(d) {
				fmt.Fprintf(w, "%s %s: unknown delegated grammar %q\n", red("FAIL"), name, d)
				failed++
			}
		}
	}
	return
}

func describe(e error) string {
	if code := hilite.ErrorCode(e); code != 0 {
		return fmt.Sprintf("%s [code %d]", e, code)
	}
	return e.Error()
}
