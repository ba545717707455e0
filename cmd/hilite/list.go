package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newListCommand(vp *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print registered grammars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, e := newRegistry(vp)
			if e != nil {
				return e
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "GRAMMAR\tALIASES\tMODES\tDELEGATES")
			for _, name := range r.Names() {
				l, e := r.Resolve(name)
				if e != nil {
					return e
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", name, joinOrDash(l.Aliases()), l.ModeCount(), joinOrDash(l.Delegates()))
			}
			return tw.Flush()
		},
	}
}

func joinOrDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ",")
}
