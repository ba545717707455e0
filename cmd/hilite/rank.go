package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava12/hilite/registry"
)

func newRankCommand(vp *viper.Viper) *cobra.Command {
	var languages []string
	rankCmd := &cobra.Command{
		Use:   "rank [flags] [file]",
		Short: "Print grammars ordered by relevance for a file",
		Long: "Scan a file (standard input if none given) with each grammar and print grammars\n" +
			"ordered by relevance. Grammars rejecting the text are not listed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, e := newRegistry(vp)
			if e != nil {
				return e
			}
			inputs, e := readInputs(cmd.InOrStdin(), args)
			if e != nil {
				return e
			}

			ranked, e := r.Rank(cmd.Context(), inputs[0].text, languages...)
			if e != nil {
				return e
			}
			return rankTableOutput(cmd.OutOrStdout(), ranked)
		},
	}

	rankCmd.Flags().StringSliceVarP(&languages, "language", "l", nil, "Candidate grammar names or aliases, all grammars by default")
	return rankCmd
}

func rankTableOutput(w io.Writer, ranked []registry.Ranked) error {
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "GRAMMAR\tRELEVANCE\tTOKENS")
	for _, rk := range ranked {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", rk.Name, rk.Result.Relevance, len(rk.Result.Tokens))
	}
	return tw.Flush()
}
