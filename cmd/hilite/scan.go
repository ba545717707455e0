package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ava12/hilite/lexer"
	"github.com/ava12/hilite/registry"
	"github.com/ava12/hilite/tree"
)

type scanOptions struct {
	language string
	merged   bool
	output   string
	selected []string
}

var outputFormats = []string{"tokens", "text", "tree"}

type input struct {
	name string
	text string
}

func newScanCommand(vp *viper.Viper) *cobra.Command {
	var opts scanOptions
	scanCmd := &cobra.Command{
		Use:   "scan [flags] [file...]",
		Short: "Scan files and print tokens",
		Long: "Scan files (standard input if none given) and print tokens.\n" +
			"The most relevant grammar is used for each file unless the language is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, vp, opts, args)
		},
	}

	flags := scanCmd.Flags()
	flags.StringVarP(&opts.language, "language", "l", "", "Grammar name or alias")
	flags.BoolVarP(&opts.merged, "merged", "m", false, "Join adjacent tokens of the same category")
	flags.StringVarP(&opts.output, "output", "o", "tokens",
		`Specify the output format, one of:
 tokens:  one token per line
 text:    source text colored by category
 tree:    nested regions and tokens`)
	flags.StringSliceVarP(&opts.selected, "select", "s", nil, "Print only regions and tokens of listed categories")
	scanCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveDefault
	})
	return scanCmd
}

func readInputs(stdin io.Reader, files []string) ([]input, error) {
	if len(files) == 0 {
		data, e := io.ReadAll(stdin)
		if e != nil {
			return nil, errors.Wrap(e, "failed to read standard input")
		}
		return []input{{"<stdin>", string(data)}}, nil
	}

	res := make([]input, len(files))
	for i, name := range files {
		data, e := os.ReadFile(name)
		if e != nil {
			return nil, errors.WithStack(e)
		}
		res[i] = input{name, string(data)}
	}
	return res, nil
}

// scanText scans text with named grammar or with the most relevant one if name is empty.
func scanText(ctx context.Context, r *registry.Registry, text, name string) (*lexer.Result, error) {
	if name != "" {
		return r.Scan(text, name)
	}

	ranked, e := r.Rank(ctx, text)
	if e != nil {
		return nil, e
	}
	if len(ranked) == 0 {
		return nil, errors.New("no grammar accepts the text")
	}
	return ranked[0].Result, nil
}

func runScan(cmd *cobra.Command, vp *viper.Viper, opts scanOptions, files []string) error {
	if !slices.Contains(outputFormats, opts.output) {
		return fmt.Errorf("unknown output format: %s", opts.output)
	}

	r, e := newRegistry(vp)
	if e != nil {
		return e
	}
	inputs, e := readInputs(cmd.InOrStdin(), files)
	if e != nil {
		return e
	}

	results := make([]*lexer.Result, len(inputs))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, in := range inputs {
		g.Go(func() error {
			res, e := scanText(ctx, r, in.text, opts.language)
			if e != nil {
				return errors.WithMessage(e, in.name)
			}
			log.WithFields(logrus.Fields{
				"file":      in.name,
				"grammar":   res.Grammar,
				"relevance": res.Relevance,
				"tokens":    len(res.Tokens),
			}).Debug("Scanned")
			results[i] = res
			return nil
		})
	}
	if e = g.Wait(); e != nil {
		return e
	}

	out := cmd.OutOrStdout()
	for i, res := range results {
		if len(inputs) > 1 {
			fmt.Fprintf(out, "==> %s (%s, relevance %d) <==\n", inputs[i].name, res.Grammar, res.Relevance)
		}

		tokens := res.Tokens
		if opts.merged {
			tokens = res.Merged()
		}
		switch {
		case len(opts.selected) > 0:
			e = selectOutput(out, res, opts.selected)
		case opts.output == "text":
			e = textOutput(out, res, tokens)
		case opts.output == "tree":
			e = treeOutput(out, res)
		default:
			e = tokenOutput(out, res, tokens)
		}
		if e != nil {
			return e
		}
	}
	return nil
}

var categoryColors = map[string]*color.Color{
	"keyword":  color.New(color.FgBlue, color.Bold),
	"built_in": color.New(color.FgHiBlue),
	"literal":  color.New(color.FgHiBlue),
	"string":   color.New(color.FgGreen),
	"comment":  color.New(color.FgHiBlack),
	"doctag":   color.New(color.FgHiBlack, color.Bold),
	"number":   color.New(color.FgCyan),
	"meta":     color.New(color.FgMagenta),
	"variable": color.New(color.FgYellow),
	"subst":    color.New(color.FgYellow),
	"title":    color.New(color.FgHiYellow),
	"params":   color.New(color.FgHiYellow),
}

func paint(category, text string) string {
	if c := categoryColors[category]; c != nil {
		return c.Sprint(text)
	}
	return text
}

func tokenOutput(w io.Writer, res *lexer.Result, tokens []lexer.Token) error {
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for _, t := range tokens {
		category := t.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(tw, "%d:%d\t%d\t%s\t%s\t%s\t%q\n",
			t.Start, t.End, t.Depth, t.Grammar, t.Kind, paint(t.Category, category), res.TokenText(t))
	}
	return tw.Flush()
}

func textOutput(w io.Writer, res *lexer.Result, tokens []lexer.Token) error {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(paint(t.Category, res.TokenText(t)))
	}
	_, e := io.WriteString(w, sb.String())
	return e
}

func treeOutput(w io.Writer, res *lexer.Result) error {
	var sb strings.Builder
	tree.Walk(tree.Build(res), tree.WalkLtr, func(n *tree.Node) (bool, bool) {
		indent := strings.Repeat("  ", tree.Level(n))
		switch {
		case n.IsRoot():
			fmt.Fprintf(&sb, "%s\n", n.Grammar())
		case n.IsToken():
			fmt.Fprintf(&sb, "%s%s %s %q\n", indent, n.Kind(), paint(n.Category(), n.Category()), n.Text())
		case n.Category() == "":
			fmt.Fprintf(&sb, "%s(%s)\n", indent, n.Grammar())
		default:
			fmt.Fprintf(&sb, "%s%s:\n", indent, paint(n.Category(), n.Category()))
		}
		return true, true
	})
	_, e := io.WriteString(w, sb.String())
	return e
}

// selectOutput prints outermost nodes of selected categories with their category paths.
func selectOutput(w io.Writer, res *lexer.Result, categories []string) error {
	nodes := tree.NewSelector().Search(tree.IsA(categories...), false).Apply(tree.Build(res))
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for _, n := range nodes {
		path := tree.Path(n)
		if n.IsToken() {
			path = append(path, n.Category())
		}
		fmt.Fprintf(tw, "%d:%d\t%s\t%q\n", n.Start(), n.End(), strings.Join(path, "/"), n.Text())
	}
	return tw.Flush()
}
