package main

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava12/hilite/grammar"
	"github.com/ava12/hilite/grammars"
	"github.com/ava12/hilite/internal/logging"
	"github.com/ava12/hilite/langdef"
	"github.com/ava12/hilite/lexer"
	"github.com/ava12/hilite/registry"
)

// Keys of global flags, also used as config file keys.
const (
	keyConfig       = "config"        // string
	keyDebug        = "debug"         // bool
	keyLogFormat    = "log-format"    // string
	keyGrammars     = "grammars"      // []string
	keyMaxDepth     = "max-depth"     // int
	keyMatchTimeout = "match-timeout" // time.Duration
	keyNoColor      = "no-color"      // bool
)

var log = logging.ForSubsys("cli")

func newRootCommand() *cobra.Command {
	vp := newViper()
	rootCmd := &cobra.Command{
		Use:          "hilite",
		Short:        "hilite scans text with highlighting grammars",
		Long:         "hilite scans text with highlighting grammars and ranks grammars by relevance.",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setup(vp)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(keyConfig, "", "Optional config file (YAML, TOML, or JSON)")
	flags.BoolP(keyDebug, "D", false, "Enable debug messages")
	flags.String(keyLogFormat, string(logging.LogFormatText), "Log format, text or json")
	flags.StringSliceP(keyGrammars, "g", nil, "Grammar definition files or directories to load")
	flags.Int(keyMaxDepth, 0, "Mode nesting limit, 0 means default limit")
	flags.Duration(keyMatchTimeout, 0, "Single pattern match time limit, 0 means no limit")
	flags.Bool(keyNoColor, false, "Disable colored output")
	vp.BindPFlags(flags)

	rootCmd.AddCommand(
		newScanCommand(vp),
		newRankCommand(vp),
		newCheckCommand(vp),
		newListCommand(vp),
		newGenCommand(),
	)
	return rootCmd
}

func newViper() *viper.Viper {
	vp := viper.New()
	vp.SetEnvPrefix("hilite")
	vp.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vp.AutomaticEnv()
	return vp
}

func setup(vp *viper.Viper) error {
	if path := vp.GetString(keyConfig); path != "" {
		vp.SetConfigFile(path)
		if e := vp.ReadInConfig(); e != nil {
			return errors.Wrapf(e, "failed to read config file '%s'", path)
		}
	}

	level := ""
	if vp.GetBool(keyDebug) {
		level = "debug"
	}
	logging.SetupLogging(level, logging.LogFormat(vp.GetString(keyLogFormat)))
	if vp.GetBool(keyNoColor) {
		color.NoColor = true
	}
	if path := vp.ConfigFileUsed(); path != "" {
		log.WithField("file", path).Debug("Using config file")
	}
	return nil
}

func lexerOptions(vp *viper.Viper) lexer.Options {
	return lexer.Options{
		MaxDepth:     vp.GetInt(keyMaxDepth),
		MatchTimeout: vp.GetDuration(keyMatchTimeout),
	}
}

// loadGrammars loads one definition file or all definition files of a directory.
func loadGrammars(path string) ([]*grammar.Grammar, error) {
	info, e := os.Stat(path)
	if e != nil {
		return nil, errors.WithStack(e)
	}
	if info.IsDir() {
		return langdef.LoadDir(path)
	}

	g, e := langdef.Load(path)
	if e != nil {
		return nil, e
	}
	return []*grammar.Grammar{g}, nil
}

// newRegistry creates a registry with bundled grammars and grammars listed in config.
func newRegistry(vp *viper.Viper) (*registry.Registry, error) {
	r, e := grammars.NewRegistry(lexerOptions(vp))
	if e != nil {
		return nil, e
	}

	for _, path := range vp.GetStringSlice(keyGrammars) {
		gs, e := loadGrammars(path)
		if e != nil {
			return nil, e
		}
		for _, g := range gs {
			if _, e = r.Register(g); e != nil {
				return nil, errors.WithMessage(e, path)
			}
		}
	}
	return r, nil
}
