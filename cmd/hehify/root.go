package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/hehify/internal/logger"
	"github.com/bastiangx/hehify/internal/utils"
	"github.com/bastiangx/hehify/pkg/config"
	"github.com/bastiangx/hehify/pkg/heh"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// app is the state shared by all commands, filled in before any of them run.
type app struct {
	configFlag string
	debug      bool
	rate       float64
	level      float64
	seed       int64

	cfg        *config.Config
	configPath string
	resolver   *utils.PathResolver
}

func newRootCmd() *cobra.Command {
	a := &app{}
	defaults := config.DefaultConfig()

	root := &cobra.Command{
		Use:           AppName + " [text...]",
		Short:         "Rewrite Russian text with хе-syllables",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: a.runTransform,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFlag, "config", "", "path to config.toml")
	flags.BoolVarP(&a.debug, "debug", "d", false, "toggle debug logging")
	flags.Float64Var(&a.rate, "rate", defaults.Heh.Rate, "probability that a word is rewritten, 0..1")
	flags.Float64Var(&a.level, "level", defaults.Heh.Level, "fraction of syllables replaced in a rewritten word, 0..1")
	flags.Int64Var(&a.seed, "seed", 0, "seed for reproducible output")

	root.AddCommand(
		&cobra.Command{
			Use:   "transform [text...]",
			Short: "Transform arguments or stdin line by line",
			RunE:  a.runTransform,
		},
		newReplCmd(a),
		newServeCmd(a),
		newHTTPCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// init sets the log level and loads the config.
func (a *app) init(cmd *cobra.Command) error {
	if a.debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	l := logger.New("")
	log.SetDefault(l)
	cmd.SetContext(logger.WithLogger(cmd.Context(), l))

	resolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
	}
	a.resolver = resolver

	cfg, path, err := config.LoadConfigWithPriority(a.configFlag)
	if err != nil {
		return err
	}
	a.cfg, a.configPath = cfg, path
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(path))
	return nil
}

// overrides collects the settings flags given explicitly.
func (a *app) overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("rate") {
		o.Rate = &a.rate
	}
	if flags.Changed("level") {
		o.Level = &a.level
	}
	if flags.Changed("seed") {
		o.Seed = &a.seed
	}
	return o
}

// transformer builds a transformer from the config with flag overrides.
func (a *app) transformer(cmd *cobra.Command) (*heh.Transformer, error) {
	return a.cfg.NewTransformer(a.resolve(), a.overrides(cmd).Apply)
}

func (a *app) resolve() config.Resolver {
	if a.resolver == nil {
		return nil
	}
	return a.resolver.ResolveFile
}

func (a *app) runTransform(cmd *cobra.Command, args []string) error {
	t, err := a.transformer(cmd)
	if err != nil {
		return err
	}
	l := logger.FromContext(cmd.Context())
	p := logger.StartProgress(l)

	var total heh.Stats
	emit := func(line string) error {
		out, st := t.Transform(line)
		total.Words += st.Words
		total.Changed += st.Changed
		_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}

	if len(args) > 0 {
		if err := emit(strings.Join(args, " ")); err != nil {
			return err
		}
	} else if err := eachLine(cmd.InOrStdin(), a.cfg.Server.MaxTextLen, emit); err != nil {
		return err
	}
	p.Done(fmt.Sprintf("Transformed %d words, changed %d", total.Words, total.Changed))
	return nil
}

// eachLine calls fn for every line of r. Lines may be up to maxLen bytes.
func eachLine(r io.Reader, maxLen int, fn func(string) error) error {
	scanner := bufio.NewScanner(r)
	if maxLen > bufio.MaxScanTokenSize {
		scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLen+1)
	}
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
