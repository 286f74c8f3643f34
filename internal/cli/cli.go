// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cli implements the pulsenet command line: flag and configuration
// handling, input loading and exit codes.
//
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/db47h/pulsenet"
	"github.com/db47h/pulsenet/hclnet"
	"github.com/db47h/pulsenet/internal/ctxlog"
	"github.com/db47h/pulsenet/netlib"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitError is an error carrying the process exit code.
//
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
//
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...interface{}) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Config holds the settings of a simulation run, merged from flags, the
// environment and the configuration file.
//
type Config struct {
	Input        string // "-" reads from stdin
	Format       string // auto, edges or hcl
	Entry        string
	Sink         string
	Triggers     int
	Limit        int
	Verify       bool
	SkipAnalysis bool
	Metrics      bool
}

func (c *Config) validate() error {
	switch c.Format {
	case "auto", "edges", "hcl":
	default:
		return usageError("invalid format %q: must be 'auto', 'edges' or 'hcl'", c.Format)
	}
	if c.Triggers < 0 {
		return usageError("invalid trigger count %d", c.Triggers)
	}
	if c.Entry == "" {
		return usageError("entry module name cannot be empty")
	}
	return nil
}

// format resolves "auto" from the input file extension.
//
func (c *Config) format() string {
	if c.Format != "auto" {
		return c.Format
	}
	if strings.EqualFold(filepath.Ext(c.Input), ".hcl") {
		return "hcl"
	}
	return "edges"
}

// Run executes the pulsenet command line with args. Results go to out, logs
// and diagnostics to errOut. in is read when the input file is "-".
//
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	if args == nil {
		args = []string{}
	}
	cmd := NewCommand()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

// NewCommand returns the root command. Every call returns an independent
// command tree with its own configuration.
//
func NewCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "pulsenet [flags] FILE",
		Short:         "Simulate a pulse network",
		Example:       "pulsenet -n 1000 network.txt\npulsenet gen 3853 4073 4091 4093 | pulsenet -",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError("expected exactly one input file, got %d", len(args))
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &Config{
				Input:        args[0],
				Format:       strings.ToLower(v.GetString("format")),
				Entry:        v.GetString("entry"),
				Sink:         v.GetString("sink"),
				Triggers:     v.GetInt("triggers"),
				Limit:        v.GetInt("limit"),
				Verify:       v.GetBool("verify"),
				SkipAnalysis: v.GetBool("skip-analysis"),
				Metrics:      v.GetBool("metrics"),
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			return simulate(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./.pulsenet.yaml)")
	pf.String("log-level", "warn", "logging level: debug, info, warn or error")
	pf.String("log-format", "text", "log output format: text or json")

	f := root.Flags()
	f.IntP("triggers", "n", 1000, "number of button presses to simulate")
	f.String("entry", pulsenet.DefaultEntry, "module receiving the button pulse")
	f.String("sink", "", "sink module for the periodicity analysis (default: the single module without outputs)")
	f.Int("limit", pulsenet.DefaultLimit, "maximum number of triggers run by the periodicity analysis")
	f.Bool("verify", false, "check that watchpoints are periodic before computing the activation index")
	f.String("format", "auto", "input format: auto, edges or hcl")
	f.Bool("skip-analysis", false, "do not run the periodicity analysis")
	f.Bool("metrics", false, "print pulse counters in Prometheus text format")

	root.AddCommand(newGenCommand(v))
	return root
}

// setup loads the configuration and installs the logger in the command
// context.
//
func setup(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("pulsenet")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".pulsenet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	err := v.ReadInConfig()
	// A missing config file is only an error if one was named explicitly.
	var nf viper.ConfigFileNotFoundError
	if err != nil && (cfgFile != "" || !errors.As(err, &nf)) {
		return usageError("error reading configuration: %v", err)
	}

	l, err := ctxlog.New(v.GetString("log-level"), v.GetString("log-format"), cmd.ErrOrStderr())
	if err != nil {
		return usageError("%v", err)
	}
	if f := v.ConfigFileUsed(); f != "" {
		l.WithField("file", f).Debug("configuration loaded")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(ctxlog.WithLogger(ctx, l))
	return nil
}

func simulate(ctx context.Context, cfg *Config, stdin io.Reader, out io.Writer) error {
	log := ctxlog.FromContext(ctx)

	n, err := load(cfg, stdin)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"modules": n.Len(), "entry": n.Entry()}).Info("network loaded")

	var (
		reg    *prometheus.Registry
		probes []pulsenet.Probe
	)
	if cfg.Metrics {
		reg = prometheus.NewRegistry()
		m, err := pulsenet.NewMetrics(reg)
		if err != nil {
			return err
		}
		probes = append(probes, m.Probe)
	}

	tl := n.Run(cfg.Triggers, probes...)
	log.WithFields(logrus.Fields{"triggers": cfg.Triggers, "low": tl.Low, "high": tl.High}).Info("simulation done")
	fmt.Fprintln(out, tl.Product())

	if !cfg.SkipAnalysis {
		a := pulsenet.Analyzer{Sink: cfg.Sink, Limit: cfg.Limit, Verify: cfg.Verify, Log: log}
		act, err := a.Run(n)
		if err != nil {
			return errors.Wrap(err, "periodicity analysis")
		}
		log.WithFields(logrus.Fields{"sink": act.Sink, "aggregate": act.Aggregate}).Info("analysis done")
		fmt.Fprintln(out, act.Index)
	}

	if reg != nil {
		return writeMetrics(out, reg)
	}
	return nil
}

func load(cfg *Config, stdin io.Reader) (*pulsenet.Network, error) {
	var (
		src []byte
		err error
	)
	if cfg.Input == "-" {
		src, err = io.ReadAll(stdin)
	} else {
		src, err = os.ReadFile(cfg.Input)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read network")
	}

	opts := []pulsenet.Option{pulsenet.WithEntry(cfg.Entry)}
	if cfg.format() == "hcl" {
		return hclnet.Parse(src, cfg.Input, opts...)
	}
	n, err := pulsenet.Parse(splitLines(src), opts...)
	if err != nil {
		return nil, errors.Wrap(err, cfg.Input)
	}
	return n, nil
}

// splitLines splits src into lines. Line length is not limited.
//
func splitLines(src []byte) []string {
	lines := strings.Split(string(src), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func writeMetrics(out io.Writer, reg *prometheus.Registry) error {
	mfs, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}

func newGenCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [flags] PERIOD...",
		Short: "Print a network of counters whose sink activates at the LCM of the periods",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError("expected at least one period")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			periods := make([]int, len(args))
			for i, a := range args {
				p, err := strconv.Atoi(a)
				if err != nil {
					return usageError("invalid period %q", a)
				}
				periods[i] = p
			}
			decls, err := netlib.Bank(periods, v.GetString("sink"))
			if err != nil {
				return usageError("%v", err)
			}
			ctxlog.FromContext(cmd.Context()).WithField("modules", len(decls)).Debug("network generated")

			out := cmd.OutOrStdout()
			switch strings.ToLower(v.GetString("format")) {
			case "edges":
				for _, l := range netlib.Lines(decls) {
					fmt.Fprintln(out, l)
				}
			case "hcl":
				_, err = out.Write(hclnet.Encode(decls))
			default:
				return usageError("invalid format %q: must be 'edges' or 'hcl'", v.GetString("format"))
			}
			return err
		},
	}
	cmd.Flags().String("sink", "rx", "name of the sink module")
	cmd.Flags().String("format", "edges", "output format: edges or hcl")
	return cmd
}
