package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arloliu/hexpipe/internal/config"
	"github.com/arloliu/hexpipe/internal/logging"
	"github.com/arloliu/hexpipe/internal/metrics"
)

const usage = `usage: hexpipe [-config hexpipe.toml] [-metrics-file path.prom] <command> [flags]

commands:
  kernels      list the kernel bank in canonical order
  encode       convert a matrix text file to a hex stream
  run1d        run the 1D convolution, ReLU and pooling pipeline
  reference    write the expected hex stream for the full 2D bank
  analyze      decode a hex stream and report completeness
  reconstruct  split a hex stream into per-kernel matrix files
`

var errUsage = errors.New("usage")

type app struct {
	cfg     config.Config
	log     zerolog.Logger
	metrics *metrics.Recorder
	stdout  io.Writer
	stderr  io.Writer
}

type command func(a *app, args []string) error

var commands = map[string]command{
	"kernels":     (*app).kernels,
	"encode":      (*app).encode,
	"run1d":       (*app).run1D,
	"reference":   (*app).reference,
	"analyze":     (*app).analyze,
	"reconstruct": (*app).reconstruct,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hexpipe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "path to hexpipe.toml")
	metricsPath := fs.String("metrics-file", "", "write Prometheus metrics to this file on exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "hexpipe: unknown command %q, want one of: %s\n\n", rest[0], commandNames())
		fs.Usage()
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "hexpipe: %v\n", err)
			return 1
		}
	}

	a := &app{
		cfg:     cfg,
		log:     logging.ConfigureRuntime(cfg.LogLevel),
		metrics: metrics.New(),
		stdout:  stdout,
		stderr:  stderr,
	}

	err := cmd(a, rest[1:])
	if *metricsPath != "" {
		if werr := a.metrics.WriteTextfile(*metricsPath); werr != nil {
			a.log.Error().Err(werr).Str("path", *metricsPath).Msg("write metrics")
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintf(stderr, "hexpipe %s: %v\n", rest[0], err)
		return 1
	}
}

func commandNames() string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	return fs
}

func requireFlag(fs *flag.FlagSet, name, value string) error {
	if value == "" {
		fmt.Fprintf(fs.Output(), "hexpipe %s: -%s is required\n", fs.Name(), name)
		fs.PrintDefaults()

		return errUsage
	}

	return nil
}
