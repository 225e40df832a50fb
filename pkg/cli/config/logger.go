package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/feelcast/feelcast/pkg/utils/logging"
	"github.com/feelcast/feelcast/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Logger configures the process wide slog logger.
type Logger struct {
	level      string
	format     string
	output     string
	quiet      bool
	stacktrace bool
}

var standardOutputs = map[string]io.Writer{
	"":       os.Stdout,
	"-":      os.Stdout,
	"stdout": os.Stdout,
	"stderr": os.Stderr,
}

func (x *Logger) Flags() []cli.Flag {
	const category = "logging"
	env := func(name string) cli.ValueSourceChain {
		return cli.EnvVars("FEELCAST_LOG_" + name)
	}

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Aliases:     []string{"l"},
			Usage:       "Minimum level [debug|info|warn|error]",
			Category:    category,
			Sources:     env("LEVEL"),
			Value:       "info",
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Aliases:     []string{"f"},
			Usage:       "Output format [console|json]",
			Category:    category,
			Sources:     env("FORMAT"),
			Value:       "console",
			Destination: &x.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Aliases:     []string{"o"},
			Usage:       "stdout, stderr or a file path to append to",
			Category:    category,
			Sources:     env("OUTPUT"),
			Value:       "stdout",
			Destination: &x.output,
		},
		&cli.BoolFlag{
			Name:        "log-quiet",
			Aliases:     []string{"q"},
			Usage:       "Discard all logs",
			Category:    category,
			Sources:     env("QUIET"),
			Destination: &x.quiet,
		},
		&cli.BoolFlag{
			Name:        "log-stacktrace",
			Usage:       "Print error stacktraces in console format",
			Category:    category,
			Sources:     env("STACKTRACE"),
			Value:       true,
			Destination: &x.stacktrace,
		},
	}
}

func (x Logger) LogValue() slog.Value {
	if x.quiet {
		return slog.StringValue("quiet")
	}
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
	)
}

// openOutput returns the writer for dst and a func releasing it.
func openOutput(dst string) (io.Writer, func(), error) {
	if w, ok := standardOutputs[dst]; ok {
		return w, func() {}, nil
	}

	path := filepath.Clean(dst)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, func() {}, goerr.Wrap(err, "failed to open log file", goerr.V("path", path))
	}
	return f, safe.Closer(context.Background(), f), nil
}

// Configure installs the logger as default. The returned func releases the
// log file and is never nil.
func (x *Logger) Configure() (func(), error) {
	noop := func() {}
	if x.quiet {
		logging.Quiet()
		return noop, nil
	}

	level, err := logging.ParseLevel(x.level)
	if err != nil {
		return noop, err
	}
	format, err := logging.ParseFormat(x.format)
	if err != nil {
		return noop, err
	}

	w, release, err := openOutput(x.output)
	if err != nil {
		return noop, err
	}
	logging.SetDefault(logging.New(w, level, format, x.stacktrace))
	return release, nil
}
