package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

type Error struct {
	Code    int
	Message string
}

type runOptions struct {
	writer    io.Writer
	errWriter io.Writer
	reader    io.Reader
}

// RunOption configures Run
type RunOption func(*runOptions)

// WithWriter replaces standard output
func WithWriter(w io.Writer) RunOption {
	return func(o *runOptions) {
		o.writer = w
	}
}

// WithErrWriter replaces standard error, where logs are written
func WithErrWriter(w io.Writer) RunOption {
	return func(o *runOptions) {
		o.errWriter = w
	}
}

// WithReader replaces standard input
func WithReader(r io.Reader) RunOption {
	return func(o *runOptions) {
		o.reader = r
	}
}

type logConfig struct {
	level  string
	format string
}

func Run(ctx context.Context, argv []string, opts ...RunOption) *Error {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	var lc logConfig
	commands := []*cli.Command{
		consultCommand(),
		catalogCommand(),
		ingestCommand(),
		provisionsCommand(),
		searchCommand(),
		historyCommand(),
		showCommand(),
		serveCommand(),
	}
	for _, c := range commands {
		c.Action = lc.wrap(c.Action)
	}

	cmd := &cli.Command{
		Name:    "chatlaw",
		Usage:   "Lawyer-style legal consultation assistant",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Aliases:     []string{"l"},
				Usage:       "Log level (debug, info, warn, error)",
				Value:       "info",
				Sources:     cli.EnvVars("CHATLAW_LOG_LEVEL"),
				Destination: &lc.level,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log format (console, json)",
				Value:       "console",
				Sources:     cli.EnvVars("CHATLAW_LOG_FORMAT"),
				Destination: &lc.format,
			},
		},
		Commands:  commands,
		Writer:    o.writer,
		ErrWriter: o.errWriter,
		Reader:    o.reader,
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.From(ctx).Error("command failed", "error", err)
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}

// wrap installs the logger configured by the root flags before running action
func (lc *logConfig) wrap(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		format, err := logging.ParseFormat(lc.format)
		if err != nil {
			return err
		}

		logger := logging.New(lc.level, c.Root().ErrWriter, logging.WithFormat(format))
		logging.SetDefault(logger)
		return action(logging.With(ctx, logger), c)
	}
}
