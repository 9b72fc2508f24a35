package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var (
		cfg       config
		sessionID model.SessionID
		text      bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "session-id",
			Aliases:     []string{"id"},
			Usage:       "Session ID of the archived report",
			Destination: (*string)(&sessionID),
			Required:    true,
		},
		&cli.BoolFlag{
			Name:        "text",
			Usage:       "Print only the report text instead of JSON",
			Destination: &text,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "show",
		Usage: "Show an archived consultation report",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			report, err := repo.GetReport(ctx, sessionID)
			if err != nil {
				return goerr.Wrap(err, "failed to get report")
			}

			if text {
				fmt.Fprintf(c.Root().Writer, "%s\n", report.Text)
				return nil
			}

			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to marshal report")
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", string(data))
			return nil
		},
	}
}
