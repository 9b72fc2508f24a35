package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func historyCommand() *cli.Command {
	var (
		cfg    config
		offset int64
		limit  int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "offset",
			Usage:       "Offset for pagination",
			Value:       0,
			Destination: &offset,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of reports to list",
			Value:       20,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "history",
		Usage: "List archived consultation reports, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Initialize repository
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			reports, err := repo.ListReports(ctx, int(offset), int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to list reports")
			}

			if len(reports) == 0 {
				fmt.Fprintf(c.Root().Writer, "No archived reports found\n")
				return nil
			}

			for _, r := range reports {
				kind := string(r.CaseType)
				if r.Subtype != "" {
					kind += "/" + string(r.Subtype)
				}
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%d\t%s\n",
					r.SessionID,
					kind,
					r.Turns,
					r.FinishedAt.Format("2006-01-02 15:04:05"),
				)
			}

			return nil
		},
	}
}
