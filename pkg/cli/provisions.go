package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/usecase/corpus"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func provisionsCommand() *cli.Command {
	var (
		cfg      config
		caseType string
		offset   int64
		limit    int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "case-type",
			Aliases:     []string{"t"},
			Usage:       "Show only provisions of this case type",
			Destination: &caseType,
		},
		&cli.IntFlag{
			Name:        "offset",
			Usage:       "Offset for pagination",
			Value:       0,
			Destination: &offset,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of provisions to list",
			Value:       100,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "provisions",
		Usage: "List stored legal provisions",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ct := model.CaseType(caseType)
			if ct != "" && !ct.Valid() {
				return goerr.New("invalid case type", goerr.T(model.TagInvalidArgument), goerr.V("case_type", caseType))
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			// Listing does not embed anything
			uc := corpus.New(repo, nil)

			provisions, err := uc.List(ctx, corpus.ListOptions{
				CaseType: ct,
				Offset:   int(offset),
				Limit:    int(limit),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to list provisions")
			}

			for _, p := range provisions {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\n", p.ID, p.CaseType, p.Section, p.Title)
			}
			return nil
		},
	}
}
