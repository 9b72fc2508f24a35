package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/chatlaw/pkg/analysis"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	var (
		cfg      config
		query    string
		caseType string
		limit    int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Natural language description of the case",
			Sources:     cli.EnvVars("CHATLAW_SEARCH_QUERY"),
			Destination: &query,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "case-type",
			Aliases:     []string{"t"},
			Usage:       "Prefer provisions of this case type",
			Destination: &caseType,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"n"},
			Usage:       "Maximum number of provisions to return",
			Value:       5,
			Sources:     cli.EnvVars("CHATLAW_SEARCH_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "search",
		Usage: "Search legal provisions by vector similarity",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ct := model.CaseType(caseType)
			if ct != "" && !ct.Valid() {
				return goerr.New("invalid case type", goerr.T(model.TagInvalidArgument), goerr.V("case_type", caseType))
			}

			// Initialize dependencies
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			provisions, err := analysis.NewRetriever(gemini, repo).SearchProvisions(ctx, query, ct, int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to search provisions")
			}

			if len(provisions) == 0 {
				fmt.Fprintf(c.Root().Writer, "No provisions found\n")
				return nil
			}
			for _, p := range provisions {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\n", p.ID, p.CaseType, p.Section, p.Title)
			}
			return nil
		},
	}
}
