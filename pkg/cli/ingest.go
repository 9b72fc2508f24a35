package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/chatlaw/pkg/usecase/corpus"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func ingestCommand() *cli.Command {
	var (
		cfg         config
		inputPath   string
		concurrency int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to YAML file of legal provisions ('-' for stdin)",
			Sources:     cli.EnvVars("CHATLAW_INPUT"),
			Destination: &inputPath,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of provisions embedded at once",
			Value:       4,
			Destination: &concurrency,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Embed and store legal provisions used to ground reports",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if inputPath == "" {
				return goerr.New("input file path is required")
			}

			var r io.Reader = c.Root().Reader
			if inputPath != "-" {
				f, err := os.Open(inputPath)
				if err != nil {
					return goerr.Wrap(err, "failed to open input file", goerr.V("path", inputPath))
				}
				defer f.Close()
				r = f
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

			uc := corpus.New(repo, gemini, corpus.WithConcurrency(int(concurrency)))

			provisions, err := uc.Ingest(ctx, r)
			if err != nil {
				return goerr.Wrap(err, "failed to ingest provisions")
			}

			for _, p := range provisions {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\n", p.ID, p.CaseType, p.Title)
			}
			fmt.Fprintf(c.Root().Writer, "Ingested %d provisions\n", len(provisions))
			return nil
		},
	}
}
