package cli

import (
	"context"

	"github.com/m-mizutani/chatlaw/pkg/service/mcp"
	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		cfg config
		cc  consultConfig
	)

	var flags []cli.Flag
	flags = append(flags, consultFlags(&cc)...)
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, storageFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve consultations as MCP tools over stdio",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, cleanup, err := cc.newUseCase(ctx, &cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			srv, err := mcp.NewServer(uc, c.Root().Version)
			if err != nil {
				return err
			}

			logging.From(ctx).Info("serving MCP over stdio", "generator", cc.generator)
			return mcp.Serve(ctx, srv)
		},
	}
}
