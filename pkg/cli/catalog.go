package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/question"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func catalogCommand() *cli.Command {
	var (
		caseType string
		subtype  string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "case-type",
			Aliases:     []string{"t"},
			Usage:       "Case type (criminal, family, property, contract, general)",
			Value:       string(model.CaseTypeGeneral),
			Destination: &caseType,
		},
		&cli.StringFlag{
			Name:        "subtype",
			Aliases:     []string{"s"},
			Usage:       "Criminal subtype (murder, theft, robbery, assault)",
			Destination: &subtype,
		},
	}

	return &cli.Command{
		Name:  "catalog",
		Usage: "Print the questions asked for a kind of matter, in order",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ct := model.CaseType(caseType)
			if !ct.Valid() {
				return goerr.New("unknown case type", goerr.T(model.TagInvalidArgument), goerr.V("case_type", caseType))
			}
			st := model.Subtype(subtype)
			if !st.Valid() {
				return goerr.New("unknown subtype", goerr.T(model.TagInvalidArgument), goerr.V("subtype", subtype))
			}

			for i, q := range question.Lookup(ct, st) {
				fmt.Fprintf(c.Root().Writer, "%d. %s\n", i+1, q)
			}
			return nil
		},
	}
}
