package main

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/relfeat/inspect"
	"github.com/revelaction/relfeat/render"
)

func (a *app) inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "browse mentions and their features interactively",
		ArgsUsage: "<annotation-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "gold", Usage: "the annotation file carries relation tags"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("inspect requires exactly one annotation file")
			}

			corp, res, err := a.extract(c.Args().First(), c.Bool("gold"))
			if err != nil {
				return err
			}

			r := render.NewTextRenderer(a.ui.Out)
			r.HasColor = a.ui.Terminal
			r.HasPrefix = false

			// now present the REPL
			h := inspect.NewHandler(corp, res, a.cfg.Features, r, a.ui.Out)
			return h.Run()
		},
	}
}
