package main

import (
	"errors"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/relfeat/render"
	"github.com/revelaction/relfeat/storage"
)

type ShowOptions struct {
	Gold     bool
	Doc      string
	Format   string
	DB       string
	NoPrefix bool
}

func (a *app) showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print the instances of an annotation file or of a database",
		ArgsUsage: "[annotation-file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "gold", Usage: "the annotation file carries relation tags"},
			&cli.StringFlag{Name: "doc", Usage: "only this document"},
			&cli.StringFlag{Name: "format", Value: render.Defaultformat, Usage: "text, json or yaml"},
			&cli.StringFlag{Name: "db", Usage: "read the instances from this SQLite database"},
			&cli.BoolFlag{Name: "no-prefix", Usage: "omit the title and index of each text line"},
		},
		Action: func(c *cli.Context) error {
			opts := ShowOptions{
				Gold:     c.Bool("gold"),
				Doc:      c.String("doc"),
				Format:   c.String("format"),
				DB:       c.String("db"),
				NoPrefix: c.Bool("no-prefix"),
			}

			if opts.DB != "" {
				p := &Pool{}
				defer p.Close()

				store, err := NewInstanceStore(p, opts.DB)
				if err != nil {
					return err
				}
				return a.showCommand(opts, store)
			}

			if c.NArg() != 1 {
				return errors.New("show requires an annotation file or --db")
			}

			_, res, err := a.extract(c.Args().First(), opts.Gold)
			if err != nil {
				return err
			}
			return a.showCommand(opts, resultReader{res})
		},
	}
}

func (a *app) showCommand(opts ShowOptions, src storage.InstanceReader) error {
	r, err := render.New(opts.Format, a.ui.Out)
	if err != nil {
		return err
	}
	if tr, ok := r.(*render.TextRenderer); ok {
		tr.HasPrefix = !opts.NoPrefix
		tr.HasColor = a.ui.Terminal
	}

	titles := []string{opts.Doc}
	if opts.Doc == "" {
		titles, err = src.Titles()
		if err != nil {
			return err
		}
	}

	for _, title := range titles {
		insts, err := src.Read(title)
		if err != nil {
			return err
		}
		if err := r.Render(title, insts); err != nil {
			return err
		}
	}

	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
