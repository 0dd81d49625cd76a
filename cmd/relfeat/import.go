package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/relfeat/storage/filesystem"
)

type ImportOptions struct {
	From    string
	To      string
	Title   string
	Labeled bool
}

func (a *app) importCmd() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "store the instances of a feature file in a SQLite database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Required: true, Usage: "feature file"},
			&cli.StringFlag{Name: "to", Required: true, Usage: "SQLite database"},
			&cli.StringFlag{Name: "title", Usage: "document title of the instances (default: feature file name)"},
			&cli.BoolFlag{Name: "labeled", Usage: "the feature file carries the label field"},
		},
		Action: func(c *cli.Context) error {
			opts := ImportOptions{
				From:    c.String("from"),
				To:      c.String("to"),
				Title:   c.String("title"),
				Labeled: c.Bool("labeled"),
			}
			if opts.Title == "" {
				opts.Title = filepath.Base(opts.From)
			}
			return a.importCommand(opts)
		},
	}
}

func (a *app) importCommand(opts ImportOptions) error {
	src := filesystem.NewFeatureFile(opts.From, opts.Labeled)
	insts, err := src.Read(opts.Title)
	if err != nil {
		return err
	}

	p := &Pool{}
	defer p.Close()

	dst, err := NewInstanceStore(p, opts.To)
	if err != nil {
		return err
	}

	if err := dst.Write(opts.Title, insts); err != nil {
		return fmt.Errorf("failed to write doc %s: %w", opts.Title, err)
	}

	fmt.Fprintf(a.ui.Out, "Successfully imported %d instances from %s to %s\n", len(insts), opts.From, opts.To)
	return nil
}
