package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/relfeat/storage/filesystem"
)

type ExportOptions struct {
	From    string
	To      string
	Labeled bool
}

func (a *app) exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the instances of a SQLite database to a feature file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Required: true, Usage: "SQLite database"},
			&cli.StringFlag{Name: "to", Required: true, Usage: "feature file"},
			&cli.BoolFlag{Name: "labeled", Usage: "write the label field"},
		},
		Action: func(c *cli.Context) error {
			opts := ExportOptions{
				From:    c.String("from"),
				To:      c.String("to"),
				Labeled: c.Bool("labeled"),
			}
			return a.exportCommand(opts)
		},
	}
}

func (a *app) exportCommand(opts ExportOptions) error {
	if _, err := os.Stat(opts.From); err != nil {
		return fmt.Errorf("repository not found: %s", opts.From)
	}

	p := &Pool{}
	defer p.Close()

	src, err := NewInstanceStore(p, opts.From)
	if err != nil {
		return err
	}

	titles, err := src.Titles()
	if err != nil {
		return err
	}

	dst := filesystem.NewFeatureFile(opts.To, opts.Labeled)
	if err := dst.Reset(); err != nil {
		return err
	}

	pr := newProgress(a.ui)
	defer pr.stop()
	advance := pr.bar(len(titles))

	count := 0
	for i, title := range titles {
		insts, err := src.Read(title)
		if err != nil {
			return fmt.Errorf("failed to read doc %s: %w", title, err)
		}

		if err := dst.Write(title, insts); err != nil {
			return err
		}
		count += len(insts)

		if advance != nil {
			advance(i+1, len(titles), title)
		}
	}

	fmt.Fprintf(a.ui.Out, "Successfully exported %d instances of %d docs from %s to %s\n", count, len(titles), opts.From, opts.To)
	return nil
}
