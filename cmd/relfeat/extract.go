package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

type ExtractOptions struct {
	Gold bool

	// Labeled writes the label field; defaults to Gold
	Labeled bool

	Output string
	DB     string
}

func (a *app) extractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "extract the features of an annotation file into a feature file",
		ArgsUsage: "<annotation-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "gold", Usage: "the annotation file carries relation tags"},
			&cli.BoolFlag{Name: "labels", Usage: "write the relation label of each instance (default: --gold)"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "feature file (default: featurized_training with --gold, featurized_test otherwise)"},
			&cli.StringFlag{Name: "db", Usage: "also store the instances in this SQLite database"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("extract requires exactly one annotation file")
			}

			opts := ExtractOptions{
				Gold:    c.Bool("gold"),
				Labeled: c.Bool("gold"),
				Output:  c.String("output"),
				DB:      c.String("db"),
			}
			if c.IsSet("labels") {
				opts.Labeled = c.Bool("labels")
			}
			if opts.Output == "" {
				opts.Output = "featurized_test"
				if opts.Gold {
					opts.Output = "featurized_training"
				}
			}

			return a.extractCommand(opts, c.Args().First())
		},
	}
}

func (a *app) extractCommand(opts ExtractOptions, path string) error {
	if opts.Labeled && !opts.Gold {
		return errors.New("--labels requires --gold")
	}

	_, res, err := a.extract(path, opts.Gold)
	if err != nil {
		return err
	}

	if err := writeFeatureFile(opts.Output, res, opts.Labeled); err != nil {
		return err
	}

	if opts.DB != "" {
		p := &Pool{}
		defer p.Close()

		store, err := NewInstanceStore(p, opts.DB)
		if err != nil {
			return err
		}
		if err := writeAll(store, res); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.ui.Out, "Extracted %d instances from %d documents to %s\n", res.Len(), len(res.Titles), opts.Output)
	return nil
}
