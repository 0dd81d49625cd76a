package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/relfeat/classifier"
	"github.com/revelaction/relfeat/storage/filesystem"
)

type ClassifyOptions struct {
	Model string

	// Labels, if set, receives the best label of each instance
	Labels string
}

func (a *app) classifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "label an unlabeled feature file with a trained model",
		ArgsUsage: "<feature-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model", Required: true, Usage: "model written by train"},
			&cli.StringFlag{Name: "labels", Usage: "write the best label of each instance to this file"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("classify requires exactly one feature file")
			}
			opts := ClassifyOptions{Model: c.String("model"), Labels: c.String("labels")}
			return a.classifyCommand(c.Context, opts, c.Args().First())
		},
	}
}

func (a *app) classifyCommand(ctx context.Context, opts ClassifyOptions, featureFile string) error {
	cl := a.newClassifier(a.cfg, a.log)

	out, err := cl.Classify(ctx, classifier.Model{Path: opts.Model}, featureFile)
	if err != nil {
		return err
	}

	preds, err := classifier.ReadPredictionsFile(out)
	if err != nil {
		return err
	}

	if opts.Labels != "" {
		if err := filesystem.WriteLabelsFile(opts.Labels, classifier.Labels(preds)); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.ui.Out, "Labeled %d instances in %s\n", len(preds), out)
	return nil
}
