package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

func (a *app) trainCmd() *cli.Command {
	return &cli.Command{
		Name:      "train",
		Usage:     "train the classifier on a labeled feature file",
		ArgsUsage: "<feature-file>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("train requires exactly one feature file")
			}
			return a.trainCommand(c.Context, c.Args().First())
		},
	}
}

func (a *app) trainCommand(ctx context.Context, featureFile string) error {
	cl := a.newClassifier(a.cfg, a.log)

	model, err := cl.Train(ctx, featureFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.ui.Out, "Model written to %s\n", model.Path)
	return nil
}
