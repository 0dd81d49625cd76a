package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/relfeat/relation"
	"github.com/revelaction/relfeat/render"
	"github.com/revelaction/relfeat/stat"
	"github.com/revelaction/relfeat/storage"
)

type StatOptions struct {
	Gold bool
	Top  int
	DB   string
}

func (a *app) statCmd() *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "print corpus and feature statistics",
		ArgsUsage: "<annotation-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "gold", Usage: "the annotation file carries relation tags"},
			&cli.IntFlag{Name: "top", Value: 20, Usage: "number of most frequent features"},
			&cli.StringFlag{Name: "db", Usage: "read the instances from this SQLite database instead"},
		},
		Action: func(c *cli.Context) error {
			opts := StatOptions{Gold: c.Bool("gold"), Top: c.Int("top"), DB: c.String("db")}

			if opts.DB != "" {
				return a.statDBCommand(opts)
			}
			if c.NArg() != 1 {
				return errors.New("stat requires an annotation file or --db")
			}
			return a.statCommand(opts, c.Args().First())
		},
	}
}

func (a *app) statCommand(opts StatOptions, path string) error {
	c, res, err := a.extract(path, opts.Gold)
	if err != nil {
		return err
	}

	hdl := stat.NewHandler()
	hdl.AggregateCorpus(c)
	hdl.AggregateInstances(res.All())
	if opts.Gold {
		hdl.AggregateGoldPairs(relation.GoldPairs(c, a.cfg.Negative))
	}

	fmt.Fprintln(a.ui.Out, render.StatTable(hdl.Get()))
	fmt.Fprintln(a.ui.Out, render.FeatureTable(hdl.TopFeatures(opts.Top)))
	return nil
}

func (a *app) statDBCommand(opts StatOptions) error {
	p := &Pool{}
	defer p.Close()

	store, err := NewInstanceStore(p, opts.DB)
	if err != nil {
		return err
	}

	insts, err := storage.ReadAll(store)
	if err != nil {
		return err
	}

	hdl := stat.NewHandler()
	hdl.AggregateInstances(insts)

	counts, err := store.FeatureCounts(opts.Top)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.ui.Out, render.StatTable(hdl.Get()))
	fmt.Fprintln(a.ui.Out, render.FeatureTable(counts))
	return nil
}
