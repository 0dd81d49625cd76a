package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/relfeat/render"
	"github.com/revelaction/relfeat/score"
)

const (
	confusionFile = "confusion_matrix.txt"
	byTypeFile    = "prf_by_reltype.txt"
)

type ScoreOptions struct {
	Negative string
	OutDir   string
	Format   string
}

func (a *app) scoreCmd() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "compare predicted labels with gold labels",
		ArgsUsage: "<gold-labels> <predicted-labels>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "negative", Usage: "label never counted as a relation (default: score.negative)"},
			&cli.StringFlag{Name: "out-dir", Usage: "write " + confusionFile + " and " + byTypeFile + " to this directory"},
			&cli.StringFlag{Name: "format", Value: render.Defaultformat, Usage: "text, json or yaml"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return errors.New("score requires a gold label file and a predicted label file")
			}

			opts := ScoreOptions{
				Negative: c.String("negative"),
				OutDir:   c.String("out-dir"),
				Format:   c.String("format"),
			}
			if opts.Negative == "" {
				opts.Negative = a.cfg.Negative
			}

			return a.scoreCommand(opts, c.Args().Get(0), c.Args().Get(1))
		},
	}
}

func (a *app) scoreCommand(opts ScoreOptions, goldPath, predPath string) error {
	gold, err := score.ReadLabelsFile(goldPath)
	if err != nil {
		return err
	}

	pred, err := score.ReadLabelsFile(predPath)
	if err != nil {
		return err
	}

	report, err := score.Evaluate(gold, pred, opts.Negative)
	if err != nil {
		return err
	}

	if opts.OutDir != "" {
		if err := writeReport(opts.OutDir, report); err != nil {
			return err
		}
	}

	return printReport(a.ui.Out, opts.Format, report)
}

func writeReport(dir string, report score.Report) error {
	if err := writeFile(filepath.Join(dir, confusionFile), func(w io.Writer) error {
		return score.WriteConfusions(w, report)
	}); err != nil {
		return err
	}

	return writeFile(filepath.Join(dir, byTypeFile), func(w io.Writer) error {
		return score.WriteByType(w, report)
	})
}

func printReport(w io.Writer, format string, report score.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		r := render.NewYAMLRenderer(w)
		if err := r.Value(report); err != nil {
			return err
		}
		return r.Close()
	case "", "text":
		fmt.Fprintln(w, render.ScoreTable(report))
		if len(report.Confusions) > 0 {
			fmt.Fprintln(w, render.ConfusionTable(report))
		}
		fmt.Fprintf(w, "%d correct of %d gold and %d predicted relations\n", report.Correct, report.GoldTotal, report.TestTotal)
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
