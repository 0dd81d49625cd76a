package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/relfeat/classifier"
	"github.com/revelaction/relfeat/score"
	"github.com/revelaction/relfeat/storage/filesystem"
)

const (
	trainingFile = "featurized_training"
	testFile     = "featurized_test"
	goldFile     = "gold_test"
	outputFile   = "output_test"
)

type RunOptions struct {
	Train  string
	Test   string
	OutDir string
}

func (a *app) runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "extract, train, classify and score a train and a test annotation file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "train", Required: true, Usage: "gold annotation file to train on"},
			&cli.StringFlag{Name: "test", Required: true, Usage: "gold annotation file to evaluate on"},
			&cli.StringFlag{Name: "out-dir", Usage: "directory of all intermediate files (default: classifier.workdir)"},
		},
		Action: func(c *cli.Context) error {
			opts := RunOptions{
				Train:  c.String("train"),
				Test:   c.String("test"),
				OutDir: c.String("out-dir"),
			}
			if opts.OutDir == "" {
				opts.OutDir = a.cfg.Classifier.WorkDir
			}
			return a.runCommand(c.Context, opts)
		},
	}
}

func (a *app) runCommand(ctx context.Context, opts RunOptions) error {
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return err
	}

	// training
	_, trainRes, err := a.extract(opts.Train, true)
	if err != nil {
		return fmt.Errorf("training corpus: %w", err)
	}

	trainPath := filepath.Join(opts.OutDir, trainingFile)
	if err := writeFeatureFile(trainPath, trainRes, true); err != nil {
		return err
	}

	cfg := a.cfg
	cfg.Classifier.WorkDir = opts.OutDir
	cl := a.newClassifier(cfg, a.log)

	model, err := cl.Train(ctx, trainPath)
	if err != nil {
		return err
	}

	// test
	_, testRes, err := a.extract(opts.Test, true)
	if err != nil {
		return fmt.Errorf("test corpus: %w", err)
	}

	testPath := filepath.Join(opts.OutDir, testFile)
	if err := writeFeatureFile(testPath, testRes, false); err != nil {
		return err
	}

	labeled, err := cl.Classify(ctx, model, testPath)
	if err != nil {
		return err
	}

	preds, err := classifier.ReadPredictionsFile(labeled)
	if err != nil {
		return err
	}

	gold := filesystem.GoldLabels(testRes.All())
	predicted := classifier.Labels(preds)

	if err := filesystem.WriteLabelsFile(filepath.Join(opts.OutDir, goldFile), gold); err != nil {
		return err
	}
	if err := filesystem.WriteLabelsFile(filepath.Join(opts.OutDir, outputFile), predicted); err != nil {
		return err
	}

	report, err := score.Evaluate(gold, predicted, a.cfg.Negative)
	if err != nil {
		return err
	}

	if err := writeReport(opts.OutDir, report); err != nil {
		return err
	}

	a.log.Info("run finished", "train", trainRes.Len(), "test", testRes.Len(), "f1", report.Overall.F1)
	return printReport(a.ui.Out, "text", report)
}
