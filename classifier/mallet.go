package classifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// Mallet runs the MALLET command line tools.
type Mallet struct {
	// Bin is the path of the mallet launcher, e.g. Mallet/bin/mallet
	Bin string

	// Trainer is passed to train-classifier, e.g. MaxEnt
	Trainer string

	// Dir receives the imported vectors, the model and the labeled output
	Dir string

	Logger *slog.Logger
}

var _ Classifier = (*Mallet)(nil)

func NewMallet(bin, trainer, dir string, logger *slog.Logger) *Mallet {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Mallet{Bin: bin, Trainer: trainer, Dir: dir, Logger: logger}
}

// Train imports the feature file and trains a model on it.
func (m *Mallet) Train(ctx context.Context, featureFile string) (Model, error) {
	base := filepath.Base(featureFile)
	vectors := filepath.Join(m.Dir, base+".mallet")
	model := Model{Path: filepath.Join(m.Dir, "relext_model")}

	if err := m.run(ctx, "import-file", "--input", featureFile, "--output", vectors); err != nil {
		return Model{}, err
	}

	if err := m.run(ctx, "train-classifier",
		"--input", vectors,
		"--output-classifier", model.Path,
		"--trainer", m.Trainer); err != nil {
		return Model{}, err
	}

	return model, nil
}

// Classify labels the feature file with the model.
func (m *Mallet) Classify(ctx context.Context, model Model, featureFile string) (string, error) {
	out := filepath.Join(m.Dir, "labeled_"+strings.TrimPrefix(filepath.Base(featureFile), "featurized_"))

	if err := m.run(ctx, "classify-file",
		"--input", featureFile,
		"--output", out,
		"--classifier", model.Path); err != nil {
		return "", err
	}

	return out, nil
}

func (m *Mallet) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, m.Bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	m.Logger.Info("running mallet", "cmd", args[0])
	m.Logger.Debug("mallet arguments", "args", args)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("mallet %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}

	return nil
}
