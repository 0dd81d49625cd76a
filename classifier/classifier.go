// Package classifier is the boundary to the external classifier that is
// trained on a feature file and labels another one.
package classifier

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrLabeledOutput = errors.New("malformed labeled output")

// Model is a handle to a trained classifier.
type Model struct {
	Path string
}

// Classifier trains a model from a labeled feature file and labels an
// unlabeled feature file with it. Calls block until the work is done.
type Classifier interface {
	Train(ctx context.Context, featureFile string) (Model, error)

	// Classify returns the path of the labeled output.
	Classify(ctx context.Context, m Model, featureFile string) (string, error)
}

// Prediction is the best label of one labeled output line.
type Prediction struct {
	Tokens string
	Label  string
	Score  float64
}

// ReadPredictions parses lines of the form
//
//	token_pair label_1 score_1 label_2 score_2 ...
//
// and keeps the label with the highest score. Ties keep the earliest label.
func ReadPredictions(r io.Reader) ([]Prediction, error) {
	var preds []Prediction

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		p, err := bestLabel(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		preds = append(preds, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return preds, nil
}

// ReadPredictionsFile reads the labeled output at path.
func ReadPredictionsFile(path string) ([]Prediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadPredictions(f)
}

func bestLabel(fields []string) (Prediction, error) {
	pairs := fields[1:]
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return Prediction{}, fmt.Errorf("%w: expected label/score pairs after %q", ErrLabeledOutput, fields[0])
	}

	p := Prediction{Tokens: fields[0]}
	for i := 0; i < len(pairs); i += 2 {
		score, err := strconv.ParseFloat(pairs[i+1], 64)
		if err != nil {
			return Prediction{}, fmt.Errorf("%w: score %q", ErrLabeledOutput, pairs[i+1])
		}

		if i == 0 || score > p.Score {
			p.Label = pairs[i]
			p.Score = score
		}
	}

	return p, nil
}

// Labels returns the labels of the predictions.
func Labels(preds []Prediction) []string {
	labels := make([]string, 0, len(preds))
	for _, p := range preds {
		labels = append(labels, p.Label)
	}
	return labels
}
