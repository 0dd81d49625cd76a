// Package score compares system relation labels with gold labels.
package score

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

var ErrLengthMismatch = errors.New("gold and predicted label counts differ")

// PRF is a precision, recall and F1 triple.
type PRF struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
}

func newPRF(correct, predicted, gold int) PRF {
	var p PRF
	if predicted > 0 {
		p.Precision = float64(correct) / float64(predicted)
	}
	if gold > 0 {
		p.Recall = float64(correct) / float64(gold)
	}
	if p.Precision+p.Recall > 0 {
		p.F1 = 2 * p.Precision * p.Recall / (p.Precision + p.Recall)
	}
	return p
}

// TypeScore is the score of one relation type.
type TypeScore struct {
	Type string `json:"type" yaml:"type"`
	PRF  `yaml:",inline"`
}

// Confusion counts the instances of one gold type labeled as another type.
type Confusion struct {
	Gold      string `json:"gold" yaml:"gold"`
	Predicted string `json:"predicted" yaml:"predicted"`
	Count     int    `json:"count" yaml:"count"`
}

// Report is the outcome of Evaluate.
type Report struct {
	Correct   int `json:"correct" yaml:"correct"`
	GoldTotal int `json:"gold_total" yaml:"gold_total"`
	TestTotal int `json:"test_total" yaml:"test_total"`

	Overall PRF `json:"overall" yaml:"overall"`

	// ByType holds the types with at least one correct label, sorted
	ByType []TypeScore `json:"by_type" yaml:"by_type"`

	// Confusions holds the mislabeled pairs sorted by gold then predicted
	Confusions []Confusion `json:"confusions" yaml:"confusions"`
}

// Evaluate computes micro-averaged scores of predicted against gold. Labels
// equal to negative are never counted as positive.
func Evaluate(gold, predicted []string, negative string) (Report, error) {
	if len(gold) != len(predicted) {
		return Report{}, fmt.Errorf("%w: %d gold, %d predicted", ErrLengthMismatch, len(gold), len(predicted))
	}

	var r Report
	goldType := map[string]int{}
	testType := map[string]int{}
	correctType := map[string]int{}
	confusions := map[[2]string]int{}

	for i, g := range gold {
		p := predicted[i]
		if g != negative {
			r.GoldTotal++
			goldType[g]++
		}
		if p != negative {
			r.TestTotal++
			testType[p]++
		}
		if g != negative && g == p {
			r.Correct++
			correctType[g]++
		}
		if g != p {
			confusions[[2]string{g, p}]++
		}
	}

	r.Overall = newPRF(r.Correct, r.TestTotal, r.GoldTotal)

	for typ, n := range correctType {
		r.ByType = append(r.ByType, TypeScore{Type: typ, PRF: newPRF(n, testType[typ], goldType[typ])})
	}
	sort.Slice(r.ByType, func(i, j int) bool { return r.ByType[i].Type < r.ByType[j].Type })

	for k, n := range confusions {
		r.Confusions = append(r.Confusions, Confusion{Gold: k[0], Predicted: k[1], Count: n})
	}
	sort.Slice(r.Confusions, func(i, j int) bool {
		if r.Confusions[i].Gold != r.Confusions[j].Gold {
			return r.Confusions[i].Gold < r.Confusions[j].Gold
		}
		return r.Confusions[i].Predicted < r.Confusions[j].Predicted
	})

	return r, nil
}

// ReadLabels reads the first field of every non-blank line.
func ReadLabels(r io.Reader) ([]string, error) {
	var labels []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		labels = append(labels, fields[0])
	}
	return labels, scanner.Err()
}

// ReadLabelsFile reads the labels of the file at path.
func ReadLabelsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLabels(f)
}

// WriteConfusions writes one "GOLD_<g>\tTEST_<t>:\t<n>" line per confusion.
func WriteConfusions(w io.Writer, r Report) error {
	for _, c := range r.Confusions {
		if _, err := fmt.Fprintf(w, "GOLD_%s\tTEST_%s:\t%d\n", c.Gold, c.Predicted, c.Count); err != nil {
			return err
		}
	}
	return nil
}

// WriteByType writes the per type scores followed by the overall score.
func WriteByType(w io.Writer, r Report) error {
	for _, ts := range r.ByType {
		if _, err := fmt.Fprintf(w, "Reltype: %s P: %g R: %g F1: %g\n", ts.Type, ts.Precision, ts.Recall, ts.F1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Overall P: %g R: %g F1: %g", r.Overall.Precision, r.Overall.Recall, r.Overall.F1)
	return err
}
