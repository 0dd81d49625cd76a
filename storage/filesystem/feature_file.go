package filesystem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/revelaction/relfeat/relation"
	"github.com/revelaction/relfeat/storage"
)

var ErrMissingLabel = errors.New("instance has no relation label")

// FeatureFile is the classifier exchange file: one instance per line,
//
//	token_pair [label] feature_1 ... feature_n
//
// The label is only present in labeled (training) files. Document titles
// are not stored; the file reads back as a single document named after it.
type FeatureFile struct {
	path    string
	labeled bool
}

var _ storage.InstanceRepository = (*FeatureFile)(nil)

func NewFeatureFile(path string, labeled bool) *FeatureFile {
	return &FeatureFile{path: path, labeled: labeled}
}

func (f *FeatureFile) Path() string {
	return f.path
}

// Reset truncates the file.
func (f *FeatureFile) Reset() error {
	return os.WriteFile(f.path, nil, 0644)
}

// Write appends the instances to the file.
func (f *FeatureFile) Write(title string, insts []relation.Instance) error {
	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	if err := WriteFeatures(w, insts, f.labeled); err != nil {
		file.Close()
		return fmt.Errorf("document %s: %w", title, err)
	}

	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func (f *FeatureFile) Titles() ([]string, error) {
	if _, err := os.Stat(f.path); err != nil {
		return nil, err
	}
	return []string{filepath.Base(f.path)}, nil
}

// Read returns every instance of the file; title is ignored.
func (f *FeatureFile) Read(title string) ([]relation.Instance, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadFeatures(file, f.labeled)
}

// WriteFeatures writes one line per instance. Labeled output requires a
// label on every instance.
func WriteFeatures(w io.Writer, insts []relation.Instance, labeled bool) error {
	for _, inst := range insts {
		fields := []string{inst.Tokens}
		if labeled {
			if inst.RelType == "" {
				return fmt.Errorf("%w: %s", ErrMissingLabel, inst.Tokens)
			}
			fields = append(fields, inst.RelType)
		}
		fields = append(fields, inst.Features...)

		if _, err := fmt.Fprintln(w, strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return nil
}

// ReadFeatures parses a feature file.
func ReadFeatures(r io.Reader, labeled bool) ([]relation.Instance, error) {
	var insts []relation.Instance

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		inst := relation.Instance{Tokens: fields[0], Features: []string{}}
		rest := fields[1:]
		if labeled {
			if len(rest) == 0 {
				return nil, fmt.Errorf("line %d: %w: %s", n, ErrMissingLabel, inst.Tokens)
			}
			inst.RelType, rest = rest[0], rest[1:]
		}
		inst.Features = append(inst.Features, rest...)
		insts = append(insts, inst)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return insts, nil
}

// WriteLabels writes one label per line.
func WriteLabels(w io.Writer, labels []string) error {
	for _, l := range labels {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// WriteLabelsFile writes the labels to path, replacing its content.
func WriteLabelsFile(path string, labels []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := WriteLabels(w, labels); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// GoldLabels returns the relation label of each instance without any
// sub-type after the first ".".
func GoldLabels(insts []relation.Instance) []string {
	labels := make([]string, 0, len(insts))
	for _, inst := range insts {
		labels = append(labels, strings.SplitN(inst.RelType, ".", 2)[0])
	}
	return labels
}
