// Package feature derives the feature tokens of every mention of a corpus.
//
// Each feature step is a named function in a registry; a Set selects the
// steps to run. The feature sequence of an instance is the concatenation of
// the step outputs in registry order.
package feature

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/revelaction/relfeat/corpus"
	"github.com/revelaction/relfeat/relation"
)

// Result holds the instances of each document. Titles keeps the corpus order.
type Result struct {
	Titles    []string
	Instances map[string][]relation.Instance
}

// All returns the instances of every document in title order.
func (r Result) All() []relation.Instance {
	var all []relation.Instance
	for _, t := range r.Titles {
		all = append(all, r.Instances[t]...)
	}
	return all
}

// Len returns the total number of instances.
func (r Result) Len() int {
	n := 0
	for _, insts := range r.Instances {
		n += len(insts)
	}
	return n
}

type Extractor struct {
	set  Set
	gold bool
	log  *slog.Logger

	// Progress is called after each document.
	Progress func(current, total int, title string)
}

// NewExtractor returns an extractor running the steps of set. Instances are
// labeled with the mention tags when gold is true.
func NewExtractor(set Set, gold bool, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{set: set, gold: gold, log: logger}
}

// Extract returns the instances of every mention of c, one list per document
// in mention order.
func (e *Extractor) Extract(c *corpus.Corpus) (Result, error) {
	res := Result{
		Titles:    c.Titles(),
		Instances: make(map[string][]relation.Instance, c.Len()),
	}

	for i, doc := range c.Docs() {
		insts, err := e.Document(doc)
		if err != nil {
			return Result{}, err
		}
		res.Instances[doc.Title] = insts

		if e.Progress != nil {
			e.Progress(i+1, c.Len(), doc.Title)
		}
	}

	e.log.Info("features extracted", "documents", c.Len(), "instances", res.Len(), "steps", e.set.Names())
	return res, nil
}

// Document returns the instances of the mentions of doc.
func (e *Extractor) Document(doc *corpus.Document) ([]relation.Instance, error) {
	insts := relation.Build(doc, e.gold)
	for i, m := range doc.Mentions {
		if err := doc.Validate(m); err != nil {
			return nil, fmt.Errorf("document %s, line %d: %w", doc.Title, m.Line, err)
		}

		ctx := NewContext(doc, m)
		for _, step := range e.set {
			insts[i].Features = append(insts[i].Features, step.Fn(ctx)...)
		}
	}
	return insts, nil
}
