package main

import (
	"fmt"

	"github.com/revelaction/relfeat/corpus"
	"github.com/revelaction/relfeat/feature"
	"github.com/revelaction/relfeat/storage"
	"github.com/revelaction/relfeat/storage/filesystem"
)

// extract loads the annotation file and extracts the features of every
// mention.
func (a *app) extract(path string, gold bool) (*corpus.Corpus, feature.Result, error) {
	p := newProgress(a.ui)
	defer p.stop()

	loader := corpus.NewLoader(corpus.Options{
		Gold:         gold,
		Layout:       a.cfg.SideFiles.Layout,
		PosSeparator: a.cfg.PosSeparator,
		LoadRaw:      a.cfg.SideFiles.LoadRaw,
		Logger:       a.log,
		Progress:     p.bar(1),
	})

	c, err := loader.Load(path)
	if err != nil {
		return nil, feature.Result{}, err
	}

	ext := feature.NewExtractor(a.cfg.Features, gold, a.log)
	ext.Progress = p.bar(c.Len())

	res, err := ext.Extract(c)
	if err != nil {
		return nil, feature.Result{}, err
	}

	return c, res, nil
}

// writeAll writes the instances of every document of res to w in title
// order.
func writeAll(w storage.InstanceWriter, res feature.Result) error {
	for _, title := range res.Titles {
		if err := w.Write(title, res.Instances[title]); err != nil {
			return err
		}
	}
	return nil
}

// writeFeatureFile replaces the content of path with the instances of res.
func writeFeatureFile(path string, res feature.Result, labeled bool) error {
	ff := filesystem.NewFeatureFile(path, labeled)
	if err := ff.Reset(); err != nil {
		return fmt.Errorf("failed to create feature file %s: %w", path, err)
	}
	return writeAll(ff, res)
}
