package main

import (
	"fmt"

	"github.com/revelaction/relfeat/feature"
	"github.com/revelaction/relfeat/relation"
	"github.com/revelaction/relfeat/storage"
)

// resultReader reads the instances of an extraction result.
type resultReader struct {
	res feature.Result
}

var _ storage.InstanceReader = resultReader{}

func (r resultReader) Titles() ([]string, error) {
	return r.res.Titles, nil
}

func (r resultReader) Read(title string) ([]relation.Instance, error) {
	insts, ok := r.res.Instances[title]
	if !ok {
		return nil, fmt.Errorf("doc not found: %s", title)
	}
	return insts, nil
}
