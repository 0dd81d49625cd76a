package storage

import (
	"github.com/revelaction/relfeat/relation"
)

// InstanceReader defines read operations for instance storage
type InstanceReader interface {
	// Titles returns the document titles in storage order
	Titles() ([]string, error)

	// Read returns the instances of a document in mention order
	Read(title string) ([]relation.Instance, error)
}

// InstanceWriter defines write operations for instance storage
type InstanceWriter interface {
	// Write persists the instances of a document
	Write(title string, insts []relation.Instance) error
}

// InstanceRepository combines read and write operations
type InstanceRepository interface {
	InstanceReader
	InstanceWriter
}

// FeatureCount is the number of instances carrying a feature.
type FeatureCount struct {
	Feature string
	Count   int
}

// ReadAll returns the instances of every document of r in title order.
func ReadAll(r InstanceReader) ([]relation.Instance, error) {
	titles, err := r.Titles()
	if err != nil {
		return nil, err
	}

	var all []relation.Instance
	for _, t := range titles {
		insts, err := r.Read(t)
		if err != nil {
			return nil, err
		}
		all = append(all, insts...)
	}
	return all, nil
}
