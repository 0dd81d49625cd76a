package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/relfeat/relation"
)

// Document is the serialized form of the instances of one title.
type Document struct {
	Title     string              `json:"title" yaml:"title"`
	Instances []relation.Instance `json:"instances" yaml:"instances"`
}

// JSONRenderer writes one JSON document per line.
type JSONRenderer struct {
	W io.Writer
}

func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

func (r *JSONRenderer) Render(title string, insts []relation.Instance) error {
	if insts == nil {
		insts = []relation.Instance{}
	}
	return json.NewEncoder(r.W).Encode(Document{Title: title, Instances: insts})
}

// compile-time interface check
var _ Renderer = (*JSONRenderer)(nil)
