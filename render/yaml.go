package render

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/revelaction/relfeat/relation"
)

// YAMLRenderer writes one YAML document per title, separated by "---".
// Close must be called after the last document.
type YAMLRenderer struct {
	W   io.Writer
	enc *yaml.Encoder
}

func NewYAMLRenderer(w io.Writer) *YAMLRenderer {
	return &YAMLRenderer{W: w}
}

func (r *YAMLRenderer) Render(title string, insts []relation.Instance) error {
	if insts == nil {
		insts = []relation.Instance{}
	}
	return r.Value(Document{Title: title, Instances: insts})
}

// Value writes v as the next YAML document.
func (r *YAMLRenderer) Value(v any) error {
	if r.enc == nil {
		r.enc = yaml.NewEncoder(r.W)
		r.enc.SetIndent(2)
	}
	return r.enc.Encode(v)
}

func (r *YAMLRenderer) Close() error {
	if r.enc == nil {
		return nil
	}
	return r.enc.Close()
}

var _ Renderer = (*YAMLRenderer)(nil)
