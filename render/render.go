package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/revelaction/relfeat/corpus"
	"github.com/revelaction/relfeat/relation"
)

const Defaultformat = "text"

var (
	Yellow    = "\033[0;33m"
	Teal      = "\033[1;36m"
	Gray      = "\033[0;37m"
	Off       = "\033[0m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
)

func SupportedFormats() []string {
	return []string{"text", "json", "yaml"}
}

// Renderer writes the instances of a document.
type Renderer interface {
	Render(title string, insts []relation.Instance) error
}

// New returns the renderer for format writing to w.
func New(format string, w io.Writer) (Renderer, error) {
	switch format {
	case "", "text":
		return NewTextRenderer(w), nil
	case "json":
		return NewJSONRenderer(w), nil
	case "yaml":
		return NewYAMLRenderer(w), nil
	}
	return nil, fmt.Errorf("unknown format %q, allowed values are %s", format, strings.Join(SupportedFormats(), ", "))
}

type TextRenderer struct {
	W io.Writer

	HasColor bool

	// HasPrefix prints the title and the instance index before each line
	HasPrefix bool
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{W: w, HasPrefix: true}
}

// Render writes one line per instance in the feature file layout, the label
// omitted when empty.
func (r *TextRenderer) Render(title string, insts []relation.Instance) error {
	for i, inst := range insts {
		if _, err := fmt.Fprintf(r.W, "%s%s\n", r.prefix(title, i), r.Instance(inst)); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) Instance(inst relation.Instance) string {
	fields := []string{r.color(Teal, inst.Tokens)}
	if inst.RelType != "" {
		fields = append(fields, r.color(Green256, inst.RelType))
	}
	fields = append(fields, inst.Features...)
	return strings.Join(fields, " ")
}

// Mention returns the sentence of m with both entity spans marked.
func (r *TextRenderer) Mention(doc *corpus.Document, m corpus.Mention) string {
	s := doc.Sentence(m)
	words := make([]string, 0, len(s))
	for i, t := range s {
		switch {
		case i >= m.E1.Begin && i < m.E1.End:
			words = append(words, r.mark(Yellow256, t.Text, i == m.E1.Begin, i == m.E1.End-1))
		case i >= m.E2.Begin && i < m.E2.End:
			words = append(words, r.mark(Green256, t.Text, i == m.E2.Begin, i == m.E2.End-1))
		default:
			words = append(words, t.Text)
		}
	}
	return strings.Join(words, " ")
}

// mark colors the word, or brackets the span when color is off.
func (r *TextRenderer) mark(color, word string, first, last bool) string {
	if r.HasColor {
		return color + word + Off
	}
	if first {
		word = "[" + word
	}
	if last {
		word = word + "]"
	}
	return word
}

func (r *TextRenderer) NextPrefix() {
	r.HasPrefix = !r.HasPrefix
}

func (r *TextRenderer) NextColor() {
	r.HasColor = !r.HasColor
}

func (r *TextRenderer) prefix(title string, i int) string {
	if !r.HasPrefix {
		return ""
	}
	return fmt.Sprintf("[%20s %4d] ✍  ", title, i)
}

func (r *TextRenderer) color(color, s string) string {
	if !r.HasColor {
		return s
	}
	return color + s + Off
}

var _ Renderer = (*TextRenderer)(nil)
