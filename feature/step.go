package feature

import (
	"errors"
	"fmt"
	"strings"

	"github.com/revelaction/relfeat/corpus"
	sent "github.com/revelaction/relfeat/sentence"
	"github.com/revelaction/relfeat/tree"
)

const (
	noSubtree   = "no_comm_subtree"
	startMarker = "<start>"
	endMarker   = "<end>"
)

var ErrUnknownStep = errors.New("unknown feature step")

// Context is the view of one mention that feature steps read. The
// in-between span and the subtree search are computed once per mention.
type Context struct {
	Doc      *corpus.Document
	Mention  corpus.Mention
	Sentence sent.Sentence
	Parse    *tree.Node

	words, tags []string
	spanDone    bool

	subtree    *tree.Node
	searchDone bool
}

// NewContext returns the context of m. m must be valid for doc.
func NewContext(doc *corpus.Document, m corpus.Mention) *Context {
	return &Context{
		Doc:      doc,
		Mention:  m,
		Sentence: doc.Sentence(m),
		Parse:    doc.Parse(m),
	}
}

// InBetween returns the words and tags between the end of the first entity
// and the beginning of the second one. Both are empty when the entities are
// adjacent or overlap.
func (c *Context) InBetween() ([]string, []string) {
	if !c.spanDone {
		start, end := c.Mention.E1.End, c.Mention.E2.Begin
		c.words = c.Sentence.Words(start, end)
		c.tags = c.Sentence.Tags(start, end)
		c.spanDone = true
	}
	return c.words, c.tags
}

// Subtree returns the smallest parse subtree that contains the entity words
// and the words between them, or nil.
func (c *Context) Subtree() *tree.Node {
	if !c.searchDone {
		words, _ := c.InBetween()
		var seq []string
		seq = append(seq, strings.Split(c.Mention.E1.Text, "_")...)
		seq = append(seq, words...)
		seq = append(seq, strings.Split(c.Mention.E2.Text, "_")...)
		c.subtree = tree.Smallest(c.Parse, seq)
		c.searchDone = true
	}
	return c.subtree
}

// Func produces the feature tokens of one step for a mention.
type Func func(c *Context) []string

// Step is a named, independently toggleable feature function.
type Step struct {
	Name string
	Fn   Func

	// Default steps make up DefaultSet
	Default bool
}

// registry holds every step in emission order.
var registry = []Step{
	{Name: "inbetween", Fn: inBetween, Default: true},
	{Name: "entity_types", Fn: entityTypes, Default: true},
	{Name: "tokens", Fn: tokens, Default: true},
	{Name: "bigrams", Fn: bigrams, Default: true},
	{Name: "common_ancestor", Fn: commonAncestor, Default: true},
	{Name: "subtree_labels", Fn: subtreeLabels, Default: true},
	{Name: "dependency", Fn: dependency, Default: true},
	{Name: "target_pos", Fn: targetPos, Default: true},
	{Name: "border_words", Fn: borderWords, Default: true},
	{Name: "border_bigrams", Fn: borderBigrams},
}

// Steps returns all registered steps in emission order.
func Steps() []Step {
	return append([]Step(nil), registry...)
}

// Names returns the names of all registered steps.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, s := range registry {
		names = append(names, s.Name)
	}
	return names
}

// Set is an ordered selection of steps.
type Set []Step

// DefaultSet returns the steps enabled by default.
func DefaultSet() Set {
	var set Set
	for _, s := range registry {
		if s.Default {
			set = append(set, s)
		}
	}
	return set
}

// NewSet returns the named steps in registry order, whatever the order of
// names.
func NewSet(names []string) (Set, error) {
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}

	var set Set
	for _, s := range registry {
		if want[s.Name] {
			set = append(set, s)
			delete(want, s.Name)
		}
	}

	for _, n := range names {
		if want[n] {
			return nil, fmt.Errorf("%w: %s (known: %s)", ErrUnknownStep, n, strings.Join(Names(), ", "))
		}
	}

	return set, nil
}

// Names returns the step names of the set.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, st := range s {
		names = append(names, st.Name)
	}
	return names
}

func prefixed(prefix string, values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, prefix+v)
	}
	return out
}

func inBetween(c *Context) []string {
	words, tags := c.InBetween()
	return append(prefixed("inbetweenpos__", tags), prefixed("inbetweenwords__", words)...)
}

func entityTypes(c *Context) []string {
	return []string{c.Mention.E1.Type + "_" + c.Mention.E2.Type}
}

func tokens(c *Context) []string {
	t1, t2 := c.Mention.E1.Text, c.Mention.E2.Text
	return []string{
		"token__" + t1,
		"token__" + t2,
		"both_token__" + t1 + "_" + t2,
	}
}

func bigrams(c *Context) []string {
	words, _ := c.InBetween()
	all := append([]string{c.Mention.E1.Text}, words...)
	all = append(all, c.Mention.E2.Text)

	out := make([]string, 0, len(all)-1)
	for i := 0; i < len(all)-1; i++ {
		out = append(out, "bigram__"+all[i]+"_"+all[i+1])
	}
	return out
}

func commonAncestor(c *Context) []string {
	label := noSubtree
	if st := c.Subtree(); st != nil {
		label = st.Label
	}
	return []string{"comm._ancestor__" + label}
}

func subtreeLabels(c *Context) []string {
	labels := noSubtree
	if st := c.Subtree(); st != nil {
		labels = strings.Join(st.Labels(), "_")
	}
	return []string{"subtree_node_labels__" + labels}
}

// dependency emits nothing for documents whose dependency data is disabled.
func dependency(c *Context) []string {
	if c.Doc.DepsDisabled {
		return nil
	}
	return []string{
		"d_relation__" + c.Mention.DepRelation,
		"in_d_relation__" + c.Mention.DepStatus.String(),
	}
}

func targetPos(c *Context) []string {
	return []string{
		"targetpos_" + c.Sentence[c.Mention.E1.Begin].Pos,
		"targetpos_" + c.Sentence[c.Mention.E2.Begin].Pos,
	}
}

func borderWords(c *Context) []string {
	before, after := c.borders()
	return []string{"BEFOREWORD__" + before, "AFTERWORD__" + after}
}

func borderBigrams(c *Context) []string {
	before, after := c.borders()
	w1 := c.Sentence[c.Mention.E1.Begin].Text
	w2 := c.Sentence[c.Mention.E2.Begin].Text
	return []string{
		"BEFOREBIGRAM__" + before + "_" + w1,
		"AFTERBIGRAM__" + w2 + "_" + after,
	}
}

// borders returns the word before the first entity and the word after the
// second one, or the sentence markers.
func (c *Context) borders() (string, string) {
	before := startMarker
	if i := c.Mention.E1.Begin - 1; i >= 0 {
		before = c.Sentence[i].Text
	}

	after := endMarker
	if i := c.Mention.E2.End; i < len(c.Sentence) {
		after = c.Sentence[i].Text
	}

	return before, after
}
