// Package corpus holds the in-memory model of annotated documents and the
// loader that builds it from a relation annotation file and the side files
// of each document.
package corpus

import (
	"fmt"
	"strconv"
	"strings"

	sent "github.com/revelaction/relfeat/sentence"
	"github.com/revelaction/relfeat/tree"
)

// Entity is one entity span of a mention.
type Entity struct {
	// SentOffset is the 0-based sentence index inside the document
	SentOffset int

	// Begin and End delimit the tokens of the entity, End exclusive
	Begin int
	End   int

	Type string
	Id   string

	// Text may join a multi-word entity with "_"
	Text string
}

// DepStatus is the outcome of a dependency index lookup.
type DepStatus int

const (
	DepAbsent DepStatus = iota
	DepFound
	// DepUnknown means the offsets of the mention are linked in the index
	// but under a different surface text.
	DepUnknown
)

func (s DepStatus) String() string {
	switch s {
	case DepFound:
		return "True"
	case DepUnknown:
		return "Unknown"
	default:
		return "False"
	}
}

// Mention is an annotated pair of entities, one line of the annotation file.
// E1 is assumed to precede E2 in the sentence.
type Mention struct {
	DocId string
	E1    Entity
	E2    Entity

	// Tag is the relation label with any sub-type after the first "." removed.
	// Empty for unlabeled files.
	Tag string

	// Line is the 1-based line of the annotation file
	Line int

	InDependencyRelation bool
	DepRelation          string
	DepStatus            DepStatus
}

// Document is the parsed content of the side files of one title plus its
// mentions in annotation order.
type Document struct {
	Title     string
	Parses    []*tree.Node
	Sentences []sent.Sentence
	Deps      DependencyIndex

	// DepsDisabled is set when the dependency file does not align with the
	// POS sentences.
	DepsDisabled bool

	// Plain is only filled when the loader is asked for the plaintext file
	Plain [][]string

	Mentions []Mention
}

// Sentence returns the POS sentence of the mention.
func (d *Document) Sentence(m Mention) sent.Sentence {
	return d.Sentences[m.E1.SentOffset]
}

// Parse returns the parse tree of the mention sentence.
func (d *Document) Parse(m Mention) *tree.Node {
	return d.Parses[m.E1.SentOffset]
}

// Validate checks that the mention indexes address the document.
func (d *Document) Validate(m Mention) error {
	if m.E1.SentOffset < 0 || m.E1.SentOffset >= len(d.Sentences) {
		return fmt.Errorf("%w: sentence %d of %d", ErrMentionOutOfRange, m.E1.SentOffset, len(d.Sentences))
	}

	n := len(d.Sentences[m.E1.SentOffset])
	for _, idx := range []int{m.E1.Begin, m.E2.Begin} {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: token %d of %d", ErrMentionOutOfRange, idx, n)
		}
	}
	for _, idx := range []int{m.E1.End, m.E2.End} {
		if idx < 0 || idx > n {
			return fmt.Errorf("%w: end %d of %d", ErrMentionOutOfRange, idx, n)
		}
	}

	return nil
}

// Corpus maps a document title to its Document. Titles keep the order in
// which they first appear in the annotation file.
type Corpus struct {
	docs   map[string]*Document
	titles []string
}

func New() *Corpus {
	return &Corpus{docs: map[string]*Document{}}
}

// Add registers a document. A title already present is replaced in place.
func (c *Corpus) Add(doc *Document) {
	if _, ok := c.docs[doc.Title]; !ok {
		c.titles = append(c.titles, doc.Title)
	}
	c.docs[doc.Title] = doc
}

func (c *Corpus) Doc(title string) (*Document, bool) {
	doc, ok := c.docs[title]
	return doc, ok
}

func (c *Corpus) Titles() []string {
	return append([]string(nil), c.titles...)
}

func (c *Corpus) Len() int {
	return len(c.titles)
}

// Docs returns the documents in title order.
func (c *Corpus) Docs() []*Document {
	docs := make([]*Document, 0, len(c.titles))
	for _, t := range c.titles {
		docs = append(docs, c.docs[t])
	}
	return docs
}

// DependencyIndex holds, per sentence, the dependency relation label keyed
// by "token1-offset1, token2-offset2".
type DependencyIndex []map[string]string

// DepKey builds the dependency index key of a token pair.
func DepKey(token1 string, offset1 int, token2 string, offset2 int) string {
	return fmt.Sprintf("%s-%d, %s-%d", token1, offset1, token2, offset2)
}

// Lookup returns the relation label of the exact key. When the key is absent
// but a relation links the same two offsets, the status is DepUnknown.
func (d DependencyIndex) Lookup(sentOffset int, token1 string, offset1 int, token2 string, offset2 int) (string, DepStatus) {
	if sentOffset < 0 || sentOffset >= len(d) {
		return "", DepAbsent
	}

	rels := d[sentOffset]
	if rel, ok := rels[DepKey(token1, offset1, token2, offset2)]; ok {
		return rel, DepFound
	}

	for key := range rels {
		o1, o2, ok := keyOffsets(key)
		if ok && o1 == offset1 && o2 == offset2 {
			return "", DepUnknown
		}
	}

	return "", DepAbsent
}

// keyOffsets extracts the two offsets of "token1-offset1, token2-offset2".
func keyOffsets(key string) (int, int, bool) {
	parts := strings.SplitN(key, ", ", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	o1, ok1 := tokenOffset(parts[0])
	o2, ok2 := tokenOffset(parts[1])
	return o1, o2, ok1 && ok2
}

func tokenOffset(s string) (int, bool) {
	idx := strings.LastIndex(s, "-")
	if idx < 0 {
		return 0, false
	}
	// Stanford marks copied nodes with a trailing apostrophe, e.g. "went-3'"
	o, err := strconv.Atoi(strings.TrimRight(s[idx+1:], "'"))
	if err != nil {
		return 0, false
	}
	return o, true
}
