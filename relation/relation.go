package relation

import (
	"strings"

	"github.com/revelaction/relfeat/corpus"
)

// Instance is the unit exchanged with the classifier: one mention, its
// relation label and its feature tokens.
type Instance struct {
	// Tokens identifies the pair as token1_token2
	Tokens string `json:"tokens" yaml:"tokens"`

	// RelType is empty for unlabeled instances
	RelType string `json:"rel_type" yaml:"rel_type"`

	Features []string `json:"features" yaml:"features"`
}

// New returns an instance without features.
func New(token1, token2, relType string) Instance {
	return Instance{
		Tokens:   strings.Join([]string{token1, token2}, "_"),
		RelType:  relType,
		Features: []string{},
	}
}

// Build returns one instance per mention of doc in mention order. The label
// is the mention tag when gold is true and empty otherwise.
func Build(doc *corpus.Document, gold bool) []Instance {
	instances := make([]Instance, 0, len(doc.Mentions))
	for _, m := range doc.Mentions {
		relType := ""
		if gold {
			relType = m.Tag
		}
		instances = append(instances, New(m.E1.Text, m.E2.Text, relType))
	}
	return instances
}

// GoldPairs maps token1_token2 to the tag of every mention of c whose tag is
// not negative. A pair seen twice keeps the last tag.
func GoldPairs(c *corpus.Corpus, negative string) map[string]string {
	pairs := map[string]string{}
	for _, doc := range c.Docs() {
		for _, m := range doc.Mentions {
			if m.Tag == "" || m.Tag == negative {
				continue
			}
			pairs[m.E1.Text+"_"+m.E2.Text] = m.Tag
		}
	}
	return pairs
}
