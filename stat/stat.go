package stat

import (
	"sort"

	"github.com/revelaction/relfeat/corpus"
	"github.com/revelaction/relfeat/relation"
	"github.com/revelaction/relfeat/storage"
)

type Handler struct {
	stats    Stats
	alphabet *Alphabet
	counts   []int
}

type Stats struct {
	NumDocs               int
	NumSentences          int
	NumTokens             int
	TokensPerSentenceMean int
	TokensPerSentenceDis  map[int]int

	NumMentions int

	// DisabledDeps are the titles whose dependency file did not align
	DisabledDeps []string

	// Labels counts the instances per relation label; unlabeled instances
	// are not counted
	Labels map[string]int

	NumInstances int
	NumFeatures  int

	// Vocabulary is the number of distinct features
	Vocabulary int

	// GoldPairs is the number of distinct entity pairs with a positive gold
	// relation
	GoldPairs int
}

func NewHandler() *Handler {
	stats := Stats{
		TokensPerSentenceDis: map[int]int{},
		Labels:               map[string]int{},
	}
	return &Handler{
		stats:    stats,
		alphabet: NewAlphabet(),
	}
}

func (h *Handler) Get() Stats {
	s := h.stats
	s.Vocabulary = h.alphabet.Size()
	return s
}

// AggregateCorpus adds the documents of c.
func (h *Handler) AggregateCorpus(c *corpus.Corpus) {
	for _, doc := range c.Docs() {
		h.AggregateDoc(doc)
	}
}

func (h *Handler) AggregateDoc(doc *corpus.Document) {
	h.stats.NumDocs++
	h.stats.NumSentences += len(doc.Sentences)
	h.stats.NumMentions += len(doc.Mentions)

	for _, sentence := range doc.Sentences {
		h.stats.NumTokens += len(sentence)
		h.stats.TokensPerSentenceDis[len(sentence)]++
	}

	if doc.DepsDisabled {
		h.stats.DisabledDeps = append(h.stats.DisabledDeps, doc.Title)
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}
}

// AggregateInstances adds the labels and features of insts.
func (h *Handler) AggregateInstances(insts []relation.Instance) {
	for _, inst := range insts {
		h.stats.NumInstances++
		if inst.RelType != "" {
			h.stats.Labels[inst.RelType]++
		}

		seen := map[int]bool{}
		for _, f := range inst.Features {
			h.stats.NumFeatures++
			id := h.alphabet.Add(f)
			if id == len(h.counts) {
				h.counts = append(h.counts, 0)
			}
			if !seen[id] {
				h.counts[id]++
				seen[id] = true
			}
		}
	}
}

// AggregateGoldPairs adds the positive gold pairs of relation.GoldPairs.
func (h *Handler) AggregateGoldPairs(pairs map[string]string) {
	h.stats.GoldPairs += len(pairs)
}

// TopFeatures returns the n features carried by most instances, ties in
// alphabet order.
func (h *Handler) TopFeatures(n int) []storage.FeatureCount {
	ids := make([]int, len(h.counts))
	for i := range ids {
		ids[i] = i
	}

	sort.SliceStable(ids, func(i, j int) bool {
		return h.counts[ids[i]] > h.counts[ids[j]]
	})

	if n > len(ids) {
		n = len(ids)
	}

	top := make([]storage.FeatureCount, 0, n)
	for _, id := range ids[:n] {
		top = append(top, storage.FeatureCount{Feature: h.alphabet.String(id), Count: h.counts[id]})
	}
	return top
}

// SortedLabels returns the label names sorted.
func (s Stats) SortedLabels() []string {
	labels := make([]string, 0, len(s.Labels))
	for l := range s.Labels {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}
