package stat

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/revelaction/relfeat/corpus"
	"github.com/revelaction/relfeat/relation"
	sent "github.com/revelaction/relfeat/sentence"
	"github.com/revelaction/relfeat/storage"
)

func TestAggregateCorpus(t *testing.T) {
	c := corpus.New()
	c.Add(&corpus.Document{
		Title: "doc1",
		Sentences: []sent.Sentence{
			{{Text: "John", Pos: "NNP"}, {Text: "works", Pos: "VBZ"}},
			{{Text: "He", Pos: "PRP"}, {Text: "left", Pos: "VBD"}, {Text: ".", Pos: "."}, {Text: "x", Pos: "X"}},
		},
		Mentions: []corpus.Mention{{}, {}},
	})
	c.Add(&corpus.Document{
		Title:        "doc2",
		Sentences:    []sent.Sentence{{{Text: "Hi", Pos: "UH"}, {Text: "!", Pos: "."}}},
		DepsDisabled: true,
		Mentions:     []corpus.Mention{{}},
	})

	h := NewHandler()
	h.AggregateCorpus(c)
	s := h.Get()

	if s.NumDocs != 2 || s.NumSentences != 3 || s.NumTokens != 8 || s.NumMentions != 3 {
		t.Errorf("unexpected counts %+v", s)
	}
	if s.TokensPerSentenceMean != 2 {
		t.Errorf("expected mean 2, got %d", s.TokensPerSentenceMean)
	}
	if diff := cmp.Diff(map[int]int{2: 2, 4: 1}, s.TokensPerSentenceDis); diff != "" {
		t.Errorf("distribution mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"doc2"}, s.DisabledDeps); diff != "" {
		t.Errorf("disabled mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateInstances(t *testing.T) {
	insts := []relation.Instance{
		{Tokens: "a_b", RelType: "PHYS", Features: []string{"PER_GPE", "token__a"}},
		{Tokens: "c_d", RelType: "no_rel", Features: []string{"PER_GPE", "token__c"}},
		{Tokens: "e_f", RelType: "PHYS", Features: []string{"ORG_GPE", "PER_GPE"}},
		{Tokens: "g_h", Features: []string{}},
	}

	h := NewHandler()
	h.AggregateInstances(insts)
	s := h.Get()

	if s.NumInstances != 4 || s.NumFeatures != 6 || s.Vocabulary != 4 {
		t.Errorf("unexpected counts %+v", s)
	}
	if diff := cmp.Diff(map[string]int{"PHYS": 2, "no_rel": 1}, s.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"PHYS", "no_rel"}, s.SortedLabels()); diff != "" {
		t.Errorf("sorted labels mismatch (-want +got):\n%s", diff)
	}

	want := []storage.FeatureCount{
		{Feature: "PER_GPE", Count: 3},
		{Feature: "token__a", Count: 1},
	}
	if diff := cmp.Diff(want, h.TopFeatures(2)); diff != "" {
		t.Errorf("top features mismatch (-want +got):\n%s", diff)
	}
	if got := len(h.TopFeatures(100)); got != 4 {
		t.Errorf("expected 4 features, got %d", got)
	}
}

func TestAlphabet(t *testing.T) {
	a := NewAlphabet()
	if a.Add("x") != 0 || a.Add("y") != 1 || a.Add("x") != 0 {
		t.Fatal("unexpected ids")
	}
	if a.String(1) != "y" || a.String(5) != "" {
		t.Error("unexpected reverse lookup")
	}
	if a.Size() != 2 {
		t.Errorf("expected size 2, got %d", a.Size())
	}
}

func TestTopFeaturesCountsInstances(t *testing.T) {
	insts := []relation.Instance{
		{Tokens: "a_b", Features: []string{"inbetweenpos__NN", "inbetweenpos__NN"}},
		{Tokens: "c_d", Features: []string{"inbetweenpos__NN", "inbetweenpos__NN"}},
	}

	h := NewHandler()
	h.AggregateInstances(insts)

	want := []storage.FeatureCount{{Feature: "inbetweenpos__NN", Count: 2}}
	if diff := cmp.Diff(want, h.TopFeatures(10)); diff != "" {
		t.Errorf("top features mismatch (-want +got):\n%s", diff)
	}
	if s := h.Get(); s.NumFeatures != 4 || s.Vocabulary != 1 {
		t.Errorf("unexpected counts %+v", s)
	}
}

func TestAggregateGoldPairs(t *testing.T) {
	h := NewHandler()
	h.AggregateGoldPairs(map[string]string{"John_Acme": "PHYS", "Mary_Boston": "PHYS"})

	if got := h.Get().GoldPairs; got != 2 {
		t.Errorf("expected 2 gold pairs, got %d", got)
	}
}
