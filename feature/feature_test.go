package feature

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/revelaction/relfeat/corpus"
	sent "github.com/revelaction/relfeat/sentence"
	"github.com/revelaction/relfeat/tree"
)

func mustParse(t *testing.T, s string) *tree.Node {
	t.Helper()
	n, err := tree.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func mention(t1 string, b1, e1 int, type1, t2 string, b2, e2 int, type2 string) corpus.Mention {
	return corpus.Mention{
		DocId: "doc1",
		E1:    corpus.Entity{Begin: b1, End: e1, Type: type1, Id: "e1", Text: t1},
		E2:    corpus.Entity{Begin: b2, End: e2, Type: type2, Id: "e2", Text: t2},
	}
}

// johnDoc is the document of the sentence "John works at Acme".
func johnDoc(t *testing.T, mentions ...corpus.Mention) *corpus.Document {
	return &corpus.Document{
		Title: "doc1",
		Parses: []*tree.Node{
			mustParse(t, "(ROOT (S (NP (NNP John)) (VP (VBZ works) (PP (IN at) (NP (NNP Acme))))))"),
		},
		Sentences: []sent.Sentence{{
			{Text: "John", Pos: "NNP"},
			{Text: "works", Pos: "VBZ"},
			{Text: "at", Pos: "IN"},
			{Text: "Acme", Pos: "NNP"},
		}},
		Deps:     corpus.DependencyIndex{{"John-0, Acme-3": "poss"}},
		Mentions: mentions,
	}
}

func extractDoc(t *testing.T, set Set, doc *corpus.Document) [][]string {
	t.Helper()
	insts, err := NewExtractor(set, true, nil).Document(doc)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}

	var out [][]string
	for _, inst := range insts {
		out = append(out, inst.Features)
	}
	return out
}

func TestDefaultFeatures(t *testing.T) {
	m := mention("John", 0, 1, "PER", "Acme", 3, 4, "ORG")
	m.DepRelation, m.DepStatus, m.InDependencyRelation = "poss", corpus.DepFound, true

	got := extractDoc(t, DefaultSet(), johnDoc(t, m))

	want := []string{
		"inbetweenpos__VBZ",
		"inbetweenpos__IN",
		"inbetweenwords__works",
		"inbetweenwords__at",
		"PER_ORG",
		"token__John",
		"token__Acme",
		"both_token__John_Acme",
		"bigram__John_works",
		"bigram__works_at",
		"bigram__at_Acme",
		"comm._ancestor__S",
		"subtree_node_labels__S_NP_NNP_VP_VBZ_PP_IN_NP_NNP",
		"d_relation__poss",
		"in_d_relation__True",
		"targetpos_NNP",
		"targetpos_NNP",
		"BEFOREWORD__<start>",
		"AFTERWORD__<end>",
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}
}

func TestAdjacentEntities(t *testing.T) {
	m := mention("works", 1, 2, "VB", "at", 2, 3, "IN")
	got := extractDoc(t, DefaultSet(), johnDoc(t, m))

	want := []string{
		"VB_IN",
		"token__works",
		"token__at",
		"both_token__works_at",
		"bigram__works_at",
		"comm._ancestor__VP",
		"subtree_node_labels__VP_VBZ_PP_IN_NP_NNP",
		"d_relation__",
		"in_d_relation__False",
		"targetpos_VBZ",
		"targetpos_IN",
		"BEFOREWORD__John",
		"AFTERWORD__Acme",
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}
}

func TestOverlappingEntities(t *testing.T) {
	m := mention("John", 0, 3, "PER", "works", 1, 2, "VB")
	set, err := NewSet([]string{"inbetween", "bigrams"})
	if err != nil {
		t.Fatal(err)
	}

	got := extractDoc(t, set, johnDoc(t, m))
	want := []string{"bigram__John_works"}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}
}

func TestNoCommonSubtree(t *testing.T) {
	m := mention("Jon", 0, 1, "PER", "Acme", 3, 4, "ORG")
	set, _ := NewSet([]string{"common_ancestor", "subtree_labels"})

	got := extractDoc(t, set, johnDoc(t, m))
	want := []string{"comm._ancestor__no_comm_subtree", "subtree_node_labels__no_comm_subtree"}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiWordEntity(t *testing.T) {
	doc := &corpus.Document{
		Title:  "doc2",
		Parses: []*tree.Node{mustParse(t, "(S (NP (DT The) (NNP Arizona) (NNPS Rattlers)) (VP (VBD beat) (NP (NNP Phoenix))))")},
		Sentences: []sent.Sentence{{
			{Text: "The", Pos: "DT"},
			{Text: "Arizona", Pos: "NNP"},
			{Text: "Rattlers", Pos: "NNPS"},
			{Text: "beat", Pos: "VBD"},
			{Text: "Phoenix", Pos: "NNP"},
		}},
		Mentions: []corpus.Mention{mention("Arizona_Rattlers", 1, 3, "ORG", "Phoenix", 4, 5, "GPE")},
	}
	set, _ := NewSet([]string{"common_ancestor", "border_words", "border_bigrams"})

	got := extractDoc(t, set, doc)
	want := []string{
		"comm._ancestor__S",
		"BEFOREWORD__The",
		"AFTERWORD__<end>",
		"BEFOREBIGRAM__The_Arizona",
		"AFTERBIGRAM__Phoenix_<end>",
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}
}

func TestDependencyStates(t *testing.T) {
	unknown := mention("Jon", 0, 1, "PER", "Acme", 3, 4, "ORG")
	unknown.DepStatus = corpus.DepUnknown

	set, _ := NewSet([]string{"dependency"})
	got := extractDoc(t, set, johnDoc(t, unknown))
	if diff := cmp.Diff([]string{"d_relation__", "in_d_relation__Unknown"}, got[0]); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}

	doc := johnDoc(t, mention("John", 0, 1, "PER", "Acme", 3, 4, "ORG"))
	doc.DepsDisabled = true
	doc.Deps = nil
	got = extractDoc(t, set, doc)
	if len(got[0]) != 0 {
		t.Errorf("expected no dependency features, got %q", got[0])
	}
}

func TestExtractIdempotent(t *testing.T) {
	c := corpus.New()
	c.Add(johnDoc(t,
		mention("John", 0, 1, "PER", "Acme", 3, 4, "ORG"),
		mention("works", 1, 2, "VB", "Acme", 3, 4, "ORG"),
	))

	e := NewExtractor(DefaultSet(), false, nil)
	first, err := e.Extract(c)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	second, err := e.Extract(c)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("extraction not idempotent (-first +second):\n%s", diff)
	}

	if first.Len() != 2 || len(first.All()) != 2 {
		t.Fatalf("expected 2 instances, got %d", first.Len())
	}
	if first.All()[1].Tokens != "works_Acme" || first.All()[1].RelType != "" {
		t.Errorf("unexpected instance %+v", first.All()[1])
	}
}

func TestExtractGoldLabels(t *testing.T) {
	m := mention("John", 0, 1, "PER", "Acme", 3, 4, "ORG")
	m.Tag = "rel"

	c := corpus.New()
	c.Add(johnDoc(t, m))

	var progress []string
	e := NewExtractor(DefaultSet(), true, nil)
	e.Progress = func(current, total int, title string) { progress = append(progress, title) }

	res, err := e.Extract(c)
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Instances["doc1"][0].RelType; got != "rel" {
		t.Errorf("expected label rel, got %q", got)
	}
	if diff := cmp.Diff([]string{"doc1"}, progress); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractOutOfRange(t *testing.T) {
	c := corpus.New()
	c.Add(johnDoc(t, mention("John", 0, 1, "PER", "Acme", 7, 8, "ORG")))

	_, err := NewExtractor(DefaultSet(), false, nil).Extract(c)
	if !errors.Is(err, corpus.ErrMentionOutOfRange) {
		t.Fatalf("expected ErrMentionOutOfRange, got %v", err)
	}
}

func TestNewSet(t *testing.T) {
	set, err := NewSet([]string{"border_words", "inbetween", "inbetween"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"inbetween", "border_words"}, set.Names()); diff != "" {
		t.Errorf("set order mismatch (-want +got):\n%s", diff)
	}

	_, err = NewSet([]string{"inbetween", "trigrams"})
	if !errors.Is(err, ErrUnknownStep) {
		t.Errorf("expected ErrUnknownStep, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "known: inbetween, ") {
		t.Errorf("error does not list the known steps: %v", err)
	}

	defaults := DefaultSet().Names()
	if len(defaults) != 9 || defaults[8] != "border_words" {
		t.Errorf("unexpected default set %q", defaults)
	}

	if len(Names()) != len(Steps()) {
		t.Errorf("Names and Steps disagree")
	}
}
