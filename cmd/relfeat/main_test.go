package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/revelaction/relfeat/classifier"
	"github.com/revelaction/relfeat/config"
	"github.com/revelaction/relfeat/file"
	"github.com/revelaction/relfeat/score"
	"github.com/revelaction/relfeat/storage/filesystem"
)

const (
	testParse = "(ROOT (S (NP (NNP John)) (VP (VBZ works) (PP (IN at) (NP (NNP Acme))))))\n"
	testPos   = "John_NNP works_VBZ at_IN Acme_NNP\n"
	testDeps  = "nsubj(works-1, John-0)\nposs(John-0, Acme-3)\n\n"
)

// fakeClassifier labels every instance with Label.
type fakeClassifier struct {
	dir   string
	label string

	trained    string
	classified string
}

func (f *fakeClassifier) Train(ctx context.Context, featureFile string) (classifier.Model, error) {
	if _, err := filesystem.NewFeatureFile(featureFile, true).Read(""); err != nil {
		return classifier.Model{}, err
	}
	f.trained = featureFile
	return classifier.Model{Path: filepath.Join(f.dir, "model")}, nil
}

func (f *fakeClassifier) Classify(ctx context.Context, m classifier.Model, featureFile string) (string, error) {
	insts, err := filesystem.NewFeatureFile(featureFile, false).Read("")
	if err != nil {
		return "", err
	}
	f.classified = featureFile

	var buf bytes.Buffer
	for _, inst := range insts {
		fmt.Fprintf(&buf, "%s no_rel 0.2 %s 0.8\n", inst.Tokens, f.label)
	}

	out := filepath.Join(f.dir, "labeled_test")
	return out, os.WriteFile(out, buf.Bytes(), 0644)
}

type testEnv struct {
	dir string
	out *bytes.Buffer
	err *bytes.Buffer
	cl  *fakeClassifier
}

// newTestEnv writes two documents and a gold annotation file into a
// temporary directory used as side-file directory.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	l := file.DefaultLayout(dir)
	for _, title := range []string{"doc1", "doc2"} {
		for k, content := range map[file.Kind]string{file.Parse: testParse, file.Pos: testPos, file.Dep: testDeps} {
			if err := os.WriteFile(l.Path(k, title), []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
		}
	}

	gold := strings.Join([]string{
		"ORG-AFF.Employment doc1 0 0 1 PER e1 John 0 3 4 ORG e2 Acme",
		"no_rel doc1 0 0 1 PER e1 John 0 1 2 VB e3 works",
		"PHYS.Located doc2 0 0 1 PER e1 John 0 3 4 ORG e2 Acme",
	}, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, "train.gold"), []byte(gold), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("RELFEAT_SIDEFILES_DIR", dir)

	return &testEnv{
		dir: dir,
		out: &bytes.Buffer{},
		err: &bytes.Buffer{},
		cl:  &fakeClassifier{dir: dir, label: "ORG-AFF"},
	}
}

func (e *testEnv) run(args ...string) error {
	a := newApp(UI{Out: e.out, Err: e.err})
	a.newClassifier = func(cfg config.Config, log *slog.Logger) classifier.Classifier {
		return e.cl
	}
	return a.run(context.Background(), append([]string{"relfeat"}, args...))
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func TestVersion(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run("version"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(e.out.String(), "relfeat version ") {
		t.Errorf("unexpected output %q", e.out.String())
	}
}

func TestInvalidLogLevel(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run("--log-level", "loud", "version"); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestExtract(t *testing.T) {
	e := newTestEnv(t)
	out := e.path("featurized_training")

	if err := e.run("extract", "--gold", "-o", out, e.path("train.gold")); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, out)
	if len(lines) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(lines))
	}

	first := strings.Fields(lines[0])
	if first[0] != "John_Acme" || first[1] != "ORG-AFF" {
		t.Errorf("unexpected first instance %q", lines[0])
	}
	if !strings.Contains(lines[0], "in_d_relation__True") || !strings.Contains(lines[0], "d_relation__poss") {
		t.Errorf("expected dependency features in %q", lines[0])
	}
	if !strings.Contains(e.out.String(), "Extracted 3 instances from 2 documents") {
		t.Errorf("unexpected output %q", e.out.String())
	}
}

func TestExtractUnlabeled(t *testing.T) {
	e := newTestEnv(t)
	out := e.path("featurized_test")

	if err := e.run("extract", "--gold", "--labels=false", "-o", out, e.path("train.gold")); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, out)
	if strings.Fields(lines[0])[1] != "inbetweenpos__VBZ" {
		t.Errorf("expected no label in %q", lines[0])
	}
}

func TestExtractErrors(t *testing.T) {
	e := newTestEnv(t)

	if err := e.run("extract"); err == nil {
		t.Error("expected error without annotation file")
	}
	if err := e.run("extract", "--labels", e.path("train.gold")); err == nil {
		t.Error("expected error for --labels without --gold")
	}
	if err := e.run("extract", "--gold", e.path("nope.gold")); err == nil {
		t.Error("expected error for missing annotation file")
	}
}

func TestExtractDBExportImport(t *testing.T) {
	e := newTestEnv(t)
	db := e.path("instances.db")

	if err := e.run("extract", "--gold", "-o", e.path("featurized_training"), "--db", db, e.path("train.gold")); err != nil {
		t.Fatal(err)
	}

	exported := e.path("exported")
	if err := e.run("export", "--from", db, "--to", exported, "--labeled"); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(readLines(t, e.path("featurized_training")), readLines(t, exported)); diff != "" {
		t.Errorf("export mismatch (-want +got):\n%s", diff)
	}

	db2 := e.path("imported.db")
	if err := e.run("import", "--from", exported, "--to", db2, "--labeled"); err != nil {
		t.Fatal(err)
	}

	e.out.Reset()
	if err := e.run("show", "--db", db2, "--format", "json"); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Title     string `json:"title"`
		Instances []struct {
			Tokens string `json:"tokens"`
		} `json:"instances"`
	}
	if err := json.Unmarshal(e.out.Bytes(), &doc); err != nil {
		t.Fatalf("failed to unmarshal %q: %v", e.out.String(), err)
	}
	if doc.Title != "exported" || len(doc.Instances) != 3 {
		t.Errorf("unexpected document %+v", doc)
	}
}

func TestExportMissingDB(t *testing.T) {
	e := newTestEnv(t)
	if err := e.run("export", "--from", e.path("nope.db"), "--to", e.path("out")); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestShow(t *testing.T) {
	e := newTestEnv(t)

	if err := e.run("show", "--gold", "--no-prefix", "--doc", "doc2", e.path("train.gold")); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(e.out.String()), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "John_Acme PHYS inbetweenpos__VBZ") {
		t.Errorf("unexpected output %q", e.out.String())
	}
}

func TestStat(t *testing.T) {
	e := newTestEnv(t)

	if err := e.run("stat", "--gold", "--top", "100", e.path("train.gold")); err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{"documents", "mentions", "label PHYS", "token__John"} {
		if !strings.Contains(e.out.String(), s) {
			t.Errorf("stat output misses %q:\n%s", s, e.out.String())
		}
	}
	// John_Acme is positive in both documents and counted once.
	if !regexp.MustCompile(`gold relation pairs\s*│\s*1\s*│`).MatchString(e.out.String()) {
		t.Errorf("stat output misses the gold pair count:\n%s", e.out.String())
	}
}

func TestScore(t *testing.T) {
	e := newTestEnv(t)

	gold := e.path("gold_test")
	pred := e.path("output_test")
	if err := filesystem.WriteLabelsFile(gold, []string{"PHYS", "no_rel", "ORG-AFF"}); err != nil {
		t.Fatal(err)
	}
	if err := filesystem.WriteLabelsFile(pred, []string{"PHYS", "PHYS", "no_rel"}); err != nil {
		t.Fatal(err)
	}

	if err := e.run("score", "--format", "json", "--out-dir", e.dir, gold, pred); err != nil {
		t.Fatal(err)
	}

	var report score.Report
	if err := json.Unmarshal(e.out.Bytes(), &report); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if report.Correct != 1 || report.GoldTotal != 2 || report.TestTotal != 2 {
		t.Errorf("unexpected report %+v", report)
	}

	for _, name := range []string{confusionFile, byTypeFile} {
		if _, err := os.Stat(e.path(name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	if err := e.run("score", gold); err == nil {
		t.Error("expected error with one label file")
	}
}

func TestTrainClassify(t *testing.T) {
	e := newTestEnv(t)
	train := e.path("featurized_training")
	test := e.path("featurized_test")

	if err := e.run("extract", "--gold", "-o", train, e.path("train.gold")); err != nil {
		t.Fatal(err)
	}
	if err := e.run("extract", "-o", test, e.path("train.gold")); err == nil {
		t.Fatal("expected error reading a gold file as unlabeled")
	}
	if err := e.run("extract", "--gold", "--labels=false", "-o", test, e.path("train.gold")); err != nil {
		t.Fatal(err)
	}

	if err := e.run("train", train); err != nil {
		t.Fatal(err)
	}
	if e.cl.trained != train {
		t.Errorf("expected training on %s, got %s", train, e.cl.trained)
	}

	labels := e.path("output_test")
	if err := e.run("classify", "--model", e.path("model"), "--labels", labels, test); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"ORG-AFF", "ORG-AFF", "ORG-AFF"}, readLines(t, labels)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestRun(t *testing.T) {
	e := newTestEnv(t)
	out := filepath.Join(e.dir, "run")

	if err := e.run("run", "--train", e.path("train.gold"), "--test", e.path("train.gold"), "--out-dir", out); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"ORG-AFF", "no_rel", "PHYS"}, readLines(t, filepath.Join(out, goldFile))); diff != "" {
		t.Errorf("gold labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ORG-AFF", "ORG-AFF", "ORG-AFF"}, readLines(t, filepath.Join(out, outputFile))); diff != "" {
		t.Errorf("output labels mismatch (-want +got):\n%s", diff)
	}

	if e.cl.trained != filepath.Join(out, trainingFile) || e.cl.classified != filepath.Join(out, testFile) {
		t.Errorf("unexpected classifier inputs %s %s", e.cl.trained, e.cl.classified)
	}

	byType := readLines(t, filepath.Join(out, byTypeFile))
	if !strings.HasPrefix(byType[len(byType)-1], "Overall P: 0.3333") {
		t.Errorf("unexpected overall line %q", byType[len(byType)-1])
	}

	if !strings.Contains(e.out.String(), "Overall") {
		t.Errorf("expected score table, got %q", e.out.String())
	}
}
