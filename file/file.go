package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sent "github.com/revelaction/relfeat/sentence"
	"github.com/revelaction/relfeat/tree"
)

// ErrFormat is returned for side-file content that can not be parsed.
var ErrFormat = errors.New("malformed side file")

// Kind identifies one of the per-document side files.
type Kind string

const (
	Parse Kind = "parse"
	Pos   Kind = "pos"
	Dep   Kind = "dep"
	Raw   Kind = "raw"
)

// Kinds returns all side-file kinds. Raw is optional for the loader.
func Kinds() []Kind {
	return []Kind{Parse, Pos, Dep, Raw}
}

// Location is where the side files of one kind live.
type Location struct {
	Dir    string
	Suffix string
}

// Layout maps each side-file kind to its location.
type Layout map[Kind]Location

// DefaultLayout returns the side-file suffixes used by the relation corpus,
// all rooted in dir.
func DefaultLayout(dir string) Layout {
	return Layout{
		Parse: {Dir: dir, Suffix: ".head.rel.tokenized.raw.parse"},
		Pos:   {Dir: dir, Suffix: ".head.rel.tokenized.raw.tag"},
		Dep:   {Dir: dir, Suffix: ".head.rel.tokenized.raw.depparse"},
		Raw:   {Dir: dir, Suffix: ".head.rel.tokenized.raw"},
	}
}

// Path returns the side-file path for the document title.
func (l Layout) Path(k Kind, title string) string {
	loc := l[k]
	return filepath.Join(loc.Dir, title+loc.Suffix)
}

// ReadParses reads one tree per non-blank line.
func ReadParses(path string) ([]*tree.Node, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTrees(string(content))
}

// ReadTagged reads one sentence per non-blank line. Tokens are separated by
// whitespace; the last occurrence of sep in a token splits the surface text
// from the tag.
func ReadTagged(path, sep string) ([]sent.Sentence, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTagged(string(content), sep)
}

// ReadDependencies reads the dependency relations of each sentence, keyed by
// the text between the brackets of lines such as
//
//	nsubj(works-2, John-1)
//
// Blank lines separate sentences.
func ReadDependencies(path string) ([]map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseDependencies(string(content))
}

// ReadPlain reads one whitespace-tokenized sentence per non-blank line.
func ReadPlain(path string) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parsePlain(string(content)), nil
}

func lines(content string) []string {
	ls := strings.Split(content, "\n")
	for i := range ls {
		ls[i] = strings.TrimSuffix(ls[i], "\r")
	}
	return ls
}

func parseTrees(content string) ([]*tree.Node, error) {
	var trees []*tree.Node
	for i, line := range lines(content) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		t, err := tree.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		trees = append(trees, t)
	}
	return trees, nil
}

func parseTagged(content, sep string) ([]sent.Sentence, error) {
	var sentences []sent.Sentence
	for i, line := range lines(content) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		s := make(sent.Sentence, 0, len(fields))
		for _, f := range fields {
			idx := strings.LastIndex(f, sep)
			if idx <= 0 {
				return nil, fmt.Errorf("%w: line %d: token %q has no tag separator %q", ErrFormat, i+1, f, sep)
			}
			s = append(s, sent.Token{Text: f[:idx], Pos: f[idx+len(sep):]})
		}
		sentences = append(sentences, s)
	}
	return sentences, nil
}

func parseDependencies(content string) ([]map[string]string, error) {
	var deps []map[string]string
	current := map[string]string{}
	open := false

	for i, line := range lines(content) {
		line = strings.TrimSpace(line)
		if line == "" {
			// runs of blank lines close a single sentence
			if open {
				deps = append(deps, current)
				current = map[string]string{}
				open = false
			}
			continue
		}

		rel, key, err := parseRelation(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		current[key] = rel
		open = true
	}

	if open {
		deps = append(deps, current)
	}

	return deps, nil
}

// parseRelation splits "relation(token1-offset1, token2-offset2)".
func parseRelation(line string) (string, string, error) {
	start := strings.Index(line, "(")
	end := strings.LastIndex(line, ")")
	if start <= 0 || end < start {
		return "", "", fmt.Errorf("%w: dependency %q", ErrFormat, line)
	}
	return line[:start], line[start+1 : end], nil
}

func parsePlain(content string) [][]string {
	var sentences [][]string
	for _, line := range lines(content) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		sentences = append(sentences, fields)
	}
	return sentences
}
