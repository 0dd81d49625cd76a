package sentence

import "strings"

// Token represents a word of the sentence with its part-of-speech tag.
type Token struct {
	// The unmodified word
	Text string `json:"text" yaml:"text"`

	Pos string `json:"pos" yaml:"pos"`
}

// Sentence is an ordered sequence of tagged tokens. The index of a token is
// its 0-based position in the sentence.
type Sentence []Token

// Words returns the surface text of the tokens in [start, end).
// It returns an empty slice when start > end; the bounds are clamped to the
// sentence.
func (s Sentence) Words(start, end int) []string {
	words := []string{}
	for _, t := range s.span(start, end) {
		words = append(words, t.Text)
	}
	return words
}

// Tags returns the POS tags of the tokens in [start, end), with the same
// semantics as Words.
func (s Sentence) Tags(start, end int) []string {
	tags := []string{}
	for _, t := range s.span(start, end) {
		tags = append(tags, t.Pos)
	}
	return tags
}

func (s Sentence) span(start, end int) Sentence {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return nil
	}
	return s[start:end]
}

// String joins the surface words with a space.
func (s Sentence) String() string {
	return strings.Join(s.Words(0, len(s)), " ")
}
