// Package inspect is an interactive prompt to browse the mentions of a
// loaded corpus and the features extracted for them.
package inspect

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/relfeat/corpus"
	"github.com/revelaction/relfeat/feature"
	"github.com/revelaction/relfeat/render"
)

const (
	cmdDocs  = "docs"
	cmdSteps = "steps"
	cmdQuit  = "quit"
)

type Handler struct {
	Corpus   *corpus.Corpus
	Result   feature.Result
	Steps    feature.Set
	Renderer *render.TextRenderer
	Out      io.Writer
}

func NewHandler(c *corpus.Corpus, res feature.Result, steps feature.Set, r *render.TextRenderer, out io.Writer) *Handler {
	return &Handler{
		Corpus:   c,
		Result:   res,
		Steps:    steps,
		Renderer: r,
		Out:      out,
	}
}

func (h *Handler) Run() error {

	fmt.Fprintln(h.Out, "🔑 Ctrl+X: Toggle prefix, Ctrl+F: Toggle color, 🔧 docs | <title> [mention] | steps | quit")

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input("      🔖 ", h.completer,
			prompt.OptionTitle("relfeat inspect"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextColor()
					fmt.Fprintf(h.Out, "Color set to %t\n", h.Renderer.HasColor)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Fprintf(h.Out, "Prefix set to %t\n", h.Renderer.HasPrefix)
				}}),
		)

		history = append(history, in)
		quit, err := h.Exec(in)
		if quit {
			return nil
		}
		if err != nil {
			fmt.Fprintf(h.Out, "❌ %s\n", err)
		}
	}
}

// Exec runs one prompt line. It reports true when the line asks to quit.
func (h *Handler) Exec(in string) (bool, error) {
	tokens := strings.Fields(in)
	if len(tokens) == 0 {
		return false, nil
	}

	switch tokens[0] {
	case cmdQuit:
		return true, nil
	case cmdDocs:
		h.docs()
		return false, nil
	case cmdSteps:
		h.steps()
		return false, nil
	}

	doc, ok := h.Corpus.Doc(tokens[0])
	if !ok {
		return false, fmt.Errorf("unknown document %s", tokens[0])
	}

	if len(tokens) == 1 {
		h.mentions(doc)
		return false, nil
	}

	idx, err := strconv.Atoi(tokens[1])
	if err != nil {
		return false, errors.New("mention must be a number")
	}
	if idx < 0 || idx >= len(doc.Mentions) {
		return false, fmt.Errorf("mention %d out of range (doc has %d mentions)", idx, len(doc.Mentions))
	}

	return false, h.mention(doc, idx)
}

func (h *Handler) docs() {
	for i, title := range h.Corpus.Titles() {
		doc, _ := h.Corpus.Doc(title)
		deps := ""
		if doc.DepsDisabled {
			deps = " (dependencies disabled)"
		}
		fmt.Fprintf(h.Out, "📖 %d %s %d mentions%s\n", i, title, len(doc.Mentions), deps)
	}
}

// steps lists every registered step, the enabled ones marked.
func (h *Handler) steps() {
	enabled := map[string]bool{}
	for _, name := range h.Steps.Names() {
		enabled[name] = true
	}

	for _, st := range feature.Steps() {
		mark := "  "
		if enabled[st.Name] {
			mark = "✔ "
		}
		fmt.Fprintf(h.Out, "%s%s\n", mark, st.Name)
	}
}

func (h *Handler) mentions(doc *corpus.Document) {
	for i, m := range doc.Mentions {
		tag := m.Tag
		if tag == "" {
			tag = "-"
		}
		fmt.Fprintf(h.Out, "%4d %-12s %s\n", i, tag, h.Renderer.Mention(doc, m))
	}
}

func (h *Handler) mention(doc *corpus.Document, idx int) error {
	m := doc.Mentions[idx]
	fmt.Fprintf(h.Out, "✍  %s\n", h.Renderer.Mention(doc, m))
	if off := m.E1.SentOffset; off < len(doc.Plain) {
		fmt.Fprintf(h.Out, "   raw: %s\n", strings.Join(doc.Plain[off], " "))
	}
	fmt.Fprintf(h.Out, "   %s %s / %s %s, dependency %s %s\n", m.E1.Type, m.E1.Text, m.E2.Type, m.E2.Text, m.DepStatus, m.DepRelation)

	insts, ok := h.Result.Instances[doc.Title]
	if !ok || idx >= len(insts) {
		return fmt.Errorf("no features for %s %d", doc.Title, idx)
	}
	return h.Renderer.Render(doc.Title, insts[idx:idx+1])
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{}
	befCursor := in.TextBeforeCursor()

	if befCursor == "" || strings.Contains(befCursor, " ") {
		return s
	}

	return h.Complete(befCursor)
}

// Complete returns the commands and titles starting with token.
func (h *Handler) Complete(token string) []prompt.Suggest {
	s := []prompt.Suggest{}
	for _, c := range []string{cmdDocs, cmdSteps, cmdQuit} {
		if strings.HasPrefix(c, token) {
			s = append(s, prompt.Suggest{Text: c, Description: "🔧"})
		}
	}

	titles := h.Corpus.Titles()
	sort.Strings(titles)
	for _, t := range titles {
		if strings.HasPrefix(t, token) {
			doc, _ := h.Corpus.Doc(t)
			s = append(s, prompt.Suggest{Text: t, Description: fmt.Sprintf("📖 %d mentions", len(doc.Mentions))})
		}
	}

	return s
}
