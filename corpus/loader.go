package corpus

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/revelaction/relfeat/file"
)

// numFields is the number of fields of an annotation line without the gold
// tag.
const numFields = 13

// Options configure a Loader.
type Options struct {
	// Gold files carry the relation tag as the first field
	Gold bool

	Layout file.Layout

	// PosSeparator splits surface text from tag in the POS file
	PosSeparator string

	// LoadRaw also reads the plaintext side file
	LoadRaw bool

	Logger *slog.Logger

	// Progress is called after each annotation line.
	Progress func(current, total int, title string)
}

type Loader struct {
	opts Options
	log  *slog.Logger
}

func NewLoader(opts Options) *Loader {
	if opts.PosSeparator == "" {
		opts.PosSeparator = "_"
	}
	if opts.Layout == nil {
		opts.Layout = file.DefaultLayout(".")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Loader{opts: opts, log: logger}
}

// Load reads the annotation file at path and the side files of every
// document it references. The first malformed line or unreadable document
// stops the load.
func (l *Loader) Load(path string) (*Corpus, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var annotated []int
	ls := strings.Split(string(content), "\n")
	for i, line := range ls {
		if strings.TrimSpace(line) != "" {
			annotated = append(annotated, i)
		}
	}

	c := New()
	for n, i := range annotated {
		text := strings.TrimSpace(ls[i])

		m, tagLast, err := parseLine(text, l.opts.Gold)
		if err != nil {
			return nil, &LineError{Path: path, Line: i + 1, Text: text, Err: err}
		}
		if tagLast {
			l.log.Debug("gold tag read from last field", "path", path, "line", i+1, "tag", m.Tag)
		}
		m.Line = i + 1

		doc, ok := c.Doc(m.DocId)
		if !ok {
			doc, err = l.LoadDocument(m.DocId)
			if err != nil {
				return nil, err
			}
			c.Add(doc)
		}

		if err := doc.Validate(m); err != nil {
			return nil, &LineError{Path: path, Line: i + 1, Text: text, Err: err}
		}

		if !doc.DepsDisabled {
			m.DepRelation, m.DepStatus = doc.Deps.Lookup(m.E1.SentOffset, m.E1.Text, m.E1.Begin, m.E2.Text, m.E2.Begin)
			m.InDependencyRelation = m.DepStatus == DepFound
		}

		doc.Mentions = append(doc.Mentions, m)

		if l.opts.Progress != nil {
			l.opts.Progress(n+1, len(annotated), m.DocId)
		}
	}

	l.log.Info("corpus loaded", "path", path, "documents", c.Len(), "mentions", len(annotated))
	return c, nil
}

// LoadDocument reads the side files of title. Parse trees and POS sentences
// must align; a dependency file that does not align disables the dependency
// data of the document.
func (l *Loader) LoadDocument(title string) (*Document, error) {
	doc := &Document{Title: title}

	parsePath := l.opts.Layout.Path(file.Parse, title)
	parses, err := file.ReadParses(parsePath)
	if err != nil {
		return nil, sideFileError(title, parsePath, err)
	}
	doc.Parses = parses

	posPath := l.opts.Layout.Path(file.Pos, title)
	sentences, err := file.ReadTagged(posPath, l.opts.PosSeparator)
	if err != nil {
		return nil, sideFileError(title, posPath, err)
	}
	doc.Sentences = sentences

	if len(doc.Parses) != len(doc.Sentences) {
		return nil, &DocError{
			Title: title,
			Err:   fmt.Errorf("%w: %d trees, %d sentences", ErrParseCountMismatch, len(doc.Parses), len(doc.Sentences)),
		}
	}

	depPath := l.opts.Layout.Path(file.Dep, title)
	deps, err := file.ReadDependencies(depPath)
	if err != nil {
		return nil, sideFileError(title, depPath, err)
	}

	if len(deps) != len(doc.Sentences) {
		doc.DepsDisabled = true
		l.log.Warn("dependency features disabled",
			"doc", title,
			"err", ErrDependencyCountMismatch,
			"dependency_sentences", len(deps),
			"pos_sentences", len(doc.Sentences))
	} else {
		doc.Deps = DependencyIndex(deps)
	}

	if l.opts.LoadRaw {
		rawPath := l.opts.Layout.Path(file.Raw, title)
		plain, err := file.ReadPlain(rawPath)
		if err != nil {
			return nil, sideFileError(title, rawPath, err)
		}
		doc.Plain = plain
	}

	l.log.Debug("document loaded", "doc", title, "sentences", len(doc.Sentences))
	return doc, nil
}

func sideFileError(title, path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = fmt.Errorf("%w: %w", ErrMissingSideFile, err)
	}
	return &DocError{Title: title, Path: path, Err: err}
}

// ParseLine parses one annotation line. For gold lines the first field is
// the relation tag; a line that only parses with the tag as the last field
// is accepted too. Only the part of the tag before the first "." is kept.
func ParseLine(line string, gold bool) (Mention, error) {
	m, _, err := parseLine(line, gold)
	return m, err
}

// parseLine is ParseLine that also reports whether the tag was read from the
// last field.
func parseLine(line string, gold bool) (Mention, bool, error) {
	fields := strings.Fields(line)
	if !gold {
		m, err := parseFields(fields)
		return m, false, err
	}

	if len(fields) != numFields+1 {
		return Mention{}, false, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedLine, numFields+1, len(fields))
	}

	tag, tagLast := fields[0], false
	m, err := parseFields(fields[1:])
	if err != nil {
		last, err2 := parseFields(fields[:numFields])
		if err2 != nil {
			return Mention{}, false, err
		}
		tag, m, tagLast = fields[numFields], last, true
	}

	m.Tag = strings.SplitN(tag, ".", 2)[0]
	return m, tagLast, nil
}

func parseFields(fields []string) (Mention, error) {
	var m Mention
	if len(fields) != numFields {
		return m, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedLine, numFields, len(fields))
	}

	m.DocId = fields[0]

	var err error
	if m.E1, err = parseEntity(fields[1:7]); err != nil {
		return m, err
	}
	if m.E2, err = parseEntity(fields[7:13]); err != nil {
		return m, err
	}

	return m, nil
}

// parseEntity reads sent_offset, begin, end, type, id, token.
func parseEntity(fields []string) (Entity, error) {
	var ints [3]int
	for i := range ints {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return Entity{}, fmt.Errorf("%w: field %q is not an integer", ErrMalformedLine, fields[i])
		}
		ints[i] = v
	}

	return Entity{
		SentOffset: ints[0],
		Begin:      ints[1],
		End:        ints[2],
		Type:       fields[3],
		Id:         fields[4],
		Text:       fields[5],
	}, nil
}
