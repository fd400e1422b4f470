// Package docx fills Word (.docx) templates.
//
// Placeholders are written in the template as {name}. Inline placeholders are
// substituted in place; a block placeholder must sit alone in its paragraph,
// which is then replaced by generated paragraphs, tables or an image.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

const documentPart = "word/document.xml"

var (
	// ErrInvalidTemplate is returned when the data is not a Word document.
	ErrInvalidTemplate = errors.New("invalid docx template")
	// ErrPlaceholderNotFound is returned when a block placeholder is missing.
	ErrPlaceholderNotFound = errors.New("placeholder not found")
)

var (
	paragraphRe   = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	textRe        = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
	placeholderRe = regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9_]*)\}`)
	runRe         = regexp.MustCompile(`(?s)<w:r(?:\s[^>]*)?>.*?</w:r>`)
)

// Document is an opened template. It is not safe for concurrent use.
type Document struct {
	names  []string
	parts  map[string][]byte
	images int
}

// OpenFile reads a template from disk.
func OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return Open(data)
}

// Open parses a template. Placeholders that Word split across several runs
// are merged so that every placeholder can be found as plain text.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	d := &Document{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
		}
		d.names = append(d.names, f.Name)
		d.parts[f.Name] = content
		if strings.HasPrefix(f.Name, "word/media/") {
			d.images++
		}
	}

	if _, ok := d.parts[documentPart]; !ok {
		return nil, fmt.Errorf("%w: %s is missing", ErrInvalidTemplate, documentPart)
	}

	for _, name := range d.textParts() {
		d.parts[name] = mergeSplitPlaceholders(d.parts[name])
	}
	return d, nil
}

// textParts lists the body, header and footer parts.
func (d *Document) textParts() []string {
	var parts []string
	for _, name := range d.names {
		if name == documentPart ||
			(strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer")) && strings.HasSuffix(name, ".xml") {
			parts = append(parts, name)
		}
	}
	return parts
}

// Placeholders returns the distinct placeholder names in the document, sorted.
func (d *Document) Placeholders() []string {
	seen := map[string]bool{}
	for _, name := range d.textParts() {
		for _, m := range placeholderRe.FindAllSubmatch(d.parts[name], -1) {
			seen[string(m[1])] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether the document contains placeholder name.
func (d *Document) Has(name string) bool {
	token := []byte("{" + name + "}")
	for _, part := range d.textParts() {
		if bytes.Contains(d.parts[part], token) {
			return true
		}
	}
	return false
}

// Replace substitutes inline placeholders. Unknown placeholders are left as
// they are. Line breaks in values become Word line breaks.
func (d *Document) Replace(values map[string]string) {
	if len(values) == 0 {
		return
	}
	pairs := make([]string, 0, len(values)*2)
	for name, value := range values {
		pairs = append(pairs, "{"+name+"}", inlineText(value))
	}
	r := strings.NewReplacer(pairs...)
	for _, name := range d.textParts() {
		d.parts[name] = []byte(r.Replace(string(d.parts[name])))
	}
}

// ReplaceBlock replaces the paragraph holding placeholder name by blocks.
// Every paragraph holding it is replaced.
func (d *Document) ReplaceBlock(name string, blocks ...Block) error {
	token := "{" + name + "}"
	var body strings.Builder
	for _, b := range blocks {
		body.WriteString(b.xml())
	}

	found := false
	for _, part := range d.textParts() {
		d.parts[part] = paragraphRe.ReplaceAllFunc(d.parts[part], func(p []byte) []byte {
			if !bytes.Contains(p, []byte(token)) {
				return p
			}
			found = true
			return []byte(body.String())
		})
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrPlaceholderNotFound, name)
	}
	return nil
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range d.names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		if _, err := w.Write(d.parts[name]); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx: %w", err)
	}
	return buf.Bytes(), nil
}

// Part returns the raw content of a package part.
func (d *Document) Part(name string) ([]byte, bool) {
	p, ok := d.parts[name]
	return p, ok
}

func (d *Document) setPart(name string, content []byte) {
	if _, ok := d.parts[name]; !ok {
		d.names = append(d.names, name)
	}
	d.parts[name] = content
}

// mergeSplitPlaceholders moves every placeholder that Word split across runs
// into the run where it starts. Only the spanned runs are rewritten: text
// after the placeholder stays in its own run with its own formatting, and
// tabs, breaks and fields are not touched. A rewritten run keeps a single
// <w:t>, so a spanned run holding several text elements loses their
// interleaving with its other children.
func mergeSplitPlaceholders(xmlData []byte) []byte {
	return paragraphRe.ReplaceAllFunc(xmlData, mergeParagraphRuns)
}

func mergeParagraphRuns(p []byte) []byte {
	runs := runRe.FindAllIndex(p, -1)
	if len(runs) < 2 {
		return p
	}

	// owner[i] is the run holding byte i of the paragraph text
	var joined []byte
	var owner []int
	for i, r := range runs {
		for _, m := range textRe.FindAllSubmatch(p[r[0]:r[1]], -1) {
			joined = append(joined, m[1]...)
			for range m[1] {
				owner = append(owner, i)
			}
		}
	}

	changed := make(map[int]bool)
	for _, loc := range placeholderRe.FindAllIndex(joined, -1) {
		first := owner[loc[0]]
		if owner[loc[1]-1] == first {
			continue
		}
		changed[first] = true
		for c := loc[0]; c < loc[1]; c++ {
			if owner[c] != first {
				changed[owner[c]] = true
				owner[c] = first
			}
		}
	}
	if len(changed) == 0 {
		return p
	}

	texts := make([][]byte, len(runs))
	for c, b := range joined {
		texts[owner[c]] = append(texts[owner[c]], b)
	}

	var out bytes.Buffer
	prev := 0
	for i, r := range runs {
		out.Write(p[prev:r[0]])
		run := p[r[0]:r[1]]
		if changed[i] {
			run = setRunText(run, texts[i])
		}
		out.Write(run)
		prev = r[1]
	}
	out.Write(p[prev:])
	return out.Bytes()
}

// setRunText replaces the text elements of a run with one holding text, or
// drops them when text is empty.
func setRunText(run, text []byte) []byte {
	written := false
	return textRe.ReplaceAllFunc(run, func([]byte) []byte {
		if written || len(text) == 0 {
			return nil
		}
		written = true
		return []byte(`<w:t xml:space="preserve">` + string(text) + `</w:t>`)
	})
}
