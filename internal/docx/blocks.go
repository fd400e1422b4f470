package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Block is generated body content that replaces a block placeholder.
type Block interface {
	xml() string
}

// Alignment values for Paragraph.Align.
const (
	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignRight   = "right"
	AlignJustify = "both"
)

// Run is a span of text with uniform formatting.
type Run struct {
	Text string
	Bold bool
}

// Paragraph is a single body paragraph.
type Paragraph struct {
	Runs []Run
	// Align is one of the Align constants; empty keeps the style default.
	Align string
	// Indent is the first-line indent in twentieths of a point.
	Indent int
}

// Text returns a paragraph with one plain run.
func Text(s string) Paragraph {
	return Paragraph{Runs: []Run{{Text: s}}}
}

// Bold returns a paragraph with one bold run.
func Bold(s string) Paragraph {
	return Paragraph{Runs: []Run{{Text: s, Bold: true}}}
}

func (p Paragraph) xml() string {
	var b strings.Builder
	b.WriteString("<w:p>")
	if p.Align != "" || p.Indent > 0 {
		b.WriteString("<w:pPr>")
		if p.Indent > 0 {
			fmt.Fprintf(&b, `<w:ind w:firstLine="%d"/>`, p.Indent)
		}
		if p.Align != "" {
			fmt.Fprintf(&b, `<w:jc w:val="%s"/>`, p.Align)
		}
		b.WriteString("</w:pPr>")
	}
	for _, r := range p.Runs {
		b.WriteString(r.xml())
	}
	b.WriteString("</w:p>")
	return b.String()
}

func (r Run) xml() string {
	var b strings.Builder
	b.WriteString("<w:r>")
	if r.Bold {
		b.WriteString("<w:rPr><w:b/><w:bCs/></w:rPr>")
	}
	fmt.Fprintf(&b, `<w:t xml:space="preserve">%s</w:t>`, inlineText(r.Text))
	b.WriteString("</w:r>")
	return b.String()
}

// Cell is one table cell.
type Cell struct {
	Text  string
	Bold  bool
	Align string
}

// Table is a bordered table spanning the page width. Widths are the column
// widths in twentieths of a point; the first row is not treated specially.
type Table struct {
	Widths []int
	Rows   [][]Cell
}

func (t Table) xml() string {
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&b, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="000000"/>`, side)
	}
	b.WriteString(`</w:tblBorders></w:tblPr><w:tblGrid>`)
	for _, w := range t.Widths {
		fmt.Fprintf(&b, `<w:gridCol w:w="%d"/>`, w)
	}
	b.WriteString("</w:tblGrid>")

	for _, row := range t.Rows {
		b.WriteString("<w:tr>")
		for i, cell := range row {
			b.WriteString("<w:tc>")
			if i < len(t.Widths) {
				fmt.Fprintf(&b, `<w:tcPr><w:tcW w:w="%d" w:type="dxa"/></w:tcPr>`, t.Widths[i])
			}
			p := Paragraph{Runs: []Run{{Text: cell.Text, Bold: cell.Bold}}, Align: cell.Align}
			b.WriteString(p.xml())
			b.WriteString("</w:tc>")
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
	return b.String()
}

// inlineText escapes s for a w:t element. Newlines become line breaks.
func inlineText(s string) string {
	lines := strings.Split(s, "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString(`</w:t><w:br/><w:t xml:space="preserve">`)
		}
		var esc bytes.Buffer
		_ = xml.EscapeText(&esc, []byte(line))
		b.Write(esc.Bytes())
	}
	return b.String()
}
