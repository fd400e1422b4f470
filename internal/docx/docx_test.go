package docx

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/debtdesk/api/internal/docx/docxtest"
)

func TestOpenRejectsInvalidData(t *testing.T) {
	_, err := Open([]byte("not a zip"))
	assert.True(t, errors.Is(err, ErrInvalidTemplate))

	_, err = OpenFile("/nonexistent/template.docx")
	assert.Error(t, err)
}

func TestReplaceInline(t *testing.T) {
	data := docxtest.Template(t,
		docxtest.Paragraph("Платник: {name}, код {code}"),
		docxtest.Paragraph("Залишок {unknown}"),
	)
	d, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "name", "unknown"}, d.Placeholders())

	d.Replace(map[string]string{"name": "ТОВ <Ромашка> & Ко", "code": "12*****890"})

	out, err := d.Bytes()
	require.NoError(t, err)
	body := docxtest.Part(t, out, "word/document.xml")
	assert.Contains(t, body, "Платник: ТОВ &lt;Ромашка&gt; &amp; Ко, код 12*****890")
	assert.Contains(t, body, "{unknown}", "unknown placeholders are left intact")
	assert.NotContains(t, body, "{name}")
}

func TestReplaceMergesSplitRuns(t *testing.T) {
	split := `<w:p><w:pPr><w:jc w:val="center"/><w:rPr><w:i/></w:rPr></w:pPr>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>Сума: {to</w:t></w:r>` +
		`<w:r><w:t>tal</w:t></w:r><w:r><w:t xml:space="preserve">} грн</w:t></w:r></w:p>`
	d, err := Open(docxtest.Template(t, split))
	require.NoError(t, err)
	require.True(t, d.Has("total"))

	d.Replace(map[string]string{"total": "120.50"})
	body, _ := d.Part("word/document.xml")

	assert.Contains(t, string(body), `<w:pPr><w:jc w:val="center"/><w:rPr><w:i/></w:rPr></w:pPr>`)
	assert.Contains(t, string(body), `<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Сума: 120.50</w:t></w:r><w:r></w:r>`)
	assert.Contains(t, string(body), `<w:r><w:t xml:space="preserve"> грн</w:t></w:r>`, "text after the placeholder keeps its run")
}

func TestReplaceMergeKeepsOtherRuns(t *testing.T) {
	split := `<w:p>` +
		`<w:r><w:rPr><w:i/></w:rPr><w:t>Код:</w:t><w:tab/></w:r>` +
		`<w:r><w:t>{co</w:t></w:r><w:r><w:rPr><w:u w:val="single"/></w:rPr><w:t>de}</w:t><w:br/></w:r>` +
		`<w:r><w:fldChar w:fldCharType="begin"/></w:r>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">, {date}</w:t></w:r></w:p>`
	d, err := Open(docxtest.Template(t, split))
	require.NoError(t, err)

	d.Replace(map[string]string{"code": "12*****890", "date": "01.05.2024"})
	body, _ := d.Part("word/document.xml")

	assert.Contains(t, string(body), `<w:r><w:rPr><w:i/></w:rPr><w:t>Код:</w:t><w:tab/></w:r>`)
	assert.Contains(t, string(body), `<w:r><w:t xml:space="preserve">12*****890</w:t></w:r>`)
	assert.Contains(t, string(body), `<w:r><w:rPr><w:u w:val="single"/></w:rPr><w:br/></w:r>`)
	assert.Contains(t, string(body), `<w:r><w:fldChar w:fldCharType="begin"/></w:r>`)
	assert.Contains(t, string(body), `<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">, 01.05.2024</w:t></w:r>`)
}

func TestReplaceLineBreaks(t *testing.T) {
	d, err := Open(docxtest.Template(t, docxtest.Paragraph("{address}")))
	require.NoError(t, err)

	d.Replace(map[string]string{"address": "вул. Зелена, 1\nм. Львів"})
	body, _ := d.Part("word/document.xml")
	assert.Contains(t, string(body), `вул. Зелена, 1</w:t><w:br/><w:t xml:space="preserve">м. Львів`)
}

func TestReplaceBlock(t *testing.T) {
	d, err := Open(docxtest.Template(t,
		docxtest.Paragraph("Вступ"),
		docxtest.Paragraph("{items}"),
		docxtest.Paragraph("Кінець"),
	))
	require.NoError(t, err)

	err = d.ReplaceBlock("items",
		Paragraph{Runs: []Run{{Text: "1. земельний податок"}}, Align: AlignJustify, Indent: 567},
		Bold("Отримувач: ГУК"),
		Table{Widths: []int{6000, 3000}, Rows: [][]Cell{
			{{Text: "вул. Польова"}, {Text: "10.00", Align: AlignRight}},
			{{Text: "Сума", Bold: true}, {Text: "10.00", Bold: true, Align: AlignRight}},
		}},
	)
	require.NoError(t, err)

	body, _ := d.Part("word/document.xml")
	s := string(body)
	assert.NotContains(t, s, "{items}")
	assert.Contains(t, s, `<w:ind w:firstLine="567"/><w:jc w:val="both"/>`)
	assert.Contains(t, s, `<w:rPr><w:b/><w:bCs/></w:rPr><w:t xml:space="preserve">Отримувач: ГУК</w:t>`)
	assert.Contains(t, s, `<w:gridCol w:w="6000"/><w:gridCol w:w="3000"/>`)
	assert.Equal(t, 2, strings.Count(s, "<w:tr>"))
	assert.Less(t, strings.Index(s, "Вступ"), strings.Index(s, "<w:tbl>"))
	assert.Less(t, strings.Index(s, "</w:tbl>"), strings.Index(s, "Кінець"))

	err = d.ReplaceBlock("items", Text("again"))
	assert.True(t, errors.Is(err, ErrPlaceholderNotFound))
}

func TestAddImage(t *testing.T) {
	d, err := Open(docxtest.Template(t, docxtest.Paragraph("{qr}")))
	require.NoError(t, err)

	img, err := d.AddImage(docxtest.PNG(t, 200, 100), 2)
	require.NoError(t, err)
	require.NoError(t, d.ReplaceBlock("qr", img))

	out, err := d.Bytes()
	require.NoError(t, err)

	rels := docxtest.Part(t, out, "word/_rels/document.xml.rels")
	assert.Contains(t, rels, `<Relationship Id="rId2" Type="`+imageRelType+`" Target="media/image1.png"/>`)

	types := docxtest.Part(t, out, "[Content_Types].xml")
	assert.Contains(t, types, `<Default Extension="png" ContentType="image/png"/>`)

	media := docxtest.Part(t, out, "word/media/image1.png")
	assert.NotEmpty(t, media)

	body := docxtest.Part(t, out, "word/document.xml")
	assert.Contains(t, body, `r:embed="rId2"`)
	// 200px is wider than 2cm, so the picture is scaled keeping its 2:1 ratio
	assert.Contains(t, body, `<wp:extent cx="720000" cy="360000"/>`)
}

func TestAddImageRejectsNonPNG(t *testing.T) {
	d, err := Open(docxtest.Template(t, docxtest.Paragraph("{qr}")))
	require.NoError(t, err)

	_, err = d.AddImage([]byte("GIF89a"), 0)
	assert.Error(t, err)

	_, err = d.AddImageFile("/nonexistent/qr.png", 0)
	assert.Error(t, err)
}
