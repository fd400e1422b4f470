package docx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png" // register the PNG decoder for DecodeConfig
	"os"
	"regexp"
	"strconv"
)

const (
	relsPart         = "word/_rels/document.xml.rels"
	contentTypesPart = "[Content_Types].xml"
	imageRelType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	// emuPerPixel converts 96 dpi pixels to English Metric Units.
	emuPerPixel = 9525
	// EMUPerCM is the number of English Metric Units in a centimetre.
	EMUPerCM = 360000
)

var relIDRe = regexp.MustCompile(`Id="rId(\d+)"`)

// Image is an inline picture embedded into the document package.
type Image struct {
	relID  string
	id     int
	cx, cy int64
	Align  string
}

// AddImageFile embeds the PNG at path. See AddImage.
func (d *Document) AddImageFile(path string, maxWidthCM float64) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return d.AddImage(data, maxWidthCM)
}

// AddImage embeds a PNG and returns a block that displays it. The picture
// keeps its aspect ratio and is scaled down to maxWidthCM when wider; a
// non-positive maxWidthCM keeps the natural size.
func (d *Document) AddImage(data []byte, maxWidthCM float64) (Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode image: %w", err)
	}
	if format != "png" {
		return Image{}, fmt.Errorf("unsupported image format %q", format)
	}

	cx := int64(cfg.Width) * emuPerPixel
	cy := int64(cfg.Height) * emuPerPixel
	if limit := int64(maxWidthCM * EMUPerCM); limit > 0 && cx > limit {
		cy = cy * limit / cx
		cx = limit
	}

	d.images++
	target := "media/image" + strconv.Itoa(d.images) + ".png"
	d.setPart("word/"+target, data)

	relID := d.addRelationship(target)
	d.ensurePNGContentType()

	return Image{relID: relID, id: 1000 + d.images, cx: cx, cy: cy, Align: AlignLeft}, nil
}

func (d *Document) addRelationship(target string) string {
	rels, ok := d.parts[relsPart]
	if !ok {
		rels = []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`)
	}

	next := 1
	for _, m := range relIDRe.FindAllSubmatch(rels, -1) {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n >= next {
			next = n + 1
		}
	}
	id := "rId" + strconv.Itoa(next)
	rel := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, imageRelType, target)
	d.setPart(relsPart, bytes.Replace(rels, []byte("</Relationships>"), []byte(rel+"</Relationships>"), 1))
	return id
}

func (d *Document) ensurePNGContentType() {
	types, ok := d.parts[contentTypesPart]
	if !ok || bytes.Contains(types, []byte(`Extension="png"`)) {
		return
	}
	def := []byte(`<Default Extension="png" ContentType="image/png"/></Types>`)
	d.parts[contentTypesPart] = bytes.Replace(types, []byte("</Types>"), def, 1)
}

func (img Image) xml() string {
	align := img.Align
	if align == "" {
		align = AlignLeft
	}
	return fmt.Sprintf(`<w:p><w:pPr><w:jc w:val="%s"/></w:pPr><w:r><w:drawing>`+
		`<wp:inline xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="Picture %d"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="image%d.png"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" r:embed="%s"/>`+
		`<a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		align, img.cx, img.cy, img.id, img.id, img.id, img.id, img.relID, img.cx, img.cy)
}
