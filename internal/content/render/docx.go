package render

import (
	"fmt"
	"strings"

	"cyber-doctor/internal/content"
)

// runFont picks the font for a run: the CJK font when text has Chinese,
// the latin fallback otherwise.
type runFont struct {
	cjk   string
	latin string
	size  int // points
	bold  bool
}

var (
	titleFont     = runFont{cjk: "黑体", latin: "Arial", size: 24, bold: true}
	sectionFont   = runFont{cjk: "宋体", latin: "Times New Roman", size: 16, bold: true}
	paragraphFont = runFont{cjk: "宋体", latin: "Calibri", size: 14, bold: true}
	bodyFont      = runFont{cjk: "宋体", latin: "Arial", size: 12}
)

// RenderDocx writes doc as a Word document: a centered title, a level-1
// heading per section, a level-2 heading and a body paragraph per paragraph.
func (r *Renderer) RenderDocx(doc content.Document) (string, error) {
	var body strings.Builder
	body.WriteString(docxParagraph("Title", true, titleFont, doc.Title))
	for _, s := range doc.Sections {
		body.WriteString(docxParagraph("Heading1", false, sectionFont, s.Heading))
		for _, p := range s.Paragraphs {
			body.WriteString(docxParagraph("Heading2", false, paragraphFont, p.Heading))
			body.WriteString(docxParagraph("", false, bodyFont, p.Content))
		}
	}

	document := xmlHeader +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1800" w:bottom="1440" w:left="1800" w:header="851" w:footer="992" w:gutter="0"/></w:sectPr>` +
		`</w:body></w:document>`

	path, err := r.writePackage(".docx", []part{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRootRels},
		{"word/_rels/document.xml.rels", docxDocumentRels},
		{"word/styles.xml", docxStyles},
		{"word/document.xml", document},
	})
	if err != nil {
		return "", fmt.Errorf("render docx: %w", err)
	}
	return path, nil
}

func docxParagraph(style string, center bool, f runFont, text string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	if style != "" || center {
		b.WriteString("<w:pPr>")
		if style != "" {
			fmt.Fprintf(&b, `<w:pStyle w:val="%s"/>`, style)
		}
		if center {
			b.WriteString(`<w:jc w:val="center"/>`)
		}
		b.WriteString("</w:pPr>")
	}

	font := f.latin
	if hasCJK(text) {
		font = f.cjk
	}
	b.WriteString("<w:r><w:rPr>")
	fmt.Fprintf(&b, `<w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:eastAsia="%[1]s"/>`, font)
	if f.bold {
		b.WriteString("<w:b/>")
	}
	// sizes are in half points
	fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, f.size*2, f.size*2)
	fmt.Fprintf(&b, `</w:rPr><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, esc(text))
	return b.String()
}

const docxContentTypes = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const docxRootRels = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const docxDocumentRels = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const docxStyles = xmlHeader + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:pPr><w:spacing w:after="120"/></w:pPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:spacing w:after="240"/></w:pPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="160" w:after="80"/><w:outlineLvl w:val="1"/></w:pPr></w:style>` +
	`</w:styles>`
