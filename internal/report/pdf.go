package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0
	cellPad    = 1.5
	fontFamily = "DejaVu"
	coreFamily = "Arial"
)

type rgb struct{ r, g, b int }

var (
	colorText     = rgb{51, 51, 51}
	colorHeading  = rgb{44, 62, 80}
	colorMuted    = rgb{127, 140, 141}
	colorFill     = rgb{236, 240, 241}
	colorBorder   = rgb{189, 195, 199}
	colorROIHigh  = rgb{39, 174, 96}
	colorROIMid   = rgb{243, 156, 18}
	colorROILow   = rgb{231, 76, 60}
	classColorMap = map[string]rgb{
		ROIClassHigh:   colorROIHigh,
		ROIClassMedium: colorROIMid,
		ROIClassLow:    colorROILow,
	}
)

// pdfWriter lays out the block structure of a rendered report on A4 pages.
// It understands the subset of HTML the report templates emit.
type pdfWriter struct {
	pdf       *gofpdf.Fpdf
	family    string
	translate func(string) string
	highlight bool
}

// htmlToPDF converts a rendered report document into PDF bytes. A UTF-8
// TrueType font is embedded when fontPath exists; otherwise the core Arial
// font is used and characters outside cp1252 are lost.
func htmlToPDF(doc []byte, fontPath, title string) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse report html: %w", err)
	}
	body := findElement(root, atom.Body)
	if body == nil {
		return nil, fmt.Errorf("report html has no body")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)

	w := &pdfWriter{pdf: pdf, family: coreFamily, translate: func(s string) string { return s }}
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err == nil {
			pdf.AddUTF8Font(fontFamily, "", fontPath)
			pdf.AddUTF8Font(fontFamily, "B", fontPath)
			w.family = fontFamily
		}
	}
	if w.family == coreFamily {
		w.translate = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.SetTitle(title, true)
	pdf.SetCreator("TrendPulse", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin + 5)
		w.setFont("", 8, colorMuted)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	w.renderChildren(body)

	if pdf.Err() {
		return nil, fmt.Errorf("layout pdf: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) setFont(style string, size float64, c rgb) {
	w.pdf.SetFont(w.family, style, size)
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *pdfWriter) renderChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.render(c)
	}
}

func (w *pdfWriter) render(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if text := collapse(n.Data); text != "" {
			w.paragraph(text, "L", 11, "", colorText)
		}
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.H1:
		w.paragraph(textContent(n), "C", 18, "B", colorHeading)
		w.pdf.Ln(2)
	case atom.H2:
		w.pdf.Ln(4)
		w.paragraph(textContent(n), "L", 14, "B", colorHeading)
		w.pdf.Ln(1)
	case atom.H3:
		w.paragraph(textContent(n), "L", 12, "B", colorHeading)
	case atom.P:
		c := colorText
		if cc, ok := classColorMap[attr(n, "class")]; ok {
			c = cc
		}
		w.paragraph(textContent(n), "L", 11, "", c)
	case atom.Ul, atom.Ol:
		for li := n.FirstChild; li != nil; li = li.NextSibling {
			if li.Type == html.ElementNode && li.DataAtom == atom.Li {
				w.paragraph("• "+textContent(li), "L", 11, "", colorText)
			}
		}
	case atom.Table:
		w.table(n)
	case atom.Div:
		w.div(n)
	case atom.Head, atom.Style, atom.Script:
	default:
		w.renderChildren(n)
	}
}

func (w *pdfWriter) div(n *html.Node) {
	switch attr(n, "class") {
	case "subtitle":
		w.paragraph(textContent(n), "C", 12, "", colorMuted)
	case "header":
		w.renderChildren(n)
		y := w.pdf.GetY() + 2
		pageW, _ := w.pdf.GetPageSize()
		w.pdf.SetDrawColor(colorHeading.r, colorHeading.g, colorHeading.b)
		w.pdf.SetLineWidth(0.8)
		w.pdf.Line(pageMargin, y, pageW-pageMargin, y)
		w.pdf.SetLineWidth(0.2)
		w.pdf.SetY(y + 4)
	case "highlight":
		w.pdf.Ln(2)
		w.highlight = true
		w.renderChildren(n)
		w.highlight = false
		w.pdf.Ln(2)
	case "footer":
		w.pdf.Ln(8)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if text := textContent(c); text != "" {
				w.paragraph(text, "C", 9, "", colorMuted)
			}
		}
	default:
		w.renderChildren(n)
	}
}

func (w *pdfWriter) paragraph(text, align string, size float64, style string, c rgb) {
	if text == "" {
		return
	}
	w.setFont(style, size, c)
	if w.highlight {
		w.pdf.SetFillColor(colorFill.r, colorFill.g, colorFill.b)
	}
	w.pdf.MultiCell(0, size*0.5, w.translate(text), "", align, w.highlight)
}

func (w *pdfWriter) table(n *html.Node) {
	var rows [][]*html.Node
	walk(n, func(el *html.Node) bool {
		if el.DataAtom != atom.Tr {
			return true
		}
		var cells []*html.Node
		for c := el.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
		return false
	})
	if len(rows) == 0 {
		return
	}

	pageW, pageH := w.pdf.GetPageSize()
	usable := pageW - 2*pageMargin
	w.pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)
	w.pdf.Ln(1)

	for _, cells := range rows {
		colW := usable / float64(len(cells))

		texts := make([]string, len(cells))
		lines := 1
		for i, cell := range cells {
			w.cellFont(cell)
			texts[i] = w.translate(textContent(cell))
			if k := len(w.pdf.SplitText(texts[i], colW-2*cellPad)); k > lines {
				lines = k
			}
		}
		rowH := float64(lines)*lineHeight + cellPad

		if w.pdf.GetY()+rowH > pageH-pageMargin {
			w.pdf.AddPage()
		}
		y := w.pdf.GetY()

		for i, cell := range cells {
			x := pageMargin + float64(i)*colW
			style := "D"
			if cell.DataAtom == atom.Th {
				w.pdf.SetFillColor(colorFill.r, colorFill.g, colorFill.b)
				style = "FD"
			}
			w.pdf.Rect(x, y, colW, rowH, style)

			w.cellFont(cell)
			w.pdf.SetXY(x+cellPad, y+cellPad/2)
			w.pdf.MultiCell(colW-2*cellPad, lineHeight, texts[i], "", "L", false)
		}
		w.pdf.SetXY(pageMargin, y+rowH)
	}
	w.pdf.Ln(2)
}

func (w *pdfWriter) cellFont(cell *html.Node) {
	switch {
	case cell.DataAtom == atom.Th:
		w.setFont("B", 10, colorHeading)
	default:
		c := colorText
		if cc, ok := classColorMap[attr(cell, "class")]; ok {
			c = cc
		}
		w.setFont("", 10, c)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// walk visits element descendants of n depth first. fn returns false to skip
// the children of the visited element.
func walk(n *html.Node, fn func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if fn(c) {
			walk(c, fn)
		}
	}
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return collapse(b.String())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
