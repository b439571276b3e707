package stamp

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// A4 in points, used when a page carries no usable MediaBox.
const (
	defaultPageWidth  = 595.28
	defaultPageHeight = 841.89
)

// ExtractLayout reads the fixed-layout artifact and returns per-page text
// lines in reading order. Pages whose content streams cannot be parsed come
// back with empty Lines rather than failing the whole extraction; anchor
// resolution then degrades instead of aborting the stamp.
func ExtractLayout(pdfBytes []byte) ([]PageLayout, error) {
	reader, err := pdf.NewReader(bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	if numPages < 1 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages := make([]PageLayout, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, PageLayout{Number: i, Width: defaultPageWidth, Height: defaultPageHeight})
			continue
		}
		w, h := pageSize(page)
		layout := PageLayout{Number: i, Width: w, Height: h}
		layout.Lines = extractLines(page, h)
		pages = append(pages, layout)
	}
	return pages, nil
}

// extractLines groups positioned text runs into visual lines. The underlying
// parser panics on some malformed content streams, so this is isolated and
// recovered per page.
func extractLines(page pdf.Page, pageHeight float64) (lines []TextLine) {
	defer func() {
		if r := recover(); r != nil {
			lines = nil
		}
	}()

	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}

	// Bucket runs by baseline Y (PDF bottom-origin), then order buckets top
	// to bottom and runs left to right.
	byY := make(map[float64][]pdf.Text)
	for _, t := range content.Text {
		y := math.Round(t.Y*2) / 2
		byY[y] = append(byY[y], t)
	}

	ys := make([]float64, 0, len(byY))
	for y := range byY {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))

	lines = make([]TextLine, 0, len(ys))
	for _, y := range ys {
		runs := byY[y]
		sort.Slice(runs, func(i, j int) bool { return runs[i].X < runs[j].X })
		var sb strings.Builder
		for _, r := range runs {
			sb.WriteString(r.S)
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		lines = append(lines, TextLine{Text: text, Top: pageHeight - y})
	}
	return lines
}

func pageSize(page pdf.Page) (w, h float64) {
	w, h = defaultPageWidth, defaultPageHeight
	defer func() {
		if r := recover(); r != nil {
			w, h = defaultPageWidth, defaultPageHeight
		}
	}()

	mb := page.V.Key("MediaBox")
	if mb.Kind() != pdf.Array || mb.Len() != 4 {
		return w, h
	}
	width := mb.Index(2).Float64() - mb.Index(0).Float64()
	height := mb.Index(3).Float64() - mb.Index(1).Float64()
	if width > 0 && height > 0 {
		return width, height
	}
	return w, h
}
