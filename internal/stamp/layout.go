package stamp

import (
	"regexp"
	"strings"
)

// Layout-anchor resolution is the one genuinely heuristic piece of the
// engine, kept separate from the draw calls so its policy can be tested
// against synthetic layouts without a rendering engine.

// TextLine is one visual line of text. Top is the distance in points from the
// top of the page to the line's baseline.
type TextLine struct {
	Text string
	Top  float64
}

// PageLayout is the extracted text content of a single page, lines in reading
// order. Number is 1-based.
type PageLayout struct {
	Number int
	Width  float64
	Height float64
	Lines  []TextLine
}

// AnchorSource tells which tier of the resolution heuristic produced the
// anchor.
type AnchorSource int

const (
	// AnchorPlaceholder is an explicit underscore-run marker; the position
	// already carries its own label, so only the signature image is placed.
	AnchorPlaceholder AnchorSource = iota
	// AnchorSalutation is a closing-salutation keyword, offset upward.
	AnchorSalutation
	// AnchorLastLine is the visually last line of the final page, offset
	// upward.
	AnchorLastLine
)

// Anchor is a resolved signature position. Y is top-origin.
type Anchor struct {
	Page   int
	Y      float64
	Source AnchorSource
}

var placeholderRe = regexp.MustCompile(`_{5,}`)

// salutationKeywords are matched case-insensitively. The corpus of letters
// this engine stamps mixes Spanish and English closings.
var salutationKeywords = []string{
	"atentamente",
	"cordialmente",
	"sincerely",
	"regards",
}

const (
	salutationGap = 42.0
	lastLineGap   = 48.0
)

// ResolveAnchor scans pages in reading order and selects a signature anchor
// by priority: last underscore-run placeholder, else last closing-salutation
// keyword offset upward, else the lowest line of the final page offset
// upward. Returns false only when no text at all is available.
func ResolveAnchor(pages []PageLayout) (Anchor, bool) {
	var (
		placeholder Anchor
		salutation  Anchor
		foundPH     bool
		foundSal    bool
	)

	for _, page := range pages {
		for _, line := range page.Lines {
			if placeholderRe.MatchString(line.Text) {
				placeholder = Anchor{Page: page.Number, Y: line.Top, Source: AnchorPlaceholder}
				foundPH = true
			}
			lower := strings.ToLower(line.Text)
			for _, kw := range salutationKeywords {
				if strings.Contains(lower, kw) {
					salutation = Anchor{Page: page.Number, Y: line.Top - salutationGap, Source: AnchorSalutation}
					foundSal = true
					break
				}
			}
		}
	}

	if foundPH {
		return placeholder, true
	}
	if foundSal {
		return salutation, true
	}

	for i := len(pages) - 1; i >= 0; i-- {
		page := pages[i]
		if len(page.Lines) == 0 {
			continue
		}
		last := page.Lines[0]
		for _, line := range page.Lines {
			if line.Top > last.Top {
				last = line
			}
		}
		return Anchor{Page: page.Number, Y: last.Top - lastLineGap, Source: AnchorLastLine}, true
	}

	return Anchor{}, false
}
