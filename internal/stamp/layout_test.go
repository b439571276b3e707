package stamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func letterPage(num int, lines ...TextLine) PageLayout {
	return PageLayout{Number: num, Width: 595.28, Height: 841.89, Lines: lines}
}

func TestResolveAnchor_PlaceholderWinsOverSalutation(t *testing.T) {
	pages := []PageLayout{
		letterPage(1,
			TextLine{Text: "Respected Sir,", Top: 120},
			TextLine{Text: "Atentamente,", Top: 600},
			TextLine{Text: "__________________", Top: 660},
		),
	}

	anchor, ok := ResolveAnchor(pages)
	require.True(t, ok)
	assert.Equal(t, AnchorPlaceholder, anchor.Source)
	assert.Equal(t, 1, anchor.Page)
	assert.Equal(t, 660.0, anchor.Y, "placeholder anchors at its exact position")
}

func TestResolveAnchor_LastPlaceholderWins(t *testing.T) {
	pages := []PageLayout{
		letterPage(1, TextLine{Text: "______", Top: 300}),
		letterPage(2, TextLine{Text: "______", Top: 500}),
	}

	anchor, ok := ResolveAnchor(pages)
	require.True(t, ok)
	assert.Equal(t, 2, anchor.Page)
	assert.Equal(t, 500.0, anchor.Y)
}

func TestResolveAnchor_ShortUnderscoreRunIsNotAPlaceholder(t *testing.T) {
	pages := []PageLayout{
		letterPage(1,
			TextLine{Text: "field__name", Top: 200},
			TextLine{Text: "Cordialmente,", Top: 640},
		),
	}

	anchor, ok := ResolveAnchor(pages)
	require.True(t, ok)
	assert.Equal(t, AnchorSalutation, anchor.Source)
	assert.Equal(t, 640.0-salutationGap, anchor.Y)
}

func TestResolveAnchor_SalutationIsCaseInsensitive(t *testing.T) {
	pages := []PageLayout{
		letterPage(1, TextLine{Text: "SINCERELY YOURS,", Top: 700}),
	}

	anchor, ok := ResolveAnchor(pages)
	require.True(t, ok)
	assert.Equal(t, AnchorSalutation, anchor.Source)
	assert.Equal(t, 700.0-salutationGap, anchor.Y)
}

func TestResolveAnchor_FallsBackToLastLineOfFinalPage(t *testing.T) {
	pages := []PageLayout{
		letterPage(1, TextLine{Text: "Body paragraph.", Top: 100}),
		letterPage(2,
			TextLine{Text: "More body.", Top: 90},
			TextLine{Text: "The final paragraph ends here.", Top: 420},
		),
	}

	anchor, ok := ResolveAnchor(pages)
	require.True(t, ok)
	assert.Equal(t, AnchorLastLine, anchor.Source)
	assert.Equal(t, 2, anchor.Page)
	assert.Equal(t, 420.0-lastLineGap, anchor.Y)
}

func TestResolveAnchor_EmptyFinalPageFallsBackToEarlierPage(t *testing.T) {
	pages := []PageLayout{
		letterPage(1, TextLine{Text: "Only content.", Top: 250}),
		letterPage(2),
	}

	anchor, ok := ResolveAnchor(pages)
	require.True(t, ok)
	assert.Equal(t, 1, anchor.Page)
	assert.Equal(t, AnchorLastLine, anchor.Source)
}

func TestResolveAnchor_NoTextAtAll(t *testing.T) {
	_, ok := ResolveAnchor([]PageLayout{letterPage(1), letterPage(2)})
	assert.False(t, ok)

	_, ok = ResolveAnchor(nil)
	assert.False(t, ok)
}
