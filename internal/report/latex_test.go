package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Cats and Dogs", "Cats and Dogs"},
		{"ampersand", "Black & White", `Black \& White`},
		{"percent", "50% done", `50\% done`},
		{"underscore in filename", "my_image.png", `my\_image.png`},
		{"backslash", `C:\temp`, `C:\textbackslash{}temp`},
		{"braces", "{x}", `\{x\}`},
		{"caret", "x^2", `x\^{}2`},
		{"tilde", "~home", `\textasciitilde{}home`},
		{"dollar and hash", "$5 #1", `\$5 \#1`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLaTeX(tt.in))
		})
	}
}

func TestEscapeLaTeXSinglePass(t *testing.T) {
	// The backslashes introduced by a substitution must not themselves be
	// escaped within the same call.
	assert.Equal(t, `\&`, EscapeLaTeX("&"))
	assert.Equal(t, `\textbackslash{}\&`, EscapeLaTeX(`\&`))

	// Escaping is deliberately not idempotent: a second pass double-escapes.
	once := EscapeLaTeX("_")
	twice := EscapeLaTeX(once)
	assert.NotEqual(t, once, twice)
}

func renderTestData() Data {
	return Data{
		ReportDate:         time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC),
		Title:              "Weekly Report",
		SamplesPerCategory: 2,
		TotalImages:        10,
		ClassifiedImages:   7,
		UnclassifiedImages: 3,
		CategoryStats: []CategoryStat{
			{CategoryName: "Cats", Count: 4, Percentage: 40, SampleImageIdentifiers: []string{"a.jpg", "b.jpg"}},
			{CategoryName: "Dogs", Count: 3, Percentage: 30, SampleImageIdentifiers: []string{"c.jpg"}},
			{CategoryName: "Empty", Count: 0, Percentage: 0},
		},
	}
}

func TestRenderDocumentStructure(t *testing.T) {
	doc := RenderDocument(renderTestData())

	assert.True(t, strings.HasPrefix(doc, "\\documentclass[a4paper]{article}\n"))
	assert.True(t, strings.HasSuffix(doc, "\\end{document}\n"))
	assert.Contains(t, doc, "\\title{Weekly Report}")
	assert.Contains(t, doc, "\\date{March 07, 2026}")
	assert.Contains(t, doc, "\\item Total Images: 10")
	assert.Contains(t, doc, "\\item Classified Images: 7")
	assert.Contains(t, doc, "\\item Unclassified Images: 3")
}

func TestRenderDocumentPercentageFormat(t *testing.T) {
	data := renderTestData()
	data.CategoryStats[0].Percentage = 33.333333

	doc := RenderDocument(data)

	// Exactly one decimal place in the table.
	assert.Contains(t, doc, `Cats & 4 & 33.3 \\`)
	assert.Contains(t, doc, `Dogs & 3 & 30.0 \\`)
}

func TestRenderDocumentSamples(t *testing.T) {
	doc := RenderDocument(renderTestData())

	assert.Contains(t, doc, "\\subsection*{Category: Cats}")
	assert.Contains(t, doc, "\\includegraphics[width=0.4\\textwidth,height=0.4\\textheight,keepaspectratio]{uploads/a.jpg}")
	assert.Contains(t, doc, "\\caption*{c.jpg}")
	// Categories without samples get no subsection.
	assert.NotContains(t, doc, "Category: Empty")
}

func TestRenderDocumentSampleGating(t *testing.T) {
	data := renderTestData()
	// The internally computed sample lists stay populated; rendering is
	// gated on the stored request value alone.
	data.SamplesPerCategory = 0

	doc := RenderDocument(data)

	assert.NotContains(t, doc, "\\includegraphics")
	assert.NotContains(t, doc, "\\subsection*")
	assert.Contains(t, doc, "Sample image display was not requested (0 samples per category).")
}

func TestRenderDocumentEscapesUserText(t *testing.T) {
	data := renderTestData()
	data.Title = `Q1 & Q2 100% _final_`
	data.CategoryStats[0].CategoryName = `R&D #1`
	data.CategoryStats[0].SampleImageIdentifiers = []string{"my_photo 100%.jpg"}

	doc := RenderDocument(data)

	assert.Contains(t, doc, `\title{Q1 \& Q2 100\% \_final\_}`)
	assert.Contains(t, doc, `R\&D \#1 & 4 & 40.0 \\`)
	assert.Contains(t, doc, `\caption*{my\_photo 100\%.jpg}`)
	assert.Contains(t, doc, `{uploads/my\_photo 100\%.jpg}`)
	// Raw reserved characters from user text never appear unescaped.
	assert.NotContains(t, doc, "R&D")
	assert.NotContains(t, doc, "my_photo")
}

func TestRenderDocumentDeterministic(t *testing.T) {
	data := renderTestData()
	require.Equal(t, RenderDocument(data), RenderDocument(data))
}
