package report

import (
	"fmt"
	"strings"
)

// assetDirName is the workspace subdirectory image assets are staged into.
// Image references in the rendered document are relative to the source file,
// so this name appears in both the document and the workspace layout.
const assetDirName = "uploads"

// latexEscaper neutralizes LaTeX control characters in free text. A single
// Replacer pass substitutes all reserved characters at once, so the
// backslashes introduced by the substitutions are never re-escaped within
// one call. Escaping is not idempotent: escaping already-escaped text
// double-escapes, so callers escape exactly once.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`_`, `\_`,
	`^`, `\^{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes user-supplied text for safe insertion into the
// rendered document.
func EscapeLaTeX(text string) string {
	return latexEscaper.Replace(text)
}

// RenderDocument turns a Data summary into a complete LaTeX document.
// Deterministic given data; performs no I/O.
func RenderDocument(data Data) string {
	var b strings.Builder

	// Preamble.
	b.WriteString("\\documentclass[a4paper]{article}\n")
	b.WriteString("\\usepackage[utf8]{inputenc}\n")
	b.WriteString("\\usepackage{geometry}\n")
	b.WriteString("\\geometry{a4paper, margin=1in}\n")
	b.WriteString("\\usepackage{graphicx}\n")
	b.WriteString("\\usepackage{longtable}\n")
	b.WriteString("\\usepackage{array}\n")
	b.WriteString("\\usepackage[T1]{fontenc}\n")
	b.WriteString("\\usepackage{grffile}\n") // dots and spaces in image filenames
	b.WriteString("\\usepackage{caption}\n") // unnumbered captions via \caption*
	b.WriteString("\\usepackage{hyperref}\n")
	fmt.Fprintf(&b, "\\hypersetup{colorlinks=true, linkcolor=blue, urlcolor=blue, pdftitle={%s}, pdfauthor={labelforge}}\n", EscapeLaTeX(data.Title))

	fmt.Fprintf(&b, "\\title{%s}\n", EscapeLaTeX(data.Title))
	b.WriteString("\\author{labelforge}\n")
	fmt.Fprintf(&b, "\\date{%s}\n", data.ReportDate.Format("January 02, 2006"))

	b.WriteString("\\begin{document}\n")
	b.WriteString("\\maketitle\n")
	b.WriteString("\\begin{abstract}\n")
	b.WriteString("This report summarizes the image classification results.\n")
	b.WriteString("\\end{abstract}\n")
	b.WriteString("\\clearpage\n")

	// Summary statistics.
	b.WriteString("\\section*{Summary Statistics}\n")
	b.WriteString("\\begin{itemize}\n")
	fmt.Fprintf(&b, "    \\item Total Images: %d\n", data.TotalImages)
	fmt.Fprintf(&b, "    \\item Classified Images: %d\n", data.ClassifiedImages)
	fmt.Fprintf(&b, "    \\item Unclassified Images: %d\n", data.UnclassifiedImages)
	b.WriteString("\\end{itemize}\n")

	// Category table. longtable continues across pages; the foot rows mark
	// the continuation.
	b.WriteString("\\section*{Category Details}\n")
	b.WriteString("\\begin{longtable}{|l|r|r|}\n")
	b.WriteString("\\hline\n")
	b.WriteString("\\textbf{Category Name} & \\textbf{Count} & \\textbf{Percentage (\\%)} \\\\\n")
	b.WriteString("\\hline\n")
	b.WriteString("\\endfirsthead\n")
	b.WriteString("\\hline\n")
	b.WriteString("\\multicolumn{3}{|r|}{Continued on next page} \\\\\n")
	b.WriteString("\\hline\n")
	b.WriteString("\\endfoot\n")
	b.WriteString("\\hline\n")
	b.WriteString("\\endlastfoot\n")
	for _, cs := range data.CategoryStats {
		fmt.Fprintf(&b, "%s & %d & %.1f \\\\\n", EscapeLaTeX(cs.CategoryName), cs.Count, cs.Percentage)
	}
	b.WriteString("\\end{longtable}\n")
	b.WriteString("\\clearpage\n")

	// Sample images. Gated on the literal request value, not on whether the
	// sample lists were populated.
	b.WriteString("\\section*{Sample Images}\n")
	if data.SamplesPerCategory > 0 {
		for _, cs := range data.CategoryStats {
			if len(cs.SampleImageIdentifiers) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\\subsection*{%s}\n", EscapeLaTeX("Category: "+cs.CategoryName))
			for _, filename := range cs.SampleImageIdentifiers {
				b.WriteString("\\begin{figure}[h!]\n")
				b.WriteString("  \\centering\n")
				fmt.Fprintf(&b, "  \\includegraphics[width=0.4\\textwidth,height=0.4\\textheight,keepaspectratio]{%s}\n",
					EscapeLaTeX(assetDirName+"/"+filename))
				fmt.Fprintf(&b, "  \\caption*{%s}\n", EscapeLaTeX(filename))
				b.WriteString("\\end{figure}\n")
				b.WriteString("\\vspace{0.5cm}\n")
			}
			b.WriteString("\\clearpage\n")
		}
	} else {
		b.WriteString("Sample image display was not requested (0 samples per category).\n")
	}

	b.WriteString("\\end{document}\n")
	return b.String()
}
