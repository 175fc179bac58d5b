package docparse

import "strings"

// latexEscaper escapes the characters LaTeX treats specially inside table
// cells.
var latexEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\~`,
	"^", `\^`,
)

// TableToLaTeX renders table rows as a LaTeX tabular block with centered
// columns and a rule between every row. The column count comes from the
// first row. Empty tables render as an empty string.
func TableToLaTeX(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	colFormat := "|" + strings.Repeat("c|", len(rows[0]))
	lines := []string{
		`\begin{tabular}{` + colFormat + `}`,
		`\hline`,
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = latexEscaper.Replace(strings.TrimSpace(cell))
		}
		lines = append(lines, strings.Join(cells, " & ")+` \\\\`)
		lines = append(lines, `\hline`)
	}

	lines = append(lines, `\end{tabular}`)
	return strings.Join(lines, "\n")
}
