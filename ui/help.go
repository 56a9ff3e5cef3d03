package ui

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// instructionsMarkdown is the usage guide shown on the landing page
const instructionsMarkdown = `## Instructions

**How to use BrineViz:**

- Upload a spreadsheet in ` + "`.csv`" + `, ` + "`.xls`" + ` or ` + "`.xlsx`" + ` format.
- Select the sheet containing the water quality data.
- Pick a chart to explore the cleaned dataset.

**Data formatting requirements:**

- The **first column** must contain the **parameter names** (e.g. pH, Turbidity).
- The **first row** must contain the **sampling dates** in a consistent format
  (e.g. DD/MM/YYYY or MM/YYYY).
- Any value with a '<' sign (e.g. '<0.1') is below the detection limit and is
  treated as **0**.
- Blank cells are filled as **0**.
- Multiple sheets are supported - select the correct sheet after upload.

**Features:**

- Clean and standardise the uploaded dataset.
- Scatter plots between two water quality parameters.
- Time series trends for one or more parameters.
- Parameter ratios over time.

**Output tips:**

- Sampling dates are shown in **MM-YY** style on chart axes.
- Duplicate dates or parameters are merged using the **mean** value.
- The mean-fill behaviour can be switched to exclude censored/blank readings
  via the session options.
`

// renderHelpHTML converts the instructions to HTML once at startup
func renderHelpHTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(instructionsMarkdown), p, renderer)
}
