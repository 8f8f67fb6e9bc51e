package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"cityhealth/internal/profile"
)

// narrative is the prose commentary interleaved with the charts. Sections
// are authored as Markdown and rendered to HTML when the page is assembled.
type narrative struct {
	sections []string
}

func (n *narrative) addf(format string, args ...interface{}) {
	n.sections = append(n.sections, fmt.Sprintf(format, args...))
}

// render converts all sections to one HTML fragment
func (n *narrative) render() string {
	var sb strings.Builder
	for _, section := range n.sections {
		p := parser.NewWithExtensions(parser.CommonExtensions)
		renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
		sb.WriteString(`<div class="narrative">`)
		sb.Write(markdown.ToHTML([]byte(section), p, renderer))
		sb.WriteString("</div>\n")
	}
	return sb.String()
}

// buildNarrative writes the standing commentary for one pipeline run
func buildNarrative(rs runStats, summaries []*profile.Summary) *narrative {
	n := &narrative{}

	n.addf(`# City health measures, explored

This report walks through a public city health-statistics extract:
**%d** observations across **%d** measures and **%d** geographic units
at the *%s* level.%s`,
		rs.Records, rs.Measures, rs.Entities, rs.Level, skippedNote(rs.SkippedRows))

	n.addf(`## Distributions

The boxplots below summarize each measure across all entities. Wide boxes
mean a measure varies a lot from place to place; tight boxes mean it is
fairly uniform. Of the %d measures, %d have IQR-fence outliers worth a
second look.`, len(summaries), countWithOutliers(summaries))

	n.addf(`## What moves together

The heatmap shows the Pearson correlation between every pair of measures,
computed over the **%d** entities with a complete set of values. Both axes
are reordered by hierarchical clustering (**%s** linkage) on the distance
(1−r)/2, so blocks of mutually correlated measures appear along the
diagonal instead of being scattered by alphabetical accident.`,
		rs.CompleteEntities, rs.Linkage)

	return n
}

func skippedNote(skipped int) string {
	if skipped == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d malformed rows were skipped during loading)", skipped)
}

func countWithOutliers(summaries []*profile.Summary) int {
	n := 0
	for _, s := range summaries {
		if s.Outliers > 0 {
			n++
		}
	}
	return n
}

const narrativeCSS = `
    <style>
        .narrative {
            max-width: 1200px;
            margin: 20px auto;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            line-height: 1.5;
            color: #222;
        }
        .narrative h1 { font-size: 24px; }
        .narrative h2 { font-size: 18px; margin-top: 24px; }
    </style>
`
