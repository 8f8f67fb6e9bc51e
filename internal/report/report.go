// Package report orchestrates the analysis pipeline and renders its
// artifacts: an HTML page of charts interleaved with prose commentary, and
// an xlsx workbook of the underlying matrices.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/components"
	mstats "github.com/montanaflynn/stats"

	"cityhealth/domain/core"
	"cityhealth/domain/stats"
	"cityhealth/domain/table"
	"cityhealth/internal"
	"cityhealth/internal/aggregate"
	"cityhealth/internal/config"
	"cityhealth/internal/correlation"
	"cityhealth/internal/profile"
	"cityhealth/internal/reshape"
)

// Artifacts describes the outputs of one pipeline run
type Artifacts struct {
	RunID        core.RunID
	ReportPath   string
	WorkbookPath string
	Corr         *stats.CorrelationMatrix
	Ordering     stats.Ordering
}

// runStats feeds the narrative sections
type runStats struct {
	Records          int
	Measures         int
	Entities         int
	CompleteEntities int
	SkippedRows      int
	Level            table.GeographicLevel
	Linkage          stats.Linkage
}

// Generator runs the load-to-render pipeline
type Generator struct {
	cfg    *config.Config
	logger *internal.Logger
}

// NewGenerator creates a report generator
func NewGenerator(cfg *config.Config, logger *internal.Logger) *Generator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Generator{cfg: cfg, logger: logger}
}

// Run executes the full pipeline over a loaded table and writes the report
// and workbook. skippedRows is the malformed-row count from loading, shown
// in the narrative.
func (g *Generator) Run(ctx context.Context, tbl table.LongTable, skippedRows int) (*Artifacts, error) {
	start := time.Now()
	runID := core.NewRunID()
	level := table.GeographicLevel(g.cfg.Analysis.GeographicLevel)

	filtered := reshape.Filter(tbl, reshape.ByLevel(level))
	g.logger.Info("run %s: %d of %d records at level %q", runID, len(filtered), len(tbl), level)
	if len(filtered) == 0 {
		return nil, core.NewInsufficientDataError(fmt.Sprintf("no records at level %q", level))
	}

	wide, err := g.pivot(filtered)
	if err != nil {
		return nil, err
	}

	dense := reshape.DropIncompleteRows(wide)
	g.logger.Info("run %s: %d of %d entities have complete rows", runID, dense.RowCount(), wide.RowCount())

	corr, err := correlation.Compute(dense)
	if err != nil {
		return nil, err
	}
	reordered, ordering, err := correlation.ReorderByClustering(corr, g.cfg.Analysis.Linkage)
	if err != nil {
		return nil, err
	}

	summaries, err := profile.AllColumns(wide)
	if err != nil {
		return nil, err
	}

	rs := runStats{
		Records:          len(filtered),
		Measures:         wide.ColumnCount(),
		Entities:         wide.RowCount(),
		CompleteEntities: dense.RowCount(),
		SkippedRows:      skippedRows,
		Level:            level,
		Linkage:          g.cfg.Analysis.Linkage,
	}

	if err := os.MkdirAll(g.cfg.Output.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	reportPath := filepath.Join(g.cfg.Output.Dir, g.cfg.Output.ReportName)
	if err := g.renderHTML(reportPath, rs, wide, filtered, summaries, reordered); err != nil {
		return nil, err
	}

	workbookPath := filepath.Join(g.cfg.Output.Dir, g.cfg.Output.WorkbookName)
	if err := writeWorkbook(workbookPath, dense, reordered); err != nil {
		return nil, err
	}

	g.logger.Info("run %s: artifacts written in %s", runID, time.Since(start).Round(time.Millisecond))
	return &Artifacts{
		RunID:        runID,
		ReportPath:   reportPath,
		WorkbookPath: workbookPath,
		Corr:         reordered,
		Ordering:     ordering,
	}, nil
}

func (g *Generator) pivot(filtered table.LongTable) (*table.WideMatrix, error) {
	if g.cfg.Analysis.StrictPivot {
		return reshape.PivotWideStrict(filtered)
	}
	return reshape.PivotWide(filtered), nil
}

// renderHTML assembles the chart page and splices the rendered narrative
// into it: prose after <body>, styling before </head>.
func (g *Generator) renderHTML(path string, rs runStats, wide *table.WideMatrix, filtered table.LongTable, summaries []*profile.Summary, corr *stats.CorrelationMatrix) error {
	page := components.NewPage()
	page.PageTitle = "City health measures"

	page.AddCharts(
		newBoxplot(summaries),
		newCorrelationHeatmap(corr),
	)

	focus := g.focusMeasure(wide)
	if focus != "" {
		hist, err := profile.Bin(wide, focus, g.cfg.Analysis.HistogramBins)
		if err == nil {
			page.AddCharts(newHistogram(hist))
		}
		page.AddCharts(newRankedBar(
			fmt.Sprintf("Top entities by %s", focus), focus,
			aggregate.TopEntities(wide, focus, g.cfg.Analysis.TopN),
		))
	}

	if ranked := g.stateShare(filtered, focus); len(ranked) > 0 {
		page.AddCharts(newRankedBar(
			fmt.Sprintf("Share of entities above the overall median %s, by state", focus),
			"share", ranked,
		))
	}

	var buf strings.Builder
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	htmlContent := buf.String()
	prose := buildNarrative(rs, summaries).render()
	htmlContent = strings.Replace(htmlContent, "<body>", "<body>\n"+prose, 1)
	htmlContent = strings.Replace(htmlContent, "</head>", narrativeCSS+"</head>", 1)

	if err := os.WriteFile(path, []byte(htmlContent), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// focusMeasure picks the measure the histogram and rankings spotlight:
// the configured one when present, otherwise the widest-spread column.
func (g *Generator) focusMeasure(wide *table.WideMatrix) string {
	want := g.cfg.Analysis.FocusMeasure
	for _, m := range wide.Measures {
		if m == want {
			return m
		}
	}

	best, bestSpread := "", -1.0
	for _, m := range wide.Measures {
		s, err := profile.Column(wide, m)
		if err != nil {
			continue
		}
		if spread := s.Q75 - s.Q25; spread > bestSpread {
			best, bestSpread = m, spread
		}
	}
	return best
}

// stateShare computes, per state, the share of focus-measure records whose
// value exceeds the overall median (inner-join ratio of grouped counts).
func (g *Generator) stateShare(filtered table.LongTable, focus string) []aggregate.Ranked {
	if focus == "" {
		return nil
	}
	measureRecs := reshape.Filter(filtered, reshape.ByMeasure(focus))
	values := make([]float64, 0, len(measureRecs))
	for _, r := range measureRecs {
		if !r.Value.Missing {
			values = append(values, r.Value.Float)
		}
	}
	if len(values) == 0 {
		return nil
	}
	median := medianOf(values)

	above := reshape.Filter(measureRecs, func(r table.Record) bool {
		return !r.Value.Missing && r.Value.Float > median
	})
	ratios := aggregate.Ratio(
		aggregate.CountBy(above, aggregate.ByState),
		aggregate.CountBy(measureRecs, aggregate.ByState),
	)
	delete(ratios, "")
	return aggregate.TopN(ratios, g.cfg.Analysis.TopN)
}

func medianOf(values []float64) float64 {
	m, err := mstats.Median(values)
	if err != nil {
		return 0
	}
	return m
}
