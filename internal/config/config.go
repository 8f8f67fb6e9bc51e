package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"cityhealth/domain/stats"
)

// Config represents the complete application configuration
type Config struct {
	Source   SourceConfig
	Analysis AnalysisConfig
	Output   OutputConfig
}

// SourceConfig holds dataset fetch settings
type SourceConfig struct {
	URL          string        // URL or local path of the delimited extract
	FetchTimeout time.Duration // bound on the network fetch
	Delimiter    string        // field delimiter, default ","
}

// AnalysisConfig holds reshape and correlation settings
type AnalysisConfig struct {
	GeographicLevel string        // rows to keep before pivoting, default "City"
	Linkage         stats.Linkage // clustering linkage for heatmap reordering
	StrictPivot     bool          // fail on duplicate (entity, measure) pairs
	FocusMeasure    string        // measure spotlighted by histogram and rankings
	HistogramBins   int
	TopN            int // entities shown in the ranked bar chart
}

// OutputConfig holds artifact destinations
type OutputConfig struct {
	Dir          string // directory for the HTML report and workbook
	ReportName   string
	WorkbookName string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	linkage, err := stats.ParseLinkage(os.Getenv("CORR_LINKAGE"))
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis configuration: %w", err)
	}

	cfg := &Config{
		Source: SourceConfig{
			URL:          getEnv("DATASET_URL", ""),
			FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 60*time.Second),
			Delimiter:    getEnv("DATASET_DELIMITER", ","),
		},
		Analysis: AnalysisConfig{
			GeographicLevel: getEnv("GEO_LEVEL", "City"),
			Linkage:         linkage,
			StrictPivot:     getEnvBool("STRICT_PIVOT", false),
			FocusMeasure:    getEnv("FOCUS_MEASURE", "Health Insurance"),
			HistogramBins:   getEnvInt("HISTOGRAM_BINS", 20),
			TopN:            getEnvInt("TOP_N", 15),
		},
		Output: OutputConfig{
			Dir:          getEnv("OUTPUT_DIR", "out"),
			ReportName:   getEnv("REPORT_NAME", "report.html"),
			WorkbookName: getEnv("WORKBOOK_NAME", "matrices.xlsx"),
		},
	}

	if len(cfg.Source.Delimiter) != 1 {
		return nil, fmt.Errorf("DATASET_DELIMITER must be a single character, got %q", cfg.Source.Delimiter)
	}
	if cfg.Analysis.HistogramBins < 1 {
		return nil, fmt.Errorf("HISTOGRAM_BINS must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
