package config

import (
	"testing"
	"time"

	"cityhealth/domain/stats"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Analysis.GeographicLevel != "City" {
		t.Errorf("default level: got %q", cfg.Analysis.GeographicLevel)
	}
	if cfg.Analysis.Linkage != stats.LinkageAverage {
		t.Errorf("default linkage: got %q", cfg.Analysis.Linkage)
	}
	if cfg.Source.FetchTimeout != 60*time.Second {
		t.Errorf("default timeout: got %v", cfg.Source.FetchTimeout)
	}
	if cfg.Analysis.StrictPivot {
		t.Errorf("strict pivot must default off")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CORR_LINKAGE", "complete")
	t.Setenv("GEO_LEVEL", "Census Tract")
	t.Setenv("STRICT_PIVOT", "true")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("TOP_N", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Analysis.Linkage != stats.LinkageComplete {
		t.Errorf("linkage override: got %q", cfg.Analysis.Linkage)
	}
	if cfg.Analysis.GeographicLevel != "Census Tract" {
		t.Errorf("level override: got %q", cfg.Analysis.GeographicLevel)
	}
	if !cfg.Analysis.StrictPivot {
		t.Errorf("strict pivot override lost")
	}
	if cfg.Source.FetchTimeout != 5*time.Second {
		t.Errorf("timeout override: got %v", cfg.Source.FetchTimeout)
	}
	if cfg.Analysis.TopN != 7 {
		t.Errorf("topn override: got %d", cfg.Analysis.TopN)
	}
}

func TestLoad_InvalidLinkage(t *testing.T) {
	t.Setenv("CORR_LINKAGE", "ward")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported linkage")
	}
}

func TestLoad_InvalidDelimiter(t *testing.T) {
	t.Setenv("DATASET_DELIMITER", "||")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for multi-character delimiter")
	}
}
