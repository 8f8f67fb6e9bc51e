// Package testkit generates deterministic synthetic health-statistics
// tables for tests and the demo pipeline path.
package testkit

import (
	"fmt"
	"math/rand"

	"cityhealth/domain/table"
)

// GeneratorConfig controls the synthetic dataset shape
type GeneratorConfig struct {
	Seed     int64
	Entities int
	States   []string

	// MissingRate is the fraction of cells emitted as missing markers
	MissingRate float64
}

// DefaultConfig returns a small but realistic configuration
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		Entities:    120,
		States:      []string{"TX", "CA", "NY", "FL", "OH"},
		MissingRate: 0.05,
	}
}

// Generator produces long-format tables whose measures carry known
// correlation structure, so downstream assertions have ground truth.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewGenerator creates a generator with a fixed seed
func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Measures emitted by Generate. Obesity and Diabetes are driven by the same
// latent factor (strong positive correlation), Health Insurance runs against
// it (negative correlation), Air Quality is independent noise.
var measureNames = []string{"Obesity", "Diabetes", "Health Insurance", "Air Quality"}

// Generate builds a long table at City level with cfg.Entities cities
func (g *Generator) Generate() table.LongTable {
	var out table.LongTable
	for i := 0; i < g.cfg.Entities; i++ {
		entityID := fmt.Sprintf("city-%04d", i)
		state := g.cfg.States[i%len(g.cfg.States)]
		city := fmt.Sprintf("City %d", i)

		latent := g.rng.NormFloat64()
		values := map[string]float64{
			"Obesity":          30 + 8*latent + g.rng.NormFloat64(),
			"Diabetes":         12 + 4*latent + 0.5*g.rng.NormFloat64(),
			"Health Insurance": 15 - 5*latent + g.rng.NormFloat64(),
			"Air Quality":      50 + 10*g.rng.NormFloat64(),
		}

		for _, name := range measureNames {
			v := table.Some(values[name])
			if g.rng.Float64() < g.cfg.MissingRate {
				v = table.None()
			}
			out = append(out, table.Record{
				EntityID:    entityID,
				MeasureName: name,
				ShortName:   name,
				Value:       v,
				Level:       table.LevelCity,
				StateAbbr:   state,
				CityName:    city,
			})
		}
	}
	return out
}
