// Package csvsource loads delimited health-statistics extracts into a
// LongTable. Sources may be local files or HTTP(S) URLs; both go through
// the same row parser.
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"cityhealth/domain/core"
	"cityhealth/domain/table"
)

// Schema declares which source columns feed which Record fields. Column
// names are matched against the header row case-insensitively.
type Schema struct {
	EntityID    string // e.g. "UniqueID" or "TractFIPS"
	MeasureName string // full measure description
	ShortName   string // abbreviated measure name, optional
	Value       string // numeric column; unparsable cells become missing
	Level       string // geographic level column
	StateAbbr   string // optional descriptive column
	CityName    string // optional descriptive column
}

// DefaultSchema matches the CDC 500 Cities / PLACES extract layout
func DefaultSchema() Schema {
	return Schema{
		EntityID:    "UniqueID",
		MeasureName: "Measure",
		ShortName:   "Short_Question_Text",
		Value:       "Data_Value",
		Level:       "GeographicLevel",
		StateAbbr:   "StateAbbr",
		CityName:    "CityName",
	}
}

// Reader loads a delimited dataset from a URL or local path
type Reader struct {
	source     string
	schema     Schema
	comma      rune
	httpClient *http.Client

	// SkippedRows counts rows dropped as malformed during the last Load
	SkippedRows int
}

// Option configures a Reader
type Option func(*Reader)

// WithDelimiter overrides the field delimiter (default comma)
func WithDelimiter(comma rune) Option {
	return func(r *Reader) { r.comma = comma }
}

// WithTimeout bounds the network fetch. Expiry surfaces as ErrSourceUnavailable.
func WithTimeout(d time.Duration) Option {
	return func(r *Reader) { r.httpClient.Timeout = d }
}

// NewReader creates a reader for a data source. Sources starting with
// http:// or https:// are fetched over the network, anything else is
// treated as a local path.
func NewReader(source string, schema Schema, opts ...Option) *Reader {
	r := &Reader{
		source:     source,
		schema:     schema,
		comma:      ',',
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load fetches and parses the source into a LongTable. Rows that do not
// match the header's column count are skipped and counted in SkippedRows;
// unparsable Value cells become explicit missing markers, never errors.
func (r *Reader) Load(ctx context.Context) (table.LongTable, error) {
	body, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return r.parse(body)
}

func (r *Reader) open(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(r.source, "http://") || strings.HasPrefix(r.source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.source, nil)
		if err != nil {
			return nil, core.NewSourceError(r.source, err)
		}
		resp, err := r.httpClient.Do(req)
		if err != nil {
			return nil, core.NewSourceError(r.source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, core.NewSourceError(r.source, fmt.Errorf("status %d", resp.StatusCode))
		}
		return resp.Body, nil
	}

	f, err := os.Open(r.source)
	if err != nil {
		return nil, core.NewSourceError(r.source, err)
	}
	return f, nil
}

func (r *Reader) parse(src io.Reader) (table.LongTable, error) {
	cr := csv.NewReader(src)
	cr.Comma = r.comma
	// Malformed rows are our problem, not the csv package's
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, core.NewSourceError(r.source, fmt.Errorf("reading header: %v", err))
	}

	cols, err := r.resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var out table.LongTable
	r.SkippedRows = 0
	line := 1
	for {
		line++
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			r.skip(core.NewMalformedRecordError(line, err.Error()))
			continue
		}
		if len(row) != len(header) {
			r.skip(core.NewMalformedRecordError(line, fmt.Sprintf("got %d fields, want %d", len(row), len(header))))
			continue
		}
		out = append(out, r.buildRecord(row, cols))
	}
	if r.SkippedRows > 0 {
		log.Printf("[csvsource] skipped %d malformed rows from %s", r.SkippedRows, r.source)
	}
	return out, nil
}

func (r *Reader) skip(err error) {
	r.SkippedRows++
	log.Printf("[csvsource] %v", err)
}

// columnIndexes holds resolved header positions; -1 means absent optional column
type columnIndexes struct {
	entityID, measure, short, value, level, state, city int
}

func (r *Reader) resolveColumns(header []string) (columnIndexes, error) {
	find := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	cols := columnIndexes{
		entityID: find(r.schema.EntityID),
		measure:  find(r.schema.MeasureName),
		short:    find(r.schema.ShortName),
		value:    find(r.schema.Value),
		level:    find(r.schema.Level),
		state:    find(r.schema.StateAbbr),
		city:     find(r.schema.CityName),
	}

	// Only the core columns are required
	for _, req := range []struct {
		name string
		idx  int
	}{
		{r.schema.EntityID, cols.entityID},
		{r.schema.MeasureName, cols.measure},
		{r.schema.Value, cols.value},
		{r.schema.Level, cols.level},
	} {
		if req.idx < 0 {
			return cols, core.NewSourceError(r.source, fmt.Errorf("missing required column %q", req.name))
		}
	}
	return cols, nil
}

func (r *Reader) buildRecord(row []string, cols columnIndexes) table.Record {
	rec := table.Record{
		EntityID:    strings.TrimSpace(row[cols.entityID]),
		MeasureName: strings.TrimSpace(row[cols.measure]),
		Level:       table.GeographicLevel(strings.TrimSpace(row[cols.level])),
		Value:       parseValue(row[cols.value]),
	}
	if cols.short >= 0 {
		rec.ShortName = strings.TrimSpace(row[cols.short])
	}
	if cols.state >= 0 {
		rec.StateAbbr = strings.TrimSpace(row[cols.state])
	}
	if cols.city >= 0 {
		rec.CityName = strings.TrimSpace(row[cols.city])
	}
	return rec
}

func parseValue(raw string) table.Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return table.None()
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return table.None()
	}
	return table.Some(f)
}
