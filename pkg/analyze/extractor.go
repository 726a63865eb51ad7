package analyze

import (
	"database/sql"
	"fmt"

	"github.com/ekremc/gosegment/pkg/cluster"
)

// dataset is an extracted feature matrix with its index-aligned
// identifiers. Every row has len(features) columns and no missing values;
// records that could not be coerced are kept only as ExtractionErrors.
type dataset struct {
	features []string
	minRows  int
	rows     [][]float64
	ids      []string
	names    []string
	excluded []*cluster.ExtractionError
}

func newDataset(features []string, minRows int) *dataset {
	return &dataset{
		features: features,
		minRows:  minRows,
	}
}

// add appends one complete record.
func (ds *dataset) add(id, name string, row []float64) {
	ds.ids = append(ds.ids, id)
	ds.names = append(ds.names, name)
	ds.rows = append(ds.rows, row)
}

// exclude records a per-record extraction failure without aborting.
func (ds *dataset) exclude(id, field string) {
	ds.excluded = append(ds.excluded, &cluster.ExtractionError{ID: id, Field: field})
}

// finish validates the minimum-record threshold once extraction is done.
func (ds *dataset) finish() (*dataset, error) {
	if len(ds.rows) < ds.minRows {
		return nil, fmt.Errorf("%w: %d valid records after %d exclusions, need at least %d",
			cluster.ErrInsufficientData, len(ds.rows), len(ds.excluded), ds.minRows)
	}
	return ds, nil
}

// nullRow converts nullable aggregates to a dense feature vector. On a
// NULL it returns the name of the first missing feature.
func nullRow(features []string, vals ...sql.NullFloat64) ([]float64, string) {
	row := make([]float64, len(vals))
	for i, v := range vals {
		if !v.Valid {
			return nil, features[i]
		}
		row[i] = v.Float64
	}
	return row, ""
}
