// Package scale provides feature standardization for clustering input.
package scale

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ErrNotFitted indicates Transform was called before Fit.
var ErrNotFitted = errors.New("scale: scaler not fitted")

// Params holds the per-column statistics computed by a fit. They are
// returned to the caller so summaries can be mapped back to original
// units; nothing is kept in package state between runs.
type Params struct {
	// Mean is the column mean.
	Mean []float64
	// Std is the column population standard deviation.
	Std []float64
	// Constant flags zero-variance columns. Such columns standardize to
	// all zeros and carry no discriminating signal.
	Constant []bool
}

// Standard transforms each feature column to zero mean and unit variance.
// Scaling of a row depends only on column statistics, so the transform is
// deterministic and order-independent.
type Standard struct {
	params Params
	fitted bool
}

// NewStandard creates an unfitted standard scaler.
func NewStandard() *Standard {
	return &Standard{}
}

// Fit computes column means and standard deviations from the full matrix.
func (s *Standard) Fit(data [][]float64) error {
	if len(data) == 0 || len(data[0]) == 0 {
		return errors.New("scale: empty matrix")
	}

	cols := len(data[0])
	for i, row := range data {
		if len(row) != cols {
			return fmt.Errorf("scale: row %d has %d columns, want %d", i, len(row), cols)
		}
	}

	s.params = Params{
		Mean:     make([]float64, cols),
		Std:      make([]float64, cols),
		Constant: make([]bool, cols),
	}

	col := make([]float64, len(data))
	for j := 0; j < cols; j++ {
		for i, row := range data {
			col[i] = row[j]
		}
		s.params.Mean[j] = stat.Mean(col, nil)
		s.params.Std[j] = stat.PopStdDev(col, nil)
		s.params.Constant[j] = s.params.Std[j] == 0
	}

	s.fitted = true
	return nil
}

// Transform standardizes the matrix using the fitted statistics. Constant
// columns are centered and left at zero rather than divided by zero.
func (s *Standard) Transform(data [][]float64) ([][]float64, error) {
	if !s.fitted {
		return nil, ErrNotFitted
	}

	cols := len(s.params.Mean)
	out := make([][]float64, len(data))
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("scale: row %d has %d columns, want %d", i, len(row), cols)
		}
		scaled := make([]float64, cols)
		for j, v := range row {
			if s.params.Constant[j] {
				scaled[j] = 0
				continue
			}
			scaled[j] = (v - s.params.Mean[j]) / s.params.Std[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits on data and returns the scaled matrix along with the
// statistics used.
func (s *Standard) FitTransform(data [][]float64) ([][]float64, Params, error) {
	if err := s.Fit(data); err != nil {
		return nil, Params{}, err
	}
	scaled, err := s.Transform(data)
	if err != nil {
		return nil, Params{}, err
	}
	return scaled, s.params, nil
}

// Params returns the fitted statistics. Only valid after Fit.
func (s *Standard) Params() Params {
	return s.params
}
