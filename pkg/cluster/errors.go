package cluster

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData indicates fewer valid records than the domain
	// minimum. The caller can recover by supplying more data.
	ErrInsufficientData = errors.New("cluster: not enough valid records")

	// ErrInvalidParameter indicates a non-positive eps or minPoints, or an
	// unknown analysis domain. Caller-fixable, never retried.
	ErrInvalidParameter = errors.New("cluster: invalid parameter")
)

// ExtractionError reports a record whose fields could not be coerced to the
// domain's numeric schema. Individual extraction errors are collected and
// downgraded to an exclusion count rather than aborting the analysis.
type ExtractionError struct {
	// ID identifies the offending record.
	ID string
	// Field is the source field that was missing or invalid.
	Field string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("cluster: record %q: field %q missing or not numeric", e.ID, e.Field)
}
