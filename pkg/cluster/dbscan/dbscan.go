// Package dbscan implements the DBSCAN density-based clustering algorithm.
//
// DBSCAN groups points that are densely packed in feature space, marks
// sparse points as noise, and discovers the number of clusters on its own.
// Results are deterministic for a fixed input row order: the outer loop
// visits rows in order and neighborhoods expand breadth-first, so repeated
// runs over the same matrix produce identical labels.
package dbscan

import (
	"fmt"

	"github.com/ekremc/gosegment/pkg/cluster"
)

// DBSCAN classifies points as core, border or noise and assigns cluster
// labels by expanding neighborhoods around core points.
type DBSCAN struct {
	eps    float64
	minPts int
}

// Option configures a DBSCAN instance.
type Option func(*DBSCAN)

// WithEpsilon sets the neighborhood radius.
func WithEpsilon(eps float64) Option {
	return func(d *DBSCAN) {
		d.eps = eps
	}
}

// WithMinPoints sets the minimum neighborhood size, including the point
// itself, required to qualify as a core point.
func WithMinPoints(n int) Option {
	return func(d *DBSCAN) {
		d.minPts = n
	}
}

// New creates a DBSCAN instance with the given options.
func New(opts ...Option) *DBSCAN {
	p := cluster.DefaultParams()
	d := &DBSCAN{
		eps:    p.Eps,
		minPts: p.MinPoints,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Params returns the effective parameters.
func (d *DBSCAN) Params() cluster.Params {
	return cluster.Params{Eps: d.eps, MinPoints: d.minPts}
}

// unclassified is the internal label for points not yet visited. It never
// appears in a finished result.
const unclassified = -2

// Cluster runs one DBSCAN pass over the rows of data.
//
// A point whose neighborhood is too sparse is provisionally noise; it is
// reclassified as a border point if a later core point reaches it. Once a
// point carries a cluster label it is never reassigned: the first cluster
// to reach a point wins.
func (d *DBSCAN) Cluster(data [][]float64) (*cluster.Result, error) {
	if d.eps <= 0 {
		return nil, fmt.Errorf("%w: eps must be positive, got %v", cluster.ErrInvalidParameter, d.eps)
	}
	if d.minPts < 1 {
		return nil, fmt.Errorf("%w: minPoints must be at least 1, got %d", cluster.ErrInvalidParameter, d.minPts)
	}

	n := len(data)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unclassified
	}
	roles := make([]cluster.Role, n) // zero value is RoleNoise

	index := newBruteIndex(data, d.eps)
	next := 0

	for p := 0; p < n; p++ {
		if labels[p] != unclassified {
			continue
		}

		neighbors := index.Neighbors(p)
		if len(neighbors) < d.minPts {
			labels[p] = cluster.Noise
			continue
		}

		// p seeds a new cluster.
		id := next
		next++
		labels[p] = id
		roles[p] = cluster.RoleCore

		// Breadth-first expansion over a worklist instead of recursion,
		// so dense clusters cannot exhaust the stack.
		queue := make([]int, len(neighbors))
		copy(queue, neighbors)

		for len(queue) > 0 {
			q := queue[0]
			queue = queue[1:]

			if labels[q] == cluster.Noise {
				// Reached from a core point: noise becomes border.
				labels[q] = id
				roles[q] = cluster.RoleBorder
				continue
			}
			if labels[q] != unclassified {
				continue
			}

			labels[q] = id
			nq := index.Neighbors(q)
			if len(nq) >= d.minPts {
				roles[q] = cluster.RoleCore
				queue = append(queue, nq...)
			} else {
				roles[q] = cluster.RoleBorder
			}
		}
	}

	return &cluster.Result{
		Labels: labels,
		Roles:  roles,
		Count:  next,
	}, nil
}
