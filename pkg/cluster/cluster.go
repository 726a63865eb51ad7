// Package cluster provides shared types for unsupervised clustering algorithms.
package cluster

// Noise is the label assigned to points that belong to no cluster.
const Noise = -1

// Role classifies a point's position within the density structure.
type Role uint8

const (
	// RoleNoise marks a point not reachable from any core point.
	RoleNoise Role = iota
	// RoleBorder marks a non-core point inside a core point's neighborhood.
	RoleBorder
	// RoleCore marks a point whose neighborhood meets the density threshold.
	RoleCore
)

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case RoleCore:
		return "core"
	case RoleBorder:
		return "border"
	default:
		return "noise"
	}
}

// Clusterer is the common interface for clustering algorithms.
type Clusterer interface {
	// Cluster partitions the rows of data.
	// data is a 2D slice where each row is a sample and each column is a feature.
	Cluster(data [][]float64) (*Result, error)
}

// Result represents one clustering pass over a fixed matrix.
//
// Labels and Roles are index-aligned with the input rows. Unclustered rows
// carry the Noise label. Cluster labels are dense: 0..Count-1, assigned in
// the order clusters were discovered.
type Result struct {
	// Labels is the cluster label per row, or Noise.
	Labels []int
	// Roles is the core/border/noise classification per row.
	Roles []Role
	// Count is the number of clusters found.
	Count int
}

// Members returns the row indices assigned to the given label, in row order.
func (r *Result) Members(label int) []int {
	var members []int
	for i, l := range r.Labels {
		if l == label {
			members = append(members, i)
		}
	}
	return members
}

// Params holds the tunables common to density-based clustering.
type Params struct {
	// Eps is the neighborhood radius in scaled-feature space.
	Eps float64
	// MinPoints is the minimum neighborhood size, including the point
	// itself, required to qualify as a core point.
	MinPoints int
}

// DefaultParams returns the fallback parameters used when estimation
// cannot find a better pair.
func DefaultParams() Params {
	return Params{
		Eps:       0.3,
		MinPoints: 3,
	}
}
