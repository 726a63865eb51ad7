package dbscan

import "gonum.org/v1/gonum/floats"

// bruteIndex answers eps-neighborhood queries by exhaustive pairwise
// comparison. Exact answers are the contract; for the matrix sizes this
// package sees (hundreds to low thousands of rows) brute force is fine.
type bruteIndex struct {
	data [][]float64
	eps  float64
}

func newBruteIndex(data [][]float64, eps float64) *bruteIndex {
	return &bruteIndex{data: data, eps: eps}
}

// Neighbors returns the indices within eps of point p, in row order.
// The boundary is inclusive and p is always part of its own neighborhood.
func (ix *bruteIndex) Neighbors(p int) []int {
	var out []int
	for q := range ix.data {
		if floats.Distance(ix.data[p], ix.data[q], 2) <= ix.eps {
			out = append(out, q)
		}
	}
	return out
}
