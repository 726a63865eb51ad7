package dbscan

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ekremc/gosegment/pkg/cluster"
)

// Parameter search bounds for EstimateParams.
const (
	minPointsLow  = 2
	minPointsHigh = 10
)

// EstimateParams searches for an eps/minPoints pair suited to the given
// scaled matrix. For each candidate minPoints it estimates eps from the
// knee of the sorted k-distance curve, clusters, and scores the labeling
// with the mean silhouette coefficient; the best-scoring pair wins.
// Candidates that produce fewer than two clusters are skipped. When no
// candidate survives, the stock defaults are returned.
func EstimateParams(data [][]float64) cluster.Params {
	best := cluster.DefaultParams()
	bestScore := math.Inf(-1)
	found := false

	for minPts := minPointsLow; minPts <= minPointsHigh; minPts++ {
		if minPts > len(data) {
			break
		}

		eps, ok := estimateEps(data, minPts)
		if !ok {
			continue
		}

		res, err := New(WithEpsilon(eps), WithMinPoints(minPts)).Cluster(data)
		if err != nil || res.Count < 2 {
			continue
		}

		score := silhouette(data, res.Labels, res.Count)
		if score > bestScore {
			bestScore = score
			best = cluster.Params{Eps: eps, MinPoints: minPts}
			found = true
		}
	}

	if !found {
		return cluster.DefaultParams()
	}
	return best
}

// estimateEps picks eps from the elbow of the ascending k-distance curve:
// each point's distance to its k-th nearest neighbor (self included),
// sorted, with the knee taken where the curve sags furthest below the
// chord joining its endpoints.
func estimateEps(data [][]float64, k int) (float64, bool) {
	dists := kDistances(data, k)
	if len(dists) < 3 {
		return 0, false
	}
	sort.Float64s(dists)

	knee, ok := kneeIndex(dists)
	if !ok {
		return 0, false
	}

	eps := dists[knee]
	if eps <= 0 {
		return 0, false
	}
	return eps, true
}

// kDistances returns, for every point, the distance to its k-th nearest
// neighbor, counting the point itself as the first neighbor.
func kDistances(data [][]float64, k int) []float64 {
	n := len(data)
	out := make([]float64, 0, n)
	row := make([]float64, n)

	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			row[q] = floats.Distance(data[p], data[q], 2)
		}
		sorted := make([]float64, n)
		copy(sorted, row)
		sort.Float64s(sorted)
		out = append(out, sorted[k-1])
	}
	return out
}

// kneeIndex finds the elbow of a sorted ascending curve: the index with
// the largest vertical drop below the straight line from the first to the
// last value. A curve that never dips below the chord has no knee.
func kneeIndex(ys []float64) (int, bool) {
	n := len(ys)
	first, last := ys[0], ys[n-1]
	if last <= first {
		return 0, false
	}

	bestIdx, bestGap := 0, 0.0
	for i := 1; i < n-1; i++ {
		chord := first + (last-first)*float64(i)/float64(n-1)
		gap := chord - ys[i]
		if gap > bestGap {
			bestGap = gap
			bestIdx = i
		}
	}

	if bestGap <= 0 {
		return 0, false
	}
	return bestIdx, true
}

// silhouette returns the mean silhouette coefficient over clustered
// points. Noise points are excluded. Requires at least two clusters;
// singleton members score zero.
func silhouette(data [][]float64, labels []int, count int) float64 {
	if count < 2 {
		return 0
	}

	// Member lists per cluster.
	members := make([][]int, count)
	for i, l := range labels {
		if l == cluster.Noise {
			continue
		}
		members[l] = append(members[l], i)
	}

	var total float64
	var scored int

	for i, l := range labels {
		if l == cluster.Noise {
			continue
		}
		if len(members[l]) < 2 {
			scored++
			continue // singleton: s(i) = 0
		}

		a := meanDistance(data, i, members[l], true)

		b := math.Inf(1)
		for c := 0; c < count; c++ {
			if c == l || len(members[c]) == 0 {
				continue
			}
			if d := meanDistance(data, i, members[c], false); d < b {
				b = d
			}
		}

		if max := math.Max(a, b); max > 0 {
			total += (b - a) / max
		}
		scored++
	}

	if scored == 0 {
		return 0
	}
	return total / float64(scored)
}

// meanDistance averages the distance from point i to the listed members,
// skipping i itself when it is one of them.
func meanDistance(data [][]float64, i int, members []int, excludeSelf bool) float64 {
	var sum float64
	var n int
	for _, j := range members {
		if excludeSelf && j == i {
			continue
		}
		sum += floats.Distance(data[i], data[j], 2)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
