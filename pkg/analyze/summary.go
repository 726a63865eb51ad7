package analyze

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ekremc/gosegment/pkg/cluster"
)

// summarize folds a clustering result back onto the unscaled dataset.
// Clusters are ordered by descending size, ties broken by ascending
// label, so output is stable for callers and tests.
func summarize(ds *dataset, res *cluster.Result) ([]ClusterSummary, NoiseSummary) {
	clusters := make([]ClusterSummary, 0, res.Count)
	for label := 0; label < res.Count; label++ {
		members := res.Members(label)
		clusters = append(clusters, ClusterSummary{
			Label:    label,
			Size:     len(members),
			Centroid: centroid(ds, members),
			Members:  memberList(ds, members),
		})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].Size != clusters[j].Size {
			return clusters[i].Size > clusters[j].Size
		}
		return clusters[i].Label < clusters[j].Label
	})

	noiseIdx := res.Members(cluster.Noise)
	noise := NoiseSummary{
		Count:   len(noiseIdx),
		Members: memberList(ds, noiseIdx),
	}

	return clusters, noise
}

// centroid is the arithmetic mean of the members' original feature
// vectors, keyed by feature name. Unscaled units keep the figures
// readable as business values.
func centroid(ds *dataset, members []int) map[string]float64 {
	acc := make([]float64, len(ds.features))
	for _, i := range members {
		floats.Add(acc, ds.rows[i])
	}
	if len(members) > 0 {
		floats.Scale(1/float64(len(members)), acc)
	}

	out := make(map[string]float64, len(ds.features))
	for j, name := range ds.features {
		out[name] = acc[j]
	}
	return out
}

func memberList(ds *dataset, members []int) []Member {
	out := make([]Member, 0, len(members))
	for _, i := range members {
		out = append(out, Member{ID: ds.ids[i], Name: ds.names[i]})
	}
	return out
}
