package dbscan

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekremc/gosegment/pkg/cluster"
)

// twoBlobs is ten points in two tight groups of five separated by a
// large gap.
func twoBlobs() [][]float64 {
	return [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1}, {0.1, 0.1}, {0.05, 0.05},
		{10, 10}, {10.1, 10}, {10, 10.1}, {10.1, 10.1}, {10.05, 10.05},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		wantEps    float64
		wantMinPts int
	}{
		{
			name:       "default configuration",
			opts:       nil,
			wantEps:    0.3,
			wantMinPts: 3,
		},
		{
			name:       "custom epsilon",
			opts:       []Option{WithEpsilon(1.5)},
			wantEps:    1.5,
			wantMinPts: 3,
		},
		{
			name:       "multiple options",
			opts:       []Option{WithEpsilon(0.7), WithMinPoints(5)},
			wantEps:    0.7,
			wantMinPts: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.opts...)
			assert.Equal(t, tt.wantEps, d.eps)
			assert.Equal(t, tt.wantMinPts, d.minPts)
		})
	}
}

func TestClusterInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "zero eps", opts: []Option{WithEpsilon(0)}},
		{name: "negative eps", opts: []Option{WithEpsilon(-1)}},
		{name: "zero minPoints", opts: []Option{WithMinPoints(0)}},
		{name: "negative minPoints", opts: []Option{WithMinPoints(-3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...).Cluster(twoBlobs())
			assert.ErrorIs(t, err, cluster.ErrInvalidParameter)
		})
	}
}

func TestClusterTwoBlobs(t *testing.T) {
	d := New(WithEpsilon(0.5), WithMinPoints(3))
	res, err := d.Cluster(twoBlobs())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count)
	assert.Len(t, res.Members(0), 5)
	assert.Len(t, res.Members(1), 5)
	assert.Empty(t, res.Members(cluster.Noise))

	for _, role := range res.Roles {
		assert.Equal(t, cluster.RoleCore, role)
	}
}

func TestClusterSingleOutlier(t *testing.T) {
	data := twoBlobs()[:5]
	data = append(data, []float64{100, 100})

	res, err := New(WithEpsilon(0.5), WithMinPoints(3)).Cluster(data)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Count)
	assert.Len(t, res.Members(0), 5)
	assert.Equal(t, []int{5}, res.Members(cluster.Noise))
	assert.Equal(t, cluster.RoleNoise, res.Roles[5])
}

func TestClusterAllNoise(t *testing.T) {
	t.Run("points farther apart than eps", func(t *testing.T) {
		data := [][]float64{{0, 0}, {10, 0}, {0, 10}, {10, 10}}
		res, err := New(WithEpsilon(1), WithMinPoints(2)).Cluster(data)
		require.NoError(t, err)

		assert.Equal(t, 0, res.Count)
		for i, l := range res.Labels {
			assert.Equal(t, cluster.Noise, l)
			assert.Equal(t, cluster.RoleNoise, res.Roles[i])
		}
	})

	t.Run("minPoints exceeds record count", func(t *testing.T) {
		data := twoBlobs()
		res, err := New(WithEpsilon(0.5), WithMinPoints(len(data)+1)).Cluster(data)
		require.NoError(t, err)

		assert.Equal(t, 0, res.Count)
		assert.Len(t, res.Members(cluster.Noise), len(data))
	})
}

func TestClusterSingleGiantCluster(t *testing.T) {
	// Dense, uniform data: one cluster covering everything is valid.
	data := make([][]float64, 50)
	for i := range data {
		data[i] = []float64{float64(i) * 0.1, 0}
	}

	res, err := New(WithEpsilon(0.15), WithMinPoints(3)).Cluster(data)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Count)
	assert.Len(t, res.Members(0), 50)
}

func TestClusterBorderPoints(t *testing.T) {
	// A dense core of four points with one point reachable from the core
	// but itself too sparse to be core.
	data := [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1}, {0.1, 0.1},
		{0.5, 0}, // within 0.5 of {0.1, 0} only via the core
	}

	res, err := New(WithEpsilon(0.45), WithMinPoints(4)).Cluster(data)
	require.NoError(t, err)

	require.Equal(t, 1, res.Count)
	assert.Equal(t, cluster.RoleBorder, res.Roles[4])
	assert.Equal(t, 0, res.Labels[4])
}

func TestClusterDeterminism(t *testing.T) {
	data := randomData(200, 3, 42)

	first, err := New(WithEpsilon(0.8), WithMinPoints(4)).Cluster(data)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := New(WithEpsilon(0.8), WithMinPoints(4)).Cluster(data)
		require.NoError(t, err)
		assert.Equal(t, first.Labels, again.Labels)
		assert.Equal(t, first.Roles, again.Roles)
	}
}

func TestClusterRoleConsistency(t *testing.T) {
	data := randomData(150, 2, 7)
	eps, minPts := 0.5, 4

	res, err := New(WithEpsilon(eps), WithMinPoints(minPts)).Cluster(data)
	require.NoError(t, err)

	index := newBruteIndex(data, eps)
	for i, role := range res.Roles {
		switch role {
		case cluster.RoleCore:
			assert.GreaterOrEqual(t, len(index.Neighbors(i)), minPts, "core point %d", i)
			assert.GreaterOrEqual(t, res.Labels[i], 0)
		case cluster.RoleBorder:
			assert.Less(t, len(index.Neighbors(i)), minPts, "border point %d", i)
			assert.GreaterOrEqual(t, res.Labels[i], 0)
		case cluster.RoleNoise:
			assert.Equal(t, cluster.Noise, res.Labels[i])
		}
	}
}

func TestClusterMonotoneCoarsening(t *testing.T) {
	// Growing eps may merge clusters but never split one: any two points
	// sharing a cluster at eps still share one at a larger eps.
	data := randomData(120, 2, 99)

	small, err := New(WithEpsilon(0.4), WithMinPoints(3)).Cluster(data)
	require.NoError(t, err)
	large, err := New(WithEpsilon(0.8), WithMinPoints(3)).Cluster(data)
	require.NoError(t, err)

	assert.LessOrEqual(t, large.Count, small.Count)

	// No clustered point becomes noise: its core neighbor is still core.
	for i, l := range small.Labels {
		if l != cluster.Noise {
			assert.NotEqual(t, cluster.Noise, large.Labels[i],
				"point %d became noise when eps grew", i)
		}
	}

	// Core points sharing a cluster stay together: the core chain that
	// connected them only gets denser. (A border point between two
	// clusters may legitimately switch sides when both grow toward it.)
	for i := range data {
		if small.Roles[i] != cluster.RoleCore {
			continue
		}
		for j := i + 1; j < len(data); j++ {
			if small.Roles[j] != cluster.RoleCore || small.Labels[i] != small.Labels[j] {
				continue
			}
			assert.Equal(t, large.Labels[i], large.Labels[j],
				"core points %d and %d split apart when eps grew", i, j)
		}
	}
}

func TestClusterEmptyInput(t *testing.T) {
	res, err := New().Cluster(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.Labels)
}

func TestNeighborsInclusiveBoundary(t *testing.T) {
	data := [][]float64{{0, 0}, {3, 4}, {6, 8}} // distances exactly 5
	index := newBruteIndex(data, 5)

	assert.Equal(t, []int{0, 1}, index.Neighbors(0))
	assert.Equal(t, []int{0, 1, 2}, index.Neighbors(1))
	assert.Equal(t, []int{1, 2}, index.Neighbors(2))
}

func BenchmarkCluster(b *testing.B) {
	data := randomData(1000, 4, 42)
	d := New(WithEpsilon(0.5), WithMinPoints(4))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Cluster(data)
	}
}

func randomData(n, features int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	data := make([][]float64, n)
	for i := 0; i < n; i++ {
		data[i] = make([]float64, features)
		for j := 0; j < features; j++ {
			data[i][j] = rng.NormFloat64()
		}
	}
	return data
}
