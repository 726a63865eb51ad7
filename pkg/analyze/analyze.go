// Package analyze wires the clustering pipeline per business domain:
// record source, feature extraction, standardization, DBSCAN, and
// cluster summaries. Each call is self-contained; nothing is shared
// between runs, so analyses may execute concurrently.
package analyze

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ekremc/gosegment/pkg/cluster"
	"github.com/ekremc/gosegment/pkg/cluster/dbscan"
	"github.com/ekremc/gosegment/pkg/scale"
	"github.com/ekremc/gosegment/pkg/store"
)

// Domain selects which entity type an analysis runs over.
type Domain string

// Supported analysis domains.
const (
	Customers Domain = "customers"
	Products  Domain = "products"
	Suppliers Domain = "suppliers"
	Countries Domain = "countries"
)

// Domains lists every supported domain.
func Domains() []Domain {
	return []Domain{Customers, Products, Suppliers, Countries}
}

// ParseDomain maps a user-supplied name to a Domain.
func ParseDomain(s string) (Domain, error) {
	switch Domain(s) {
	case Customers, Products, Suppliers, Countries:
		return Domain(s), nil
	}
	return "", fmt.Errorf("%w: unknown domain %q", cluster.ErrInvalidParameter, s)
}

// Parameters echoes the effective DBSCAN parameters in a response.
type Parameters struct {
	Eps       float64 `json:"eps"`
	MinPoints int     `json:"min_samples"`
}

// Member identifies one entity inside a cluster or the noise set.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ClusterSummary is the read-only view of one cluster. Centroid values
// are in original, unscaled units so they read as business figures.
type ClusterSummary struct {
	Label    int                `json:"cluster"`
	Size     int                `json:"size"`
	Centroid map[string]float64 `json:"centroid"`
	Members  []Member           `json:"members"`
}

// NoiseSummary collects the points no cluster reached.
type NoiseSummary struct {
	Count   int      `json:"count"`
	Members []Member `json:"members"`
}

// Result is the payload of one analysis run.
type Result struct {
	Domain           Domain           `json:"domain"`
	Total            int              `json:"total"`
	Excluded         int              `json:"excluded_count"`
	NumClusters      int              `json:"number_of_clusters"`
	OutliersCount    int              `json:"outliers_count"`
	Params           Parameters       `json:"parameters"`
	Features         []string         `json:"features"`
	ConstantFeatures []string         `json:"constant_features,omitempty"`
	Clusters         []ClusterSummary `json:"clusters"`
	Noise            NoiseSummary     `json:"noise"`
}

// Analyzer runs the full pipeline against a record source.
type Analyzer struct {
	source store.Source
	logger *slog.Logger
	params *cluster.Params
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithParams pins eps and minPoints instead of estimating them from the
// data's k-distance curve.
func WithParams(p cluster.Params) Option {
	return func(a *Analyzer) {
		a.params = &p
	}
}

// New creates an Analyzer over the given record source.
func New(source store.Source, opts ...Option) *Analyzer {
	a := &Analyzer{
		source: source,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Analyze runs one clustering pass for the domain and returns the
// summarized result. Parameter and data-sufficiency failures abort the
// call; per-record extraction failures only raise the excluded count.
func (a *Analyzer) Analyze(ctx context.Context, d Domain) (*Result, error) {
	log := a.logger.With("domain", string(d))

	ds, err := a.extract(ctx, d)
	if err != nil {
		return nil, err
	}
	log.Info("features extracted",
		"records", len(ds.rows),
		"excluded", len(ds.excluded),
		"features", ds.features)

	scaled, sp, err := scale.NewStandard().FitTransform(ds.rows)
	if err != nil {
		return nil, fmt.Errorf("analyze: scale %s features: %w", d, err)
	}

	var constant []string
	for j, c := range sp.Constant {
		if c {
			constant = append(constant, ds.features[j])
		}
	}
	if len(constant) > 0 {
		log.Warn("non-discriminating features", "features", constant)
	}

	params := a.clusterParams(scaled)
	log.Info("clustering", "eps", params.Eps, "min_samples", params.MinPoints)

	engine := dbscan.New(
		dbscan.WithEpsilon(params.Eps),
		dbscan.WithMinPoints(params.MinPoints),
	)
	res, err := engine.Cluster(scaled)
	if err != nil {
		return nil, err
	}

	clusters, noise := summarize(ds, res)
	log.Info("analysis complete",
		"clusters", res.Count,
		"outliers", noise.Count)

	return &Result{
		Domain:           d,
		Total:            len(ds.rows),
		Excluded:         len(ds.excluded),
		NumClusters:      res.Count,
		OutliersCount:    noise.Count,
		Params:           Parameters{Eps: params.Eps, MinPoints: params.MinPoints},
		Features:         ds.features,
		ConstantFeatures: constant,
		Clusters:         clusters,
		Noise:            noise,
	}, nil
}

// clusterParams returns pinned parameters when the caller supplied them,
// otherwise estimates a pair from the scaled matrix.
func (a *Analyzer) clusterParams(scaled [][]float64) cluster.Params {
	if a.params != nil {
		return *a.params
	}
	return dbscan.EstimateParams(scaled)
}

func (a *Analyzer) extract(ctx context.Context, d Domain) (*dataset, error) {
	switch d {
	case Customers:
		recs, err := a.source.Customers(ctx)
		if err != nil {
			return nil, fmt.Errorf("analyze: load customers: %w", err)
		}
		return extractCustomers(recs)
	case Products:
		recs, err := a.source.Products(ctx)
		if err != nil {
			return nil, fmt.Errorf("analyze: load products: %w", err)
		}
		return extractProducts(recs)
	case Suppliers:
		recs, err := a.source.Suppliers(ctx)
		if err != nil {
			return nil, fmt.Errorf("analyze: load suppliers: %w", err)
		}
		return extractSuppliers(recs)
	case Countries:
		recs, err := a.source.Countries(ctx)
		if err != nil {
			return nil, fmt.Errorf("analyze: load countries: %w", err)
		}
		return extractCountries(recs)
	}
	return nil, fmt.Errorf("%w: unknown domain %q", cluster.ErrInvalidParameter, d)
}
