package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ekremc/gosegment/pkg/analyze"
	"github.com/ekremc/gosegment/pkg/cluster"
	"github.com/ekremc/gosegment/pkg/store"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <customers|products|suppliers|countries>",
		Short: "Run one clustering analysis and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().Float64("eps", 0, "neighborhood radius (0 = estimate from data)")
	cmd.Flags().Int("min-samples", 0, "minimum neighborhood size (0 = estimate from data)")
	_ = viper.BindPFlag("cluster.eps", cmd.Flags().Lookup("eps"))
	_ = viper.BindPFlag("cluster.min_samples", cmd.Flags().Lookup("min-samples"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	domain, err := analyze.ParseDomain(args[0])
	if err != nil {
		return err
	}

	source, err := store.OpenSQLite(viper.GetString("db.path"))
	if err != nil {
		return err
	}
	defer source.Close()

	opts := []analyze.Option{analyze.WithLogger(slog.Default())}

	eps := viper.GetFloat64("cluster.eps")
	minSamples := viper.GetInt("cluster.min_samples")
	if eps > 0 || minSamples > 0 {
		p := cluster.DefaultParams()
		if eps > 0 {
			p.Eps = eps
		}
		if minSamples > 0 {
			p.MinPoints = minSamples
		}
		opts = append(opts, analyze.WithParams(p))
	}

	result, err := analyze.New(source, opts...).Analyze(cmd.Context(), domain)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
