package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fastrand"

	"github.com/go-sod/kmeans/internal/cluster"
	"github.com/go-sod/kmeans/internal/httputil"
	"github.com/go-sod/kmeans/internal/integration"
	"github.com/go-sod/kmeans/internal/kmeans"
	"github.com/go-sod/kmeans/internal/scale"
)

type runOptions struct {
	k             int
	seed          int64
	maxIterations int
	runs          int
	standardize   bool
	addr          string
	bearerToken   string
	basicAuth     string
	output        string
	timeout       time.Duration
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run [flags] data.csv",
		Short: "Cluster the rows of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				opts.seed = int64(fastrand.Uint32())
			}
			if opts.output != outputJSON && opts.output != outputYAML {
				return fmt.Errorf("unknown output format %q, expected %s or %s", opts.output, outputJSON, outputYAML)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			features, err := readFeatures(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var res *result
			if opts.addr != "" {
				res, err = runRemote(ctx, &opts, features)
			} else {
				res, err = runLocal(&opts, features)
			}
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts.output, res)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.k, "k", "k", 0, "number of clusters")
	flags.Int64Var(&opts.seed, "seed", 0, "random seed, drawn at random when unset")
	flags.IntVar(&opts.maxIterations, "max-iterations", cluster.DefaultMaxIterations, "iteration cap of the refinement")
	flags.IntVar(&opts.runs, "runs", cluster.DefaultRuns, "independent runs, the lowest inertia wins")
	flags.BoolVar(&opts.standardize, "standardize", false, "z-score every column before clustering")
	flags.StringVar(&opts.addr, "addr", "", "cluster on a kmeans server at this address instead of locally")
	flags.StringVar(&opts.bearerToken, "bearer-token", "", "bearer token sent to the server")
	flags.StringVar(&opts.basicAuth, "basic-auth", "", "user:password sent to the server with basic auth")
	flags.StringVarP(&opts.output, "output", "o", outputJSON, "output format, json or yaml")
	flags.DurationVar(&opts.timeout, "timeout", time.Minute, "request timeout in remote mode")
	_ = cmd.MarkFlagRequired("k")
	return cmd
}

func runLocal(opts *runOptions, features [][]float64) (*result, error) {
	if opts.standardize {
		if _, err := cluster.NewDataset(features); err != nil {
			return nil, err
		}
		features, _ = scale.Standardize(features)
	}

	km, err := cluster.New(
		cluster.WithMaxIterations(opts.maxIterations),
		cluster.WithRuns(opts.runs),
		cluster.WithSeed(opts.seed),
	)
	if err != nil {
		return nil, err
	}
	res, err := km.Cluster(features, opts.k)
	if err != nil {
		return nil, err
	}

	centers := make([][]float64, len(res.Centers))
	for i, c := range res.Centers {
		centers[i] = c.Points()
	}
	return &result{
		ClusterLabels:  res.Labels,
		ClusterCenters: centers,
		ClusterSizes:   res.Sizes,
		Inertia:        res.Inertia,
		Iterations:     res.Iterations,
		Converged:      res.Converged,
		Seed:           opts.seed,
	}, nil
}

func runRemote(ctx context.Context, opts *runOptions, features [][]float64) (*result, error) {
	cfg, err := clientConfig(opts)
	if err != nil {
		return nil, err
	}
	client, err := integration.NewClient(opts.addr, cfg)
	if err != nil {
		return nil, err
	}
	resp, err := client.KMeans(ctx, kmeans.Request{
		Features:      features,
		K:             opts.k,
		Seed:          &opts.seed,
		MaxIterations: &opts.maxIterations,
		Runs:          &opts.runs,
		Standardize:   opts.standardize,
	})
	if err != nil {
		return nil, err
	}
	return &result{
		RunID:          resp.RunID.String(),
		ClusterLabels:  resp.ClusterLabels,
		ClusterCenters: resp.ClusterCenters,
		ClusterSizes:   resp.ClusterSizes,
		Inertia:        resp.Inertia,
		Iterations:     resp.Iterations,
		Converged:      resp.Converged,
		Seed:           resp.Seed,
	}, nil
}

func clientConfig(opts *runOptions) (httputil.HTTPClientConfig, error) {
	cfg := httputil.HTTPClientConfig{BearerToken: opts.bearerToken}
	if opts.basicAuth != "" {
		user, password, ok := strings.Cut(opts.basicAuth, ":")
		if !ok {
			return cfg, fmt.Errorf("basic auth must be user:password")
		}
		cfg.BasicAuth = &httputil.BasicAuth{Username: user, Password: password}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
