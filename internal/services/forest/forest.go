// Package forest implements a bagged ensemble of regression trees.
package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls ensemble fitting.
type Config struct {
	Trees           int   `yaml:"trees" default:"100"`
	MaxDepth        int   `yaml:"max_depth" default:"20"`
	MinSamplesSplit int   `yaml:"min_samples_split" default:"2"`
	Seed            int64 `yaml:"seed" default:"42"`
	Workers         int   `yaml:"workers"`
}

// DefaultConfig returns 100 trees of depth at most 20, seeded with 42.
func DefaultConfig() Config {
	return Config{Trees: 100, MaxDepth: 20, MinSamplesSplit: 2, Seed: 42}
}

// Forest averages the predictions of its trees.
type Forest struct {
	Features int    `json:"features"`
	Trees    []Tree `json:"trees"`
}

var ErrNoSamples = errors.New("forest: no training samples")

// Fit grows cfg.Trees trees in parallel. Tree i is seeded with
// cfg.Seed+i, so results do not depend on scheduling.
func Fit(ctx context.Context, x [][]float64, y []float64, cfg Config) (*Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, ErrNoSamples
	}
	width := len(x[0])
	for i, row := range x {
		if len(row) != width {
			return nil, fmt.Errorf("forest: row %d has %d features, want %d", i, len(row), width)
		}
	}
	if cfg.Trees <= 0 {
		cfg.Trees = 1
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 1
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	f := &Forest{Features: width, Trees: make([]Tree, cfg.Trees)}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < cfg.Trees; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
			f.Trees[i] = fitTree(x, y, cfg, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

// Predict returns the mean tree prediction for x.
func (f *Forest) Predict(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	s := 0.0
	for i := range f.Trees {
		s += f.Trees[i].Predict(x)
	}
	return s / float64(len(f.Trees))
}

// Validate checks every tree against f.Features.
func (f *Forest) Validate() error {
	if f.Features <= 0 || len(f.Trees) == 0 {
		return fmt.Errorf("forest: %d trees over %d features", len(f.Trees), f.Features)
	}
	for i := range f.Trees {
		if err := f.Trees[i].Validate(f.Features); err != nil {
			return fmt.Errorf("forest: tree %d: %w", i, err)
		}
	}
	return nil
}

// PredictAll predicts every row of x.
func (f *Forest) PredictAll(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = f.Predict(row)
	}
	return out
}

// Split shuffles 0..n-1 with seed and cuts off ceil(n*testFrac) indices as
// the hold-out set. At least one index always stays in train; n < 2 yields
// no hold-out.
func Split(n int, testFrac float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	if n < 2 || testFrac <= 0 {
		return perm, nil
	}
	k := int(math.Ceil(float64(n) * testFrac))
	if k >= n {
		k = n - 1
	}
	return perm[k:], perm[:k]
}
