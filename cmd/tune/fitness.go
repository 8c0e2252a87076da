package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/impulse/config"
	"github.com/pthm-cable/impulse/game"
)

// FitnessEvaluator runs headless sandboxes and scores the player controls.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	configPath string

	mu        sync.Mutex
	lastCoins float64 // mean coins from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, configPath string) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		configPath: configPath,
	}
}

// LastCoins returns the mean coins collected in the most recent evaluation.
func (fe *FitnessEvaluator) LastCoins() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastCoins
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	state game.State
	err   error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean score across seeds, with a small penalty per
// jump so equally scoring controls prefer the calmer one.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			state, err := fe.runSimulation(x, s)
			results[idx] = seedResult{state: state, err: err}
		}(i, seed)
	}
	wg.Wait()

	scores := make([]float64, 0, len(results))
	coins := make([]float64, 0, len(results))
	var jumps float64
	for _, r := range results {
		if r.err != nil {
			// Unusable parameters: worst possible fitness.
			return math.Inf(1)
		}
		scores = append(scores, float64(r.state.Score))
		coins = append(coins, float64(r.state.CoinsCollected))
		jumps += float64(r.state.Jumps)
	}

	fe.mu.Lock()
	fe.lastCoins = stat.Mean(coins, nil)
	fe.mu.Unlock()

	return -stat.Mean(scores, nil) + 0.01*jumps/float64(len(results))
}

// runSimulation executes a single headless run for maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (game.State, error) {
	cfg, err := config.Load(fe.configPath)
	if err != nil {
		return game.State{}, err
	}
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGameWithOptions(cfg, game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
	})
	if err != nil {
		return game.State{}, fmt.Errorf("seed %d: %w", seed, err)
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		if err := g.UpdateHeadless(); err != nil {
			return game.State{}, fmt.Errorf("seed %d tick %d: %w", seed, g.Tick(), err)
		}
	}
	return g.State(), nil
}
