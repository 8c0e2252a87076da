package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// World population at window end
	Bodies        int `csv:"bodies"`
	DynamicBodies int `csv:"dynamic"`
	StaticBodies  int `csv:"static"`
	GridCells     int `csv:"grid_cells"`

	// Physics counters summed over the window
	Steps           int `csv:"steps"`
	CandidatePairs  int `csv:"candidate_pairs"`
	FilteredPairs   int `csv:"filtered_pairs"`
	Collisions      int `csv:"collisions"`
	StaticContacts  int `csv:"static_contacts"`
	DynamicContacts int `csv:"dynamic_contacts"`
	VetoedContacts  int `csv:"vetoed_contacts"`
	ClampedBodies   int `csv:"clamped_bodies"`

	// Broad-phase efficiency: collisions per candidate pair
	PairHitRate float64 `csv:"pair_hit_rate"`

	// Gameplay events during window
	Pickups int `csv:"pickups"`
	Jumps   int `csv:"jumps"`
	Score   int `csv:"score"`

	// Speed distribution over dynamic bodies (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Penetration depth distribution over dynamic bodies
	PenetrationMean float64 `csv:"penetration_mean"`
	PenetrationP90  float64 `csv:"penetration_p90"`
	PenetrationMax  float64 `csv:"penetration_max"`
}

// Distribution summarizes a sample of non-negative values.
type Distribution struct {
	Mean float64
	Std  float64
	P50  float64
	P90  float64
	Max  float64
}

// Summarize computes the mean, sample standard deviation, empirical
// quantiles and maximum of values. values is not modified. An empty sample
// yields the zero Distribution.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:  floats.Max(sorted),
	}
	if n > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("bodies", s.Bodies),
		slog.Int("dynamic", s.DynamicBodies),
		slog.Int("static", s.StaticBodies),
		slog.Int("grid_cells", s.GridCells),
		slog.Int("steps", s.Steps),
		slog.Int("candidate_pairs", s.CandidatePairs),
		slog.Int("filtered_pairs", s.FilteredPairs),
		slog.Int("collisions", s.Collisions),
		slog.Int("static_contacts", s.StaticContacts),
		slog.Int("dynamic_contacts", s.DynamicContacts),
		slog.Int("vetoed_contacts", s.VetoedContacts),
		slog.Int("clamped_bodies", s.ClampedBodies),
		slog.Float64("pair_hit_rate", s.PairHitRate),
		slog.Int("pickups", s.Pickups),
		slog.Int("jumps", s.Jumps),
		slog.Int("score", s.Score),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("penetration_mean", s.PenetrationMean),
		slog.Float64("penetration_p90", s.PenetrationP90),
		slog.Float64("penetration_max", s.PenetrationMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"bodies", s.Bodies,
		"collisions", s.Collisions,
		"static_contacts", s.StaticContacts,
		"dynamic_contacts", s.DynamicContacts,
		"vetoed_contacts", s.VetoedContacts,
		"pair_hit_rate", s.PairHitRate,
		"pickups", s.Pickups,
		"jumps", s.Jumps,
		"score", s.Score,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"penetration_max", s.PenetrationMax,
	)
}
