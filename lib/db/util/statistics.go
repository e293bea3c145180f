package util

import "math"

// ShardDistribution describes how evenly the entries of an entry map are spread across its shards
type ShardDistribution struct {
	Shards       int     `json:"shards"`
	Min          int     `json:"min"`
	Max          int     `json:"max"`
	Mean         float64 `json:"mean"`
	StdDeviation float64 `json:"std_deviation"`
	// Quality is 1 for a perfectly even spread and approaches 0 when all entries share one shard
	Quality float64 `json:"quality"`
}

// NewShardDistribution summarizes the entry count of every shard.
// An empty map (or no shards) counts as perfectly distributed.
func NewShardDistribution(sizes []int) ShardDistribution {
	d := ShardDistribution{Shards: len(sizes), Quality: 1}
	if len(sizes) == 0 {
		return d
	}

	d.Min, d.Max = sizes[0], sizes[0]
	total := 0
	for _, size := range sizes {
		total += size
		d.Min = min(d.Min, size)
		d.Max = max(d.Max, size)
	}
	d.Mean = float64(total) / float64(len(sizes))
	if total == 0 {
		return d
	}

	var squares float64
	for _, size := range sizes {
		diff := float64(size) - d.Mean
		squares += diff * diff
	}
	d.StdDeviation = math.Sqrt(squares / float64(len(sizes)))

	// coefficient of variation and min/max ratio weigh equally
	cv := math.Min(1, d.StdDeviation/d.Mean)
	d.Quality = (1-cv)*0.5 + float64(d.Min)/float64(d.Max)*0.5
	return d
}
