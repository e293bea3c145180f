package util_test

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/satchel/lib/db/util"
	"github.com/stretchr/testify/assert"
)

func TestShardHasherIsStable(t *testing.T) {
	h := util.NewShardHasher()
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("key-%d", i)
		assert.Equal(t, h.Hash(key), h.Hash(key))
		pos := h.Position(key, 7)
		assert.Equal(t, pos, h.Position(key, 7))
		assert.GreaterOrEqual(t, pos, 0)
		assert.Less(t, pos, 7)
	}
}

func TestShardHasherSpreadsKeys(t *testing.T) {
	h := util.NewShardHasher()
	sizes := make([]int, 8)
	for i := 0; i < 8000; i++ {
		sizes[h.Position(fmt.Sprintf("key-%d", i), len(sizes))]++
	}
	for shard, size := range sizes {
		assert.Positive(t, size, "shard %d got no keys", shard)
	}
	assert.Greater(t, util.NewShardDistribution(sizes).Quality, 0.8)
}

func TestShardDistribution(t *testing.T) {
	tests := []struct {
		name    string
		sizes   []int
		quality float64
	}{
		{"no shards", nil, 1},
		{"empty shards", []int{0, 0, 0}, 1},
		{"even", []int{5, 5, 5, 5}, 1},
		{"all in one shard", []int{8, 0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := util.NewShardDistribution(tt.sizes)
			assert.Equal(t, len(tt.sizes), d.Shards)
			assert.InDelta(t, tt.quality, d.Quality, 1e-9)
		})
	}

	d := util.NewShardDistribution([]int{2, 4, 6})
	assert.Equal(t, 2, d.Min)
	assert.Equal(t, 6, d.Max)
	assert.InDelta(t, 4.0, d.Mean, 1e-9)
	assert.InDelta(t, 1.632993, d.StdDeviation, 1e-6)
}
