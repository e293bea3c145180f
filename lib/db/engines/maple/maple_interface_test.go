package maple

import (
	"github.com/ValentinKolb/satchel/lib/db"
	dbtesting "github.com/ValentinKolb/satchel/lib/db/testing"
	"testing"
)

func Test(t *testing.T) {
	dbtesting.RunEntryMapTests(t, "MapleDB", func() db.IEntryMap {
		return NewMapleDB(nil)
	})
}

func TestSingleShard(t *testing.T) {
	dbtesting.RunEntryMapTests(t, "MapleDB(1 shard)", func() db.IEntryMap {
		return NewMapleDB(&DBOptions{NumShards: 1})
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunEntryMapBenchmarks(b, "MapleDB", func() db.IEntryMap {
		return NewMapleDB(nil)
	})
}
