package lstore

import (
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
)

// --------------------------------------------------------------------------
// Prometheus metrics (one set per store)
// --------------------------------------------------------------------------

// openStores holds the metric sets of all open stores
var openStores = xsync.NewMapOf[*storeMetrics, struct{}]()

// WriteMetrics writes the metrics of all open stores in Prometheus text format to w.
// Every series carries a store="<name>" label.
func WriteMetrics(w io.Writer) {
	openStores.Range(func(m *storeMetrics, _ struct{}) bool {
		m.set.WritePrometheus(w)
		return true
	})
}

func register(m *storeMetrics) {
	openStores.Store(m, struct{}{})
}

func unregister(m *storeMetrics) {
	openStores.Delete(m)
}

// storeMetrics tracks the persistence activity of one store
type storeMetrics struct {
	set *metrics.Set

	saveTriggers *metrics.Counter
	saves        *metrics.Counter
	saveErrors   *metrics.Counter
	loadErrors   *metrics.Counter
	mutations    *metrics.Counter
	saveDuration *metrics.Histogram

	// sampled distributions for GetInfo
	payloadSizes gometrics.Histogram
	saveLatency  gometrics.Histogram
}

func newStoreMetrics(storeName string, entries func() int) *storeMetrics {
	set := metrics.NewSet()
	name := func(metric string) string {
		return fmt.Sprintf(`%s{store=%q}`, metric, storeName)
	}

	m := &storeMetrics{
		set:          set,
		saveTriggers: set.NewCounter(name("satchel_save_triggers_total")),
		saves:        set.NewCounter(name("satchel_saves_total")),
		saveErrors:   set.NewCounter(name("satchel_save_errors_total")),
		loadErrors:   set.NewCounter(name("satchel_load_errors_total")),
		mutations:    set.NewCounter(name("satchel_mutations_total")),
		saveDuration: set.NewHistogram(name("satchel_save_duration_seconds")),
		payloadSizes: gometrics.NewHistogram(gometrics.NewExpDecaySample(1028, 0.015)),
		saveLatency:  gometrics.NewHistogram(gometrics.NewExpDecaySample(1028, 0.015)),
	}
	set.NewGauge(name("satchel_entries"), func() float64 {
		return float64(entries())
	})
	return m
}

// saved is the OnSaved hook of the saver
func (m *storeMetrics) saved(size int, took time.Duration) {
	m.saves.Inc()
	m.saveDuration.Update(took.Seconds())
	m.payloadSizes.Update(int64(size))
	m.saveLatency.Update(took.Microseconds())
}

// --------------------------------------------------------------------------
// Store info
// --------------------------------------------------------------------------

// Distribution summarizes sampled values
type Distribution struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P99   float64 `json:"p99"`
	Max   int64   `json:"max"`
}

func newDistribution(h gometrics.Histogram) Distribution {
	snap := h.Snapshot()
	ps := snap.Percentiles([]float64{0.5, 0.99})
	return Distribution{
		Count: snap.Count(),
		Mean:  snap.Mean(),
		P50:   ps[0],
		P99:   ps[1],
		Max:   snap.Max(),
	}
}

// Metadata is the type of db.DatabaseInfo.Metadata returned by GetInfo of a local store
type Metadata struct {
	EntryMap interface{} `json:"entry_map"`
	Store    StoreInfo   `json:"store"`
}

// StoreInfo is the store part of the metadata returned by GetInfo
type StoreInfo struct {
	Closed        bool         `json:"closed"`
	Listeners     int          `json:"listeners"`
	Mutations     uint64       `json:"mutations"`
	SaveTriggers  uint64       `json:"save_triggers"`
	Saves         uint64       `json:"saves"`
	SaveErrors    uint64       `json:"save_errors"`
	LoadErrors    uint64       `json:"load_errors"`
	PayloadBytes  Distribution `json:"payload_bytes"`
	SaveLatencyUs Distribution `json:"save_latency_us"`
}

func (m *storeMetrics) info(closed bool, listeners int) StoreInfo {
	return StoreInfo{
		Closed:        closed,
		Listeners:     listeners,
		Mutations:     m.mutations.Get(),
		SaveTriggers:  m.saveTriggers.Get(),
		Saves:         m.saves.Get(),
		SaveErrors:    m.saveErrors.Get(),
		LoadErrors:    m.loadErrors.Get(),
		PayloadBytes:  newDistribution(m.payloadSizes),
		SaveLatencyUs: newDistribution(m.saveLatency),
	}
}
