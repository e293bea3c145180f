package testing

import (
	"fmt"
	"math/rand"
	"testing"
)

// RunEntryMapBenchmarks runs all benchmarks for an entry map implementation
func RunEntryMapBenchmarks(b *testing.B, name string, factory EntryMapFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			m := factory()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					m.Set(fmt.Sprintf("key-%d", i%1000), i)
					i++
				}
			})
		})

		b.Run("Get", func(b *testing.B) {
			m := factory()
			for i := 0; i < 1000; i++ {
				m.Set(fmt.Sprintf("key-%d", i), i)
			}
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				r := rand.New(rand.NewSource(rand.Int63()))
				for pb.Next() {
					m.Get(fmt.Sprintf("key-%d", r.Intn(1000)))
				}
			})
		})

		b.Run("Remove", func(b *testing.B) {
			m := factory()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				key := fmt.Sprintf("key-%d", i)
				m.Set(key, i)
				m.Remove(key)
			}
		})

		b.Run("Snapshot", func(b *testing.B) {
			m := factory()
			for i := 0; i < 10000; i++ {
				m.Set(fmt.Sprintf("key-%d", i), i)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = m.Snapshot()
			}
		})

		b.Run("MixedUsage", func(b *testing.B) {
			m := factory()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				r := rand.New(rand.NewSource(rand.Int63()))
				for pb.Next() {
					key := fmt.Sprintf("key-%d", r.Intn(1000))
					switch r.Intn(4) {
					case 0:
						m.Set(key, key)
					case 1:
						m.Remove(key)
					default:
						m.Get(key)
					}
				}
			})
		})
	})
}
