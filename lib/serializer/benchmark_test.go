package serializer

import (
	"fmt"
	"testing"
)

// benchmarkSnapshots returns snapshots of different shapes for targeted benchmarking
func benchmarkSnapshots() map[string]map[string]any {
	small := map[string]any{"volume": 7, "theme": "dark", "muted": false}

	strings := make(map[string]any, 1000)
	for i := 0; i < 1000; i++ {
		strings[fmt.Sprintf("key-%04d", i)] = fmt.Sprintf("value number %d", i)
	}

	mixed := make(map[string]any, 1000)
	for i := 0; i < 1000; i++ {
		switch i % 4 {
		case 0:
			mixed[fmt.Sprintf("key-%04d", i)] = i
		case 1:
			mixed[fmt.Sprintf("key-%04d", i)] = float64(i) / 3
		case 2:
			mixed[fmt.Sprintf("key-%04d", i)] = []string{"a", "b", "c"}
		default:
			mixed[fmt.Sprintf("key-%04d", i)] = make([]byte, 256)
		}
	}

	return map[string]map[string]any{
		"Small":       small,
		"1000Strings": strings,
		"1000Mixed":   mixed,
	}
}

func BenchmarkSerialize(b *testing.B) {
	for sName, factory := range testSerializers {
		for dName, data := range benchmarkSnapshots() {
			b.Run(sName+"/"+dName, func(b *testing.B) {
				s := factory()
				var size int
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					out, err := s.Serialize(data)
					if err != nil {
						b.Fatal(err)
					}
					size = len(out)
				}
				b.ReportMetric(float64(size), "bytes/op")
			})
		}
	}
}

func BenchmarkDeserialize(b *testing.B) {
	for sName, factory := range testSerializers {
		for dName, data := range benchmarkSnapshots() {
			b.Run(sName+"/"+dName, func(b *testing.B) {
				s := factory()
				raw, err := s.Serialize(data)
				if err != nil {
					b.Fatal(err)
				}
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := s.Deserialize(raw); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
