package recomp

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Translation units at different complexity levels
// ---------------------------------------------------------------------------

// benchUnitSource builds a unit with n sampling rounds, each touching one
// of four textures through sampling, gather, fetch and query instructions.
func benchUnitSource(n int) string {
	var sb strings.Builder
	sb.WriteString(`{"stage": "fragment", "bindings": {"textures": {"0": 0, "1": 1, "2": 2, "3": 3}}, "insts": [`)
	id := 0
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		desc := i % 4
		uv, off := id, id+1
		fmt.Fprintf(&sb, `{"id": %d, "op": "composite_construct_f32x2", "args": [{"f32": %d}, {"f32": 0.5}]},`, uv, i)
		fmt.Fprintf(&sb, `{"id": %d, "op": "composite_construct_u32x2", "args": [{"s32": -1}, {"u32": 1}]},`, off)
		fmt.Fprintf(&sb, `{"id": %d, "op": "image_sample_implicit_lod", "texture": {"type": "Color2D", "descriptor": %d, "bias": true}, "args": [null, {"ref": %d}, {"f32": 0.5}, {"ref": %d}]},`, id+2, desc, uv, off)
		fmt.Fprintf(&sb, `{"id": %d, "op": "image_gather", "texture": {"type": "Color2D", "descriptor": %d, "gather_component": 1}, "args": [null, {"ref": %d}, {"ref": %d}, null]},`, id+3, desc, uv, off)
		fmt.Fprintf(&sb, `{"id": %d, "op": "image_fetch", "texture": {"type": "Color2D", "descriptor": %d}, "args": [null, {"ref": %d}, null, {"u32": 0}, null]},`, id+4, desc, off)
		fmt.Fprintf(&sb, `{"id": %d, "op": "get_sparse_from_op", "args": [{"ref": %d}]},`, id+5, id+4)
		fmt.Fprintf(&sb, `{"id": %d, "op": "image_query_dimensions", "texture": {"type": "Color2D", "descriptor": %d}, "args": [null, {"u32": 0}]}`, id+6, desc)
		id += 7
	}
	sb.WriteString("]}")
	return sb.String()
}

var unitsByComplexity = []struct {
	name   string
	rounds int
}{
	{"small", 1},
	{"medium", 16},
	{"large", 256},
}

func benchUnit(b *testing.B, name string, rounds int) *Unit {
	b.Helper()
	u, err := LoadUnit(strings.NewReader(benchUnitSource(rounds)))
	if err != nil {
		b.Fatalf("load failed: %v", err)
	}
	u.Name = name
	return u
}

// ---------------------------------------------------------------------------
// End-to-End: translation benchmarks by complexity
// ---------------------------------------------------------------------------

// BenchmarkTranslate benchmarks lowering, validation and GLSL emission of
// one unit grouped by complexity.
func BenchmarkTranslate(b *testing.B) {
	for _, uc := range unitsByComplexity {
		b.Run(uc.name, func(b *testing.B) {
			u := benchUnit(b, uc.name, uc.rounds)

			b.ReportAllocs()
			b.ResetTimer()

			var result Result
			for i := 0; i < b.N; i++ {
				var err error
				result, err = Translate(u)
				if err != nil {
					b.Fatalf("translate failed: %v", err)
				}
			}
			runtime.KeepAlive(result)
		})
	}
}

// BenchmarkTranslateAll compares sequential and concurrent batch
// translation.
func BenchmarkTranslateAll(b *testing.B) {
	units := make([]*Unit, 32)
	for i := range units {
		units[i] = benchUnit(b, fmt.Sprintf("unit%d", i), 16)
	}

	for _, jobs := range []int{1, runtime.GOMAXPROCS(0)} {
		b.Run(fmt.Sprintf("jobs=%d", jobs), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				results, err := TranslateAll(context.Background(), units, jobs)
				if err != nil {
					b.Fatalf("translate failed: %v", err)
				}
				runtime.KeepAlive(results)
			}
		})
	}
}

// BenchmarkLoadUnit benchmarks JSON decoding only.
func BenchmarkLoadUnit(b *testing.B) {
	source := benchUnitSource(16)
	b.ReportAllocs()
	b.SetBytes(int64(len(source)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		u, err := LoadUnit(strings.NewReader(source))
		if err != nil {
			b.Fatalf("load failed: %v", err)
		}
		runtime.KeepAlive(u)
	}
}

// BenchmarkLower benchmarks building the IR program from a decoded unit.
func BenchmarkLower(b *testing.B) {
	u := benchUnit(b, "lower", 16)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		p, err := u.Lower()
		if err != nil {
			b.Fatalf("lower failed: %v", err)
		}
		runtime.KeepAlive(p)
	}
}
