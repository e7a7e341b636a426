package xyzset

import (
	"math/rand"
	"testing"

	"github.com/azybler/votess/pkg/planes"
)

func randomPoints(n int, r *rand.Rand) []planes.Vec3 {
	pts := make([]planes.Vec3, n)
	for i := range pts {
		pts[i] = planes.Vec3{X: r.Float64(), Y: r.Float64(), Z: r.Float64()}
	}
	return pts
}

func TestSortFidelity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, resolution := range []int{1, 2, 4, 8} {
		pts := randomPoints(200, r)
		ids, _ := Sort(pts, resolution)

		if err := ValidateIDs(ids); err != nil {
			t.Fatalf("resolution %d: %v", resolution, err)
		}
		for i, p := range pts {
			if got := CellID(p, resolution); got != ids[i] {
				t.Fatalf("resolution %d: point %d cell id mismatch: got %d want %d", resolution, i, ids[i], got)
			}
		}
	}
}

func TestOffsetCorrectness(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	resolution := 4
	numCells := resolution * resolution * resolution
	pts := randomPoints(500, r)
	ids, offsets := Sort(pts, resolution)

	if offsets[0] != 0 {
		t.Fatalf("offsets[0] = %d, want 0", offsets[0])
	}
	if offsets[numCells] != uint32(len(pts)) {
		t.Fatalf("offsets[%d] = %d, want %d", numCells, offsets[numCells], len(pts))
	}

	counts := make([]uint32, numCells)
	for _, id := range ids {
		counts[id]++
	}
	for c := 0; c < numCells; c++ {
		got := offsets[c+1] - offsets[c]
		if got != counts[c] {
			t.Fatalf("cell %d: offset delta %d, want count %d", c, got, counts[c])
		}
	}

	for c := 0; c < numCells; c++ {
		for i := offsets[c]; i < offsets[c+1]; i++ {
			if ids[i] != uint32(c) {
				t.Fatalf("point %d in cell range for %d has id %d", i, c, ids[i])
			}
		}
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cases := []planes.Vec3{
		{X: 0, Y: 0.5, Z: 0.5},
		{X: 1, Y: 0.5, Z: 0.5},
		{X: 0.5, Y: -0.1, Z: 0.5},
		{X: 0.5, Y: 0.5, Z: 1.1},
	}
	for _, p := range cases {
		if err := Validate([]planes.Vec3{p}); err == nil {
			t.Fatalf("expected validation error for point %v", p)
		}
	}
	if err := Validate([]planes.Vec3{{X: 0.1, Y: 0.9, Z: 0.5}}); err != nil {
		t.Fatalf("unexpected error for in-range point: %v", err)
	}
}
