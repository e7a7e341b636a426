package tessellate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/azybler/votess/pkg/adjacency"
	"github.com/azybler/votess/pkg/planes"
)

func contains(list []uint32, v uint32) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsAll(list []uint32, want []uint32) bool {
	for _, w := range want {
		if !contains(list, w) {
			return false
		}
	}
	return true
}

func sameSet(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uint32]int, len(a))
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
	}
	for _, c := range seen {
		if c != 0 {
			return false
		}
	}
	return true
}

func assertSameAdjacency(t *testing.T, a, b *adjacency.Adjacency) {
	t.Helper()
	if a.NumPoints() != b.NumPoints() {
		t.Fatalf("point count differs: %d vs %d", a.NumPoints(), b.NumPoints())
	}
	for i := 0; i < a.NumPoints(); i++ {
		if !sameSet(a.Neighbors(i), b.Neighbors(i)) {
			t.Fatalf("point %d: neighbors differ: %v vs %v", i, a.Neighbors(i), b.Neighbors(i))
		}
	}
}

func randomCloudT(t *testing.T, n int, seed int64) []planes.Vec3 {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	points := make([]planes.Vec3, n)
	for i := range points {
		points[i] = planes.Vec3{X: r.Float64(), Y: r.Float64(), Z: r.Float64()}
	}
	return points
}

// fibonacciSphereT scatters n points on a sphere of the given radius
// centered in the unit cube, using the standard fibonacci-spiral
// construction, then rescales into the open unit cube.
func fibonacciSphereT(n int, radius float64) []planes.Vec3 {
	points := make([]planes.Vec3, n)
	goldenAngle := 2.399963229728653 // pi * (3 - sqrt(5))
	for i := 0; i < n; i++ {
		y := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - y*y)
		theta := goldenAngle * float64(i)
		x := math.Cos(theta) * r
		z := math.Sin(theta) * r
		points[i] = planes.Vec3{
			X: 0.5 + 0.5*radius*x,
			Y: 0.5 + 0.5*radius*y,
			Z: 0.5 + 0.5*radius*z,
		}
	}
	return points
}
