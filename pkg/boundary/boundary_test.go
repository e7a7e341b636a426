package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func freshCycle() *[256]uint8 {
	var c [256]uint8
	for i := range c {
		c[i] = Sentinel
	}
	return &c
}

// cycleToSlice walks the cycle starting at head and returns the sequence of
// plane indices visited, stopping once it returns to head (or bailing out
// after n steps to avoid an infinite loop on a malformed cycle).
func cycleToSlice(cycle *[256]uint8, head uint8, n int) []uint8 {
	out := []uint8{head}
	cur := head
	for i := 0; i < n+1; i++ {
		next := cycle[cur]
		if next == Sentinel {
			return out
		}
		if next == head {
			return out
		}
		out = append(out, next)
		cur = next
	}
	return out
}

func TestComputeS2Scenario(t *testing.T) {
	base := []Triangle{
		{P0: 2, P1: 5, P2: 0},
		{P0: 5, P1: 3, P2: 0},
		{P0: 1, P1: 5, P2: 2},
		{P0: 5, P1: 1, P2: 3},
	}

	perms := permutations(base)
	assert.Len(t, perms, 24)

	for pi, perm := range perms {
		cycle := freshCycle()
		triangles := append([]Triangle{}, perm...)
		head, status := Compute(triangles, cycle)
		assert.Equal(t, Success, status, "permutation %d: %v", pi, perm)

		got := cycleToSlice(cycle, head, 4)
		assert.ElementsMatch(t, []uint8{0, 1, 2, 3}, got, "permutation %d: %v", pi, perm)

		// The four nodes must form one simple closed cycle; which node head
		// lands on depends on the permutation order, and the successor
		// order itself is not compared against 0->2->1->3->0 here.
		assertSingleCycleOfFour(t, cycle, got)
	}
}

func assertSingleCycleOfFour(t *testing.T, cycle *[256]uint8, nodes []uint8) {
	t.Helper()
	if len(nodes) != 4 {
		t.Fatalf("expected a 4-node cycle, got %v", nodes)
	}
	seen := map[uint8]bool{}
	cur := nodes[0]
	for i := 0; i < 4; i++ {
		if seen[cur] {
			t.Fatalf("cycle revisits node %d before completing: %v", cur, nodes)
		}
		seen[cur] = true
		cur = cycle[cur]
	}
	if cur != nodes[0] {
		t.Fatalf("cycle does not close back to start: ended at %d, want %d", cur, nodes[0])
	}
}

func permutations(in []Triangle) [][]Triangle {
	if len(in) <= 1 {
		return [][]Triangle{append([]Triangle{}, in...)}
	}
	var out [][]Triangle
	for i := range in {
		rest := make([]Triangle, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			full := append([]Triangle{in[i]}, p...)
			out = append(out, full)
		}
	}
	return out
}

func TestComputeEmptyIsUnreachable(t *testing.T) {
	cycle := freshCycle()
	_, status := Compute(nil, cycle)
	assert.Equal(t, Unreachable, status)
}

func TestComputeDisjointTrianglesAreUnreachable(t *testing.T) {
	// Two triangles sharing no edges at all (disjoint plane indices) cannot
	// be reconciled into one cycle.
	cycle := freshCycle()
	removed := []Triangle{
		{P0: 0, P1: 1, P2: 2},
		{P0: 10, P1: 11, P2: 12},
	}
	_, status := Compute(removed, cycle)
	assert.Equal(t, Unreachable, status)
}
