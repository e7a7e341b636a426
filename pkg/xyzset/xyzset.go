// Package xyzset bins a 3D point set into a uniform grid: it reorders the
// points by grid cell and returns the per-point cell ids alongside the
// cell-to-index offset table, via the usual count-then-prefix-sum
// construction for turning a sorted key list into a CSR offset table.
package xyzset

import (
	"fmt"
	"sort"

	"github.com/azybler/votess/pkg/planes"
)

// CellID returns the flattened grid-cell id of p under a resolution^3 grid,
// in [0, resolution^3).
func CellID(p planes.Vec3, resolution int) uint32 {
	g := float64(resolution)
	cx := uint32(p.X * g)
	cy := uint32(p.Y * g)
	cz := uint32(p.Z * g)
	return cx + uint32(resolution)*cy + uint32(resolution)*uint32(resolution)*cz
}

// Sort permutes points in place into non-decreasing cell-id order and
// returns the per-point cell ids (ids[i] == CellID(points[i], resolution))
// and the exclusive prefix-sum offset table (length resolution^3+1,
// offsets[resolution^3] == len(points)). The permutation itself is not
// returned: downstream code treats the sorted order as canonical.
func Sort(points []planes.Vec3, resolution int) (ids, offsets []uint32) {
	n := len(points)
	numCells := resolution * resolution * resolution

	type keyed struct {
		id  uint32
		pt  planes.Vec3
		idx int
	}
	entries := make([]keyed, n)
	for i, p := range points {
		entries[i] = keyed{id: CellID(p, resolution), pt: p, idx: i}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].id < entries[j].id
	})

	ids = make([]uint32, n)
	for i, e := range entries {
		points[i] = e.pt
		ids[i] = e.id
	}

	offsets = make([]uint32, numCells+1)
	for _, id := range ids {
		offsets[id+1]++
	}
	for c := 1; c <= numCells; c++ {
		offsets[c] += offsets[c-1]
	}
	offsets[numCells] = uint32(n)

	return ids, offsets
}

// Validate reports an error if any coordinate in points falls outside the
// open unit cube (0,1).
func Validate(points []planes.Vec3) error {
	for i, p := range points {
		if !inOpenUnit(p.X) || !inOpenUnit(p.Y) || !inOpenUnit(p.Z) {
			return fmt.Errorf("point %d: coordinates (%v, %v, %v) not in open unit cube", i, p.X, p.Y, p.Z)
		}
	}
	return nil
}

func inOpenUnit(v float64) bool {
	return v > 0 && v < 1
}

// ValidateIDs reports an error if ids is not non-decreasing.
func ValidateIDs(ids []uint32) error {
	for i := 1; i < len(ids); i++ {
		if ids[i] < ids[i-1] {
			return fmt.Errorf("ids not non-decreasing at index %d: %d < %d", i, ids[i], ids[i-1])
		}
	}
	return nil
}

// ValidateOffsets always succeeds; kept as a named hook (matching the
// reference implementation's placeholder validator) so callers that chain
// id/offset validation don't need a special case for this one.
func ValidateOffsets([]uint32) error {
	return nil
}
