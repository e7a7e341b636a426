// Package cc implements the convex-cell clipping engine: starting from the
// axis-aligned unit cube, it clips the cell by the perpendicular-bisector
// plane of each candidate neighbor in turn, stopping early once the
// security radius guarantees no further neighbor can contribute a face.
//
// Cell is sized to fixed per-point capacities (p_max planes, t_max
// triangles) so one Cell value can be reused, unchanged, across every
// point a worker processes: a fixed scratch struct reset in place
// instead of allocated fresh per point.
package cc

import (
	"fmt"

	"github.com/azybler/votess/pkg/boundary"
	"github.com/azybler/votess/pkg/planes"
	"github.com/azybler/votess/pkg/sradius"
	"github.com/azybler/votess/pkg/status"
)

// MaxPlaneIndex is the largest plane index a Cell can address: plane
// indices are stored as bytes and 0xff is reserved as the boundary
// extractor's sentinel (see pkg/boundary), so a Cell's p_max must never
// exceed this.
const MaxPlaneIndex = 254

// Cell is one point's scratch convex-cell state.
type Cell struct {
	P []planes.Plane
	T []boundary.Triangle

	PSize, TSize, RSize int

	Cycle [256]uint8

	Flags status.Flags
}

// unitCubePlanes and unitCubeTriangles are the initial cell state from
// spec.md §4.3: the six unit-cube half-spaces and their eight corner
// triangles.
var unitCubePlanes = [6]planes.Plane{
	{A: 1, B: 0, C: 0, D: 0},
	{A: -1, B: 0, C: 0, D: 1},
	{A: 0, B: 1, C: 0, D: 0},
	{A: 0, B: -1, C: 0, D: 1},
	{A: 0, B: 0, C: 1, D: 0},
	{A: 0, B: 0, C: -1, D: 1},
}

var unitCubeTriangles = [8]boundary.Triangle{
	{P0: 2, P1: 5, P2: 0},
	{P0: 5, P1: 3, P2: 0},
	{P0: 1, P1: 5, P2: 2},
	{P0: 5, P1: 1, P2: 3},
	{P0: 4, P1: 2, P2: 0},
	{P0: 4, P1: 0, P2: 3},
	{P0: 2, P1: 4, P2: 1},
	{P0: 4, P1: 3, P2: 1},
}

// NewCell allocates a Cell with capacity for pMax planes and tMax
// triangles, seeded to the unit cube. pMax must be <= MaxPlaneIndex.
func NewCell(pMax, tMax int) (*Cell, error) {
	if pMax > MaxPlaneIndex {
		return nil, fmt.Errorf("cc: p_max %d exceeds MaxPlaneIndex %d", pMax, MaxPlaneIndex)
	}
	if pMax < 6 || tMax < 8 {
		return nil, fmt.Errorf("cc: p_max/t_max must be at least 6/8 to hold the initial cube, got %d/%d", pMax, tMax)
	}
	c := &Cell{
		P: make([]planes.Plane, pMax),
		T: make([]boundary.Triangle, tMax),
	}
	c.Reset()
	return c, nil
}

// Reset restores the Cell to the initial unit-cube state, ready for a new
// point. It does not reallocate P or T.
func (c *Cell) Reset() {
	copy(c.P, unitCubePlanes[:])
	copy(c.T, unitCubeTriangles[:])
	c.PSize = 6
	c.TSize = 8
	c.RSize = 0
	c.Flags = 0
	for i := range c.Cycle {
		c.Cycle[i] = boundary.Sentinel
	}
}

// vertex returns the intersection vertex of triangle t's three planes.
func (c *Cell) vertex(t boundary.Triangle) planes.Vec3 {
	return planes.Intersect(c.P[t.P0], c.P[t.P1], c.P[t.P2])
}

// Clip runs one outer-loop iteration of spec.md §4.3: it classifies the
// cell's current triangles against the bisector plane of (query,
// neighbor), removes the ones on the cut-off side, and if any were
// removed, reconstructs the boundary of the hole and stitches new
// triangles fanning from the new plane. dknn receives the plane index the
// neighbor's bisector was assigned to (or boundary.Sentinel if the
// neighbor did not contribute a face).
//
// It returns true if the security radius was reached, at which point the
// caller must stop feeding further neighbors to this Cell.
func (c *Cell) Clip(query, neighbor planes.Vec3, dknn *uint8) (radiusReached bool) {
	*dknn = boundary.Sentinel
	h := planes.Bisect(neighbor, query)

	var s float64
	for i := 0; i < c.TSize; {
		v := c.vertex(c.T[i])
		s = sradius.Update(query, v, s)
		if planes.Eval(h, v) > 0 {
			c.TSize--
			c.T[i], c.T[c.TSize] = c.T[c.TSize], c.T[i]
			c.RSize++
			continue
		}
		i++
	}

	if sradius.IsReached(query, neighbor, s) {
		c.Flags.Set(status.SecurityRadiusReached)
		c.TSize += c.RSize
		c.RSize = 0
		return true
	}

	if c.RSize == 0 {
		// Transient: this neighbor's bisector missed the cell entirely. The
		// bit stays set until the next successful cut clears it (step 5e),
		// so a fatal error set later in the same iteration is never masked.
		c.Flags.Set(status.ErrorNonvalidNeighbor)
		return false
	}

	if c.PSize >= len(c.P) {
		c.Flags.Set(status.ErrorPOverflow)
		c.TSize += c.RSize
		c.RSize = 0
		return false
	}
	c.P[c.PSize] = h
	newPlane := uint8(c.PSize)
	*dknn = newPlane
	c.PSize++

	removed := c.T[c.TSize : c.TSize+c.RSize]
	for i := range c.Cycle {
		c.Cycle[i] = boundary.Sentinel
	}
	head, bstatus := boundary.Compute(removed, &c.Cycle)
	if bstatus == boundary.Unreachable {
		c.Flags.Set(status.ErrorInfiniteBoundary)
		c.Flags.Set(status.ErrorOccurred)
		return false
	}

	cur := head
	for {
		next := c.Cycle[cur]
		if c.TSize >= len(c.T) {
			c.Flags.Set(status.ErrorTOverflow)
			return false
		}
		c.T[c.TSize] = boundary.Triangle{P0: cur, P1: next, P2: newPlane}
		c.TSize++
		cur = next
		if cur == head {
			break
		}
	}
	c.RSize = 0

	c.Flags.Clear(status.ErrorOccurred)
	c.Flags.Clear(status.ErrorNonvalidNeighbor)
	return false
}

// Finalize compacts dknn/knnIDs into the direct-neighbor list: a neighbor
// whose assigned plane no longer appears in any surviving triangle has no
// face in the final cell and is dropped.
func Finalize(c *Cell, knnIDs []uint32, dknn []uint8) []uint32 {
	live := make(map[uint8]bool, c.PSize)
	for i := 0; i < c.TSize; i++ {
		t := c.T[i]
		live[t.P0] = true
		live[t.P1] = true
		live[t.P2] = true
	}

	out := make([]uint32, 0, len(knnIDs))
	for di, plane := range dknn {
		if plane == boundary.Sentinel {
			continue
		}
		if !live[plane] {
			continue
		}
		out = append(out, knnIDs[di])
	}
	return out
}
