// Package knn finds, for a query point already binned by pkg/xyzset, its k
// nearest neighbors by walking outward through the uniform grid in
// Chebyshev shells and maintaining a fixed-size max-heap of candidates:
// map the coordinates to a grid cell, then expand outward shell by shell
// until enough candidates are secured.
package knn

import (
	"math"

	"github.com/azybler/votess/pkg/heap"
	"github.com/azybler/votess/pkg/planes"
)

// NoNeighbor marks a heap slot that no candidate ever filled (only possible
// when k >= N-1 and the point cloud has fewer than k other points). The
// reference algorithm leaves such slots as id 0, which is indistinguishable
// from a genuine neighbor at index 0; NoNeighbor avoids that ambiguity.
const NoNeighbor = ^uint32(0)

// Search returns the k nearest neighbors of points[i] (excluding i itself),
// as parallel slices ordered nearest to farthest. ids and offsets are the
// sort artifacts pkg/xyzset.Sort produced for points.
func Search(i uint32, points []planes.Vec3, ids, offsets []uint32, resolution, k int) (heapIDs []uint32, heapPQ []float64) {
	heapIDs = make([]uint32, k)
	heapPQ = make([]float64, k)
	for j := range heapPQ {
		heapIDs[j] = NoNeighbor
		heapPQ[j] = math.Inf(1)
	}

	query := points[i]
	g := resolution
	id := ids[i]
	px := int(id) % g
	py := (int(id) / g) % g
	pz := int(id) / (g * g)

	gl := 1.0 / float64(g)

	for r := 0; r < g; r++ {
		forEachShellCell(px, py, pz, r, g, func(cx, cy, cz int) {
			cell := uint32(cx) + uint32(g)*uint32(cy) + uint32(g)*uint32(g)*uint32(cz)
			for p := offsets[cell]; p < offsets[cell+1]; p++ {
				if p == i {
					continue
				}
				d := planes.DistSq(query, points[p])
				if d < heapPQ[0] {
					heapIDs[0] = p
					heapPQ[0] = d
					heap.MaxHeapify(heapIDs, heapPQ, 0, k, 0)
				}
			}
		})

		if r >= 1 {
			m := nearestWallDist(query, px, py, pz, gl)
			bound := gl*float64(r-1) + m
			if heapPQ[0] < bound*bound {
				break
			}
		}
	}

	heap.Sort(heapIDs, heapPQ, 0, k)
	return heapIDs, heapPQ
}

// forEachShellCell invokes fn for every in-bounds grid cell at Chebyshev
// distance exactly r from (px,py,pz).
func forEachShellCell(px, py, pz, r, g int, fn func(x, y, z int)) {
	if r == 0 {
		fn(px, py, pz)
		return
	}
	for x := px - r; x <= px+r; x++ {
		if x < 0 || x >= g {
			continue
		}
		for y := py - r; y <= py+r; y++ {
			if y < 0 || y >= g {
				continue
			}
			onXYEdge := x == px-r || x == px+r || y == py-r || y == py+r
			for z := pz - r; z <= pz+r; z++ {
				if z < 0 || z >= g {
					continue
				}
				if !onXYEdge && z != pz-r && z != pz+r {
					continue
				}
				fn(x, y, z)
			}
		}
	}
}

// nearestWallDist returns the minimum, over the three axes, of the query's
// distance to the nearer of its own cell's two walls on that axis.
func nearestWallDist(query planes.Vec3, px, py, pz int, gl float64) float64 {
	dx := wallDist(query.X, px, gl)
	dy := wallDist(query.Y, py, gl)
	dz := wallDist(query.Z, pz, gl)
	m := dx
	if dy < m {
		m = dy
	}
	if dz < m {
		m = dz
	}
	return m
}

func wallDist(coord float64, cell int, gl float64) float64 {
	lo := coord - float64(cell)*gl
	hi := float64(cell+1)*gl - coord
	if lo < hi {
		return lo
	}
	return hi
}
