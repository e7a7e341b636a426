// Package sradius implements the convex-cell engine's security-radius
// stopping criterion: once the squared distance to the next candidate
// neighbor exceeds four times the largest squared distance from the query
// to any currently known cell vertex, no further neighbor can cut the cell.
package sradius

import "github.com/azybler/votess/pkg/planes"

// Update folds a newly visited vertex into the running security radius,
// returning max(radius, |query-vertex|^2).
func Update(query, vertex planes.Vec3, radius float64) float64 {
	d := planes.DistSq(query, vertex)
	if d > radius {
		return d
	}
	return radius
}

// IsReached reports whether the security radius has been reached for the
// given candidate neighbor: |query-neighbor|^2 > 4*radius.
func IsReached(query, neighbor planes.Vec3, radius float64) bool {
	return planes.DistSq(query, neighbor) > 4*radius
}
