// Package planes implements the half-space and vertex arithmetic the
// convex-cell engine clips against: plane-triple intersection, the
// perpendicular bisector of two points, and the plane dot product.
package planes

import "gonum.org/v1/gonum/spatial/r3"

// Vec3 is a point or direction in 3-space.
type Vec3 = r3.Vec

// Plane represents the half-space a*x + b*y + c*z + d <= 0.
type Plane struct {
	A, B, C, D float64
}

// Dot is the 4-component dot product of two planes' coefficient vectors.
func Dot(p, q Plane) float64 {
	return p.A*q.A + p.B*q.B + p.C*q.C + p.D*q.D
}

// Eval evaluates a plane's half-space function at v, treating v as the
// homogeneous point (v.X, v.Y, v.Z, 1).
func Eval(p Plane, v Vec3) float64 {
	return p.A*v.X + p.B*v.Y + p.C*v.Z + p.D
}

// Bisect returns the perpendicular-bisector plane of segment p-q, oriented
// so that q lies on the plane's non-positive side (H(q) <= 0) and p on its
// positive side.
func Bisect(p, q Vec3) Plane {
	a := p.X - q.X
	b := p.Y - q.Y
	c := p.Z - q.Z
	d := -((p.X*p.X - q.X*q.X) + (p.Y*p.Y - q.Y*q.Y) + (p.Z*p.Z - q.Z*q.Z)) / 2
	return Plane{A: a, B: b, C: c, D: d}
}

// Intersect computes the vertex at the intersection of three planes. If the
// triple product of their normals is zero, the planes are degenerate
// (parallel or coincident normals) and the origin is returned; downstream
// classification decides what to do with it (see DESIGN.md Open Question 1).
func Intersect(p0, p1, p2 Plane) Vec3 {
	n23 := Vec3{
		X: p1.B*p2.C - p1.C*p2.B,
		Y: p1.C*p2.A - p1.A*p2.C,
		Z: p1.A*p2.B - p1.B*p2.A,
	}
	n31 := Vec3{
		X: p2.B*p0.C - p2.C*p0.B,
		Y: p2.C*p0.A - p2.A*p0.C,
		Z: p2.A*p0.B - p2.B*p0.A,
	}
	n12 := Vec3{
		X: p0.B*p1.C - p0.C*p1.B,
		Y: p0.C*p1.A - p0.A*p1.C,
		Z: p0.A*p1.B - p0.B*p1.A,
	}

	tau := p0.A*n23.X + p0.B*n23.Y + p0.C*n23.Z
	if tau == 0 {
		return Vec3{}
	}

	vx := -p0.D*n23.X - p1.D*n31.X - p2.D*n12.X
	vy := -p0.D*n23.Y - p1.D*n31.Y - p2.D*n12.Y
	vz := -p0.D*n23.Z - p1.D*n31.Z - p2.D*n12.Z

	return Vec3{X: vx / tau, Y: vy / tau, Z: vz / tau}
}

// DistSq returns the squared Euclidean distance between two points.
func DistSq(a, b Vec3) float64 {
	d := r3.Sub(a, b)
	return r3.Dot(d, d)
}
