// Package status holds the per-point error/stop flag bitset the convex-cell
// engine maintains, and a boundary-status sum type.
package status

// Bit identifies one flag in a Flags bitset.
type Bit uint8

const (
	SecurityRadiusReached Bit = iota
	ErrorInfiniteBoundary
	ErrorNonvalidVertices
	ErrorNonvalidNeighbor
	ErrorPOverflow
	ErrorTOverflow
	ErrorOccurred
)

// Flags is a compact bitset over the per-point status bits above. It is
// trivially copyable, matching the scratch-array design spec.md §5 requires
// (no pointers, no heap allocation per work-item).
type Flags uint8

// Set turns bit b on.
func (f *Flags) Set(b Bit) {
	*f |= Flags(1 << b)
}

// Clear turns bit b off.
func (f *Flags) Clear(b Bit) {
	*f &^= Flags(1 << b)
}

// Test reports whether bit b is set.
func (f Flags) Test(b Bit) bool {
	return f&Flags(1<<b) != 0
}

// Fatal reports whether any of the fatal-for-this-point bits are set.
func (f Flags) Fatal() bool {
	return f.Test(ErrorInfiniteBoundary) || f.Test(ErrorPOverflow) || f.Test(ErrorTOverflow)
}

// BoundaryStatus is a success|unreachable sum type with the same two
// outcomes as boundary.Status. boundary.Compute itself returns
// boundary.Status, not this type.
type BoundaryStatus int

const (
	BoundarySuccess BoundaryStatus = iota
	BoundaryUnreachable
)

func (s BoundaryStatus) String() string {
	switch s {
	case BoundarySuccess:
		return "success"
	case BoundaryUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}
