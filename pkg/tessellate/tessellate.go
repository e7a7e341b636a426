// Package tessellate drives the per-point kNN + convex-cell pipeline over
// a whole point cloud and assembles the result into a ragged adjacency
// structure. It offers two Backend implementations — a multi-threaded
// host pool and a simulated data-parallel device dispatch — behind one
// interface, so callers can swap the concrete engine without touching
// the driver logic.
package tessellate

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/azybler/votess/pkg/adjacency"
	"github.com/azybler/votess/pkg/cc"
	"github.com/azybler/votess/pkg/config"
	"github.com/azybler/votess/pkg/knn"
	"github.com/azybler/votess/pkg/planes"
	"github.com/azybler/votess/pkg/status"
	"github.com/azybler/votess/pkg/xyzset"
)

// Stats aggregates per-point outcomes across a whole Run, the driver-side
// counters spec.md §7 calls for instead of any exception crossing a
// work-item boundary.
type Stats struct {
	TotalPoints           int
	SecurityRadiusReached int
	NonvalidNeighbor      int
	InfiniteBoundary      int
	POverflow             int
	TOverflow             int
	Fatal                 int
}

// SuccessRate reports the fraction of points that did not hit a fatal
// per-point error, the quantity cmd/votess's exit-code policy is keyed on.
func (s Stats) SuccessRate() float64 {
	if s.TotalPoints == 0 {
		return 1
	}
	return float64(s.TotalPoints-s.Fatal) / float64(s.TotalPoints)
}

func (s *Stats) record(f status.Flags) {
	if f.Test(status.SecurityRadiusReached) {
		s.SecurityRadiusReached++
	}
	if f.Test(status.ErrorNonvalidNeighbor) {
		s.NonvalidNeighbor++
	}
	if f.Test(status.ErrorInfiniteBoundary) {
		s.InfiniteBoundary++
	}
	if f.Test(status.ErrorPOverflow) {
		s.POverflow++
	}
	if f.Test(status.ErrorTOverflow) {
		s.TOverflow++
	}
	if f.Fatal() {
		s.Fatal++
	}
}

// Backend is the trait-style capability spec.md §9 calls for, replacing
// the source's run-time device-selection branch: concrete implementations
// are HostBackend and DeviceBackend, both producing the same (list, offs)
// structure.
type Backend interface {
	Run(ctx context.Context, points []planes.Vec3, cfg config.Config) (*adjacency.Adjacency, Stats, error)
}

// kernel runs the full §4.2+§4.3 pipeline for one sorted point index and
// returns its compacted direct-neighbor list (as indices into the sorted
// point array) plus the flags its cell accumulated.
func kernel(i uint32, points []planes.Vec3, ids, offsets []uint32, cfg config.Config, cell *cc.Cell) ([]uint32, status.Flags) {
	cell.Reset()

	heapIDs, _ := knn.Search(i, points, ids, offsets, cfg.KNNGridResolution, cfg.K)
	dknn := make([]uint8, len(heapIDs))
	for n := range dknn {
		dknn[n] = 0xff
	}

	query := points[i]
	for n, nid := range heapIDs {
		if nid == knn.NoNeighbor {
			dknn[n] = 0xff
			continue
		}
		if cell.Clip(query, points[nid], &dknn[n]) {
			break
		}
		if cell.Flags.Fatal() {
			break
		}
	}

	return cc.Finalize(cell, heapIDs, dknn), cell.Flags
}

// HostBackend partitions [0,N) into cfg.CPUNThreads contiguous ranges
// (0 meaning runtime.NumCPU()) and runs them concurrently with
// errgroup.WithContext + g.Go/g.Wait, a bounded fan-out over a known-size
// unit of work rather than a pool of long-running services.
type HostBackend struct{}

func (HostBackend) Run(ctx context.Context, points []planes.Vec3, cfg config.Config) (*adjacency.Adjacency, Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Stats{}, fmt.Errorf("tessellate: %w", err)
	}
	if err := xyzset.Validate(points); err != nil {
		return nil, Stats{}, fmt.Errorf("tessellate: %w", err)
	}

	ids, offsets := xyzset.Sort(points, cfg.KNNGridResolution)

	n := len(points)
	results := make([][]uint32, n)
	flags := make([]status.Flags, n)

	workers := cfg.CPUNThreads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		g.Go(func() error {
			cell, err := cc.NewCell(cfg.CCPMaxSize, cfg.CCTMaxSize)
			if err != nil {
				return err
			}
			for i := start; i < end; i++ {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				neighbors, f := kernel(uint32(i), points, ids, offsets, cfg, cell)
				results[i] = neighbors
				flags[i] = f
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, fmt.Errorf("tessellate: %w", err)
	}

	return assemble(results, flags)
}

// DeviceBackend models a single data-parallel kernel launch: every point
// is one work-item, handed out one index at a time over a channel to a
// pool of cfg.GPUNDSize worker goroutines (the local range, capped at N),
// so the dispatch granularity differs from HostBackend even though both
// run the identical per-point kernel. Scratch is one cc.Cell per worker,
// allocated before the launch rather than per point; it has the same
// cc.Cell layout HostBackend uses, not a structure-of-arrays layout.
type DeviceBackend struct{}

func (DeviceBackend) Run(ctx context.Context, points []planes.Vec3, cfg config.Config) (*adjacency.Adjacency, Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Stats{}, fmt.Errorf("tessellate: %w", err)
	}
	if err := xyzset.Validate(points); err != nil {
		return nil, Stats{}, fmt.Errorf("tessellate: %w", err)
	}

	ids, offsets := xyzset.Sort(points, cfg.KNNGridResolution)

	n := len(points)
	results := make([][]uint32, n)
	flags := make([]status.Flags, n)

	localRange := cfg.GPUNDSize
	if localRange < 1 {
		localRange = 1
	}
	if localRange > n {
		localRange = n
	}

	cells := make([]*cc.Cell, localRange)
	for w := range cells {
		c, err := cc.NewCell(cfg.CCPMaxSize, cfg.CCTMaxSize)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("tessellate: %w", err)
		}
		cells[w] = c
	}

	// No suspension points and no cancellation inside a work-item (spec.md
	// §5): the only join is this WaitGroup, mirroring the barrier implied
	// by kernel completion before the driver reads outputs.
	var wg sync.WaitGroup
	work := make(chan int)

	for w := 0; w < localRange; w++ {
		wg.Add(1)
		go func(cell *cc.Cell) {
			defer wg.Done()
			for i := range work {
				neighbors, f := kernel(uint32(i), points, ids, offsets, cfg, cell)
				results[i] = neighbors
				flags[i] = f
			}
		}(cells[w])
	}

	for i := 0; i < n; i++ {
		work <- i
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, Stats{}, fmt.Errorf("tessellate: %w", err)
	}

	return assemble(results, flags)
}

func assemble(results [][]uint32, flags []status.Flags) (*adjacency.Adjacency, Stats, error) {
	n := len(results)
	listHint := 0
	for _, r := range results {
		listHint += len(r)
	}

	b := adjacency.NewBuilder(n, listHint)
	stats := Stats{TotalPoints: n}
	for i := 0; i < n; i++ {
		if err := b.Add(i, results[i]); err != nil {
			return nil, Stats{}, fmt.Errorf("tessellate: %w", err)
		}
		stats.record(flags[i])
	}

	adj, err := b.Build()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("tessellate: %w", err)
	}
	return adj, stats, nil
}
