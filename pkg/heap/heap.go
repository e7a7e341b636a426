// Package heap implements a fixed-capacity max-heap over two parallel
// slices (an id and a priority), addressed through a base offset so many
// per-point heaps can be packed into one shared backing array; knn.Search
// uses one heap per call, based at offset 0. It intentionally does not
// implement container/heap.Interface:
// that interface assumes one heap per slice, not many heaps sharing one.
package heap

// Swap exchanges the elements at local indices a and b of the heap based at
// h0, keeping ids and pq in lockstep.
func Swap(ids []uint32, pq []float64, h0, a, b int) {
	ids[h0+a], ids[h0+b] = ids[h0+b], ids[h0+a]
	pq[h0+a], pq[h0+b] = pq[h0+b], pq[h0+a]
}

// MaxHeapify restores the max-heap property from index i down through its
// descendants, over a heap of size s based at h0.
func MaxHeapify(ids []uint32, pq []float64, h0, s, i int) {
	for {
		largest := i
		l := 2*i + 1
		r := 2*i + 2
		if l < s && pq[h0+l] > pq[h0+largest] {
			largest = l
		}
		if r < s && pq[h0+r] > pq[h0+largest] {
			largest = r
		}
		if largest == i {
			return
		}
		Swap(ids, pq, h0, i, largest)
		i = largest
	}
}

// Sort heap-sorts the k-element max-heap based at h0 into ascending order
// (nearest to farthest, for the kNN distance heaps this backs).
func Sort(ids []uint32, pq []float64, h0, k int) {
	for s := k; s > 1; s-- {
		Swap(ids, pq, h0, 0, s-1)
		MaxHeapify(ids, pq, h0, s-1, 0)
	}
}
