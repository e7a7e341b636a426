package heap

import (
	"math/rand"
	"sort"
	"testing"
)

func buildHeap(ids []uint32, pq []float64, h0, k int) {
	for i := k/2 - 1; i >= 0; i-- {
		MaxHeapify(ids, pq, h0, k, i)
	}
}

func TestMaxHeapifyHeapLaw(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		k := 1 + r.Intn(32)
		ids := make([]uint32, k)
		pq := make([]float64, k)
		for i := range pq {
			ids[i] = uint32(i)
			pq[i] = r.Float64() * 100
		}
		buildHeap(ids, pq, 0, k)

		for i := 0; i < k; i++ {
			l, rr := 2*i+1, 2*i+2
			if l < k && pq[l] > pq[i] {
				t.Fatalf("trial %d: heap law violated at %d -> left %d (%v > %v)", trial, i, l, pq[l], pq[i])
			}
			if rr < k && pq[rr] > pq[i] {
				t.Fatalf("trial %d: heap law violated at %d -> right %d (%v > %v)", trial, i, rr, pq[rr], pq[i])
			}
		}
	}
}

func TestSortProducesAscendingOrder(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	k := 20
	ids := make([]uint32, k)
	pq := make([]float64, k)
	want := make([]float64, k)
	for i := range pq {
		ids[i] = uint32(i)
		pq[i] = r.Float64() * 1000
		want[i] = pq[i]
	}
	buildHeap(ids, pq, 0, k)
	Sort(ids, pq, 0, k)

	sort.Float64s(want)
	for i := 0; i < k; i++ {
		if pq[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v (full: %v vs %v)", i, pq[i], want[i], pq, want)
		}
	}
}

func TestSwapKeepsIDsInLockstep(t *testing.T) {
	ids := []uint32{10, 20, 30}
	pq := []float64{1, 2, 3}
	Swap(ids, pq, 0, 0, 2)
	if ids[0] != 30 || ids[2] != 10 || pq[0] != 3 || pq[2] != 1 {
		t.Fatalf("swap mismatch: ids=%v pq=%v", ids, pq)
	}
}

func TestHeapOffsetIsolation(t *testing.T) {
	// Two logical heaps share one backing array at offsets 0 and 8.
	k := 8
	ids := make([]uint32, 16)
	pq := make([]float64, 16)
	r := rand.New(rand.NewSource(3))
	for h0 := 0; h0 < 16; h0 += 8 {
		for i := 0; i < k; i++ {
			ids[h0+i] = uint32(h0 + i)
			pq[h0+i] = r.Float64() * 50
		}
		buildHeap(ids, pq, h0, k)
	}

	for h0 := 0; h0 < 16; h0 += 8 {
		for i := 0; i < k; i++ {
			l, rr := 2*i+1, 2*i+2
			if l < k && pq[h0+l] > pq[h0+i] {
				t.Fatalf("heap at offset %d violated at %d", h0, i)
			}
			if rr < k && pq[h0+rr] > pq[h0+i] {
				t.Fatalf("heap at offset %d violated at %d", h0, i)
			}
		}
	}
}
