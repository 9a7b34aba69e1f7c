package splitsort

import "sync"

// partition is the DRAM descriptor for one key-range bucket: an unbalanced
// BST whose nodes live in the partition's NVM arenas.
//
// minKey and root are fixed at seed time. The remaining fields are guarded
// by mu for the duration of the insert phase; the drain runs only after
// every inserter has quiesced and therefore reads without locking.
type partition struct {
	minKey uint64
	root   *bstNode

	// arenas holds every region belonging to this partition in allocation
	// order; the last entry is the active arena. The list exists so
	// teardown can unmap each region and is never consulted on the hot
	// path.
	arenas    []*arena
	curr      *arena
	nodeCount uint64 // total inserts across all arenas, never reset on roll-over
	mu        sync.Mutex
}

// findPartition returns the greatest index i with splitters[i] <= key.
// splitters is ascending; keys below every splitter fall into partition 0.
func findPartition(key uint64, splitters []uint64) int {
	low, high := 0, len(splitters)-1
	idx := 0
	for low <= high {
		mid := int(uint(low+high) >> 1)
		if key >= splitters[mid] {
			idx = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return idx
}
