package splitsort

import (
	"cmp"
	"slices"

	"github.com/kohyida1997/splitsort/internal/pmem"
	"golang.org/x/sync/errgroup"
)

// buildSplitters sorts the samples, carves them into one contiguous range
// per partition, and seeds each partition's tree with its range median.
// After it returns, partition minKeys ascend and every partition holds
// exactly one node (its root) in a fresh arena.
func (s *Sorter) buildSplitters(samples []KeyPtrPair) error {
	slices.SortFunc(samples, func(a, b KeyPtrPair) int {
		return cmp.Compare(a.Key, b.Key)
	})

	n := s.cfg.partitions
	q, r := len(samples)/n, len(samples)%n
	s.partitions = make([]partition, n)
	s.splitters = make([]uint64, n)

	var g errgroup.Group
	g.SetLimit(s.cfg.threads)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return s.seedPartition(i, samples, q, r)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range s.partitions {
		s.splitters[i] = s.partitions[i].minKey
	}
	return nil
}

// sampleRange returns the half-open range of sorted-sample indexes assigned
// to partition i: the first r partitions take q+1 samples, the rest q.
func sampleRange(i, q, r int) (begin, end int) {
	if i < r {
		begin = i * (q + 1)
		return begin, begin + q + 1
	}
	begin = r*(q+1) + (i-r)*q
	return begin, begin + q
}

// seedPartition allocates partition i's first arena and plants its range
// median as the tree root. The midpoint index is biased low, so an
// even-sized range roots at its left-of-center sample.
func (s *Sorter) seedPartition(i int, sortedSamples []KeyPtrPair, q, r int) error {
	begin, end := sampleRange(i, q, r)
	p := &s.partitions[i]
	p.minKey = sortedSamples[begin].Key
	middle := sortedSamples[(begin+end-1)/2]

	a, err := mapArena(arenaPath(s.cfg.arenaPrefix, i, 0), s.nodesPerArena)
	if err != nil {
		return err
	}

	seed := bstNode{key: middle.Key, record: recordAddr(middle.Record)}
	pmem.Copy(a.slotBytes(0), seed.bytes())

	p.root = a.node(0)
	p.arenas = append(p.arenas, a)
	p.curr = a
	p.nodeCount = 1
	return nil
}
