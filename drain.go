package splitsort

import "golang.org/x/sync/errgroup"

// drain lays the partitions' trees end to end into one ascending array.
// A sequential prefix sum over the per-partition node counts fixes each
// partition's output offset, after which every partition drains in
// parallel into its own disjoint range.
func (s *Sorter) drain() []KeyPtrPair {
	offsets := make([]uint64, len(s.partitions))
	var total uint64
	for i := range s.partitions {
		offsets[i] = total
		total += s.partitions[i].nodeCount
	}

	out := make([]KeyPtrPair, total)
	var g errgroup.Group
	g.SetLimit(s.cfg.threads)
	for i := range s.partitions {
		i := i
		g.Go(func() error {
			cursor := offsets[i]
			inorder(s.partitions[i].root, out, &cursor)
			return nil
		})
	}
	// Drain goroutines write disjoint ranges and cannot fail.
	_ = g.Wait()
	return out
}

// inorder emits n's subtree in ascending key order, advancing cursor once
// per node. Recursion depth equals tree height; systematic sampling of
// shuffled input keeps that logarithmic in the partition size. Nearly
// sorted input degenerates to a right chain, which callers avoid by
// shuffling (see the package documentation).
func inorder(n *bstNode, out []KeyPtrPair, cursor *uint64) {
	if n.left != 0 {
		inorder(nodeAt(n.left), out, cursor)
	}
	out[*cursor] = KeyPtrPair{Key: n.key, Record: recordAt(n.record)}
	*cursor++
	if n.right != 0 {
		inorder(nodeAt(n.right), out, cursor)
	}
}
