package splitsort

import "github.com/kohyida1997/splitsort/internal/pmem"

// insertAll classifies every record against the splitter table and inserts
// it into its partition's tree. Record chunks are static per worker; the
// interleaving of inserts into any one partition is whatever the mutex
// admits, so tree shape is not deterministic across runs (the drained order
// is).
func (s *Sorter) insertAll() error {
	return forEachChunk(s.cfg.threads, len(s.records), func(start, end int) error {
		for i := start; i < end; i++ {
			rec := &s.records[i]
			if err := s.insert(rec.Key, rec, findPartition(rec.Key, s.splitters)); err != nil {
				return err
			}
		}
		return nil
	})
}

// insert places one record into partition idx. The partition mutex covers
// the whole operation: arena roll-over, tree walk, node store, parent link.
// The mutex release orders the new node before any later acquirer, so no
// further fences are needed for pointer publication.
func (s *Sorter) insert(key uint64, rec *Record, idx int) error {
	p := &s.partitions[idx]
	p.mu.Lock()
	defer p.mu.Unlock()

	// A key equal to the root is dropped. Only the root is checked:
	// duplicates of deeper nodes descend into the left subtree and are
	// kept, so in-order output is ascending but not strictly so.
	if key == p.root.key {
		return nil
	}

	// The counter is monotonic across arenas. At an exact multiple of the
	// arena capacity the active arena is full and a fresh one is mapped
	// before the slot computation below, which then yields slot 0.
	if p.nodeCount > 0 && p.nodeCount%s.nodesPerArena == 0 {
		a, err := mapArena(arenaPath(s.cfg.arenaPrefix, idx, len(p.arenas)), s.nodesPerArena)
		if err != nil {
			return err
		}
		p.arenas = append(p.arenas, a)
		p.curr = a
	}
	slot := p.nodeCount % s.nodesPerArena

	// Walk to the attachment point: right on strictly greater, left
	// otherwise (ties with internal nodes go left).
	cur := p.root
	var link *uint64
	for link == nil {
		if key > cur.key {
			if cur.right == 0 {
				link = &cur.right
			} else {
				cur = nodeAt(cur.right)
			}
		} else {
			if cur.left == 0 {
				link = &cur.left
			} else {
				cur = nodeAt(cur.left)
			}
		}
	}

	// Persist the node, then publish it through the parent link.
	fresh := bstNode{key: key, record: recordAddr(rec)}
	pmem.Copy(p.curr.slotBytes(slot), fresh.bytes())
	*link = nodeAddr(p.curr.node(slot))

	p.nodeCount++
	return nil
}
