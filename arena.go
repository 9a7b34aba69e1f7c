package splitsort

import (
	"fmt"
	"unsafe"

	"github.com/kohyida1997/splitsort/internal/pmem"
)

// bstNode is the NVM-resident tree node: a key, the address of its record,
// and the addresses of its children (0 when absent). All three addresses are
// raw virtual addresses into this process's mappings; they are meaningful
// for the lifetime of one sort run only and never leave the process.
type bstNode struct {
	key    uint64
	record uint64
	left   uint64
	right  uint64
}

// nodeSize is the packed per-node footprint inside an arena.
const nodeSize = int(unsafe.Sizeof(bstNode{}))

// arena is one append-only NVM region holding a packed sequence of
// bstNodes, created by mapping a named file of exactly capacity*nodeSize
// bytes. Nodes are written starting at slot 0 and never freed.
type arena struct {
	region   *pmem.Region
	capacity uint64
}

// arenaPath is the deterministic file name for a partition's arena:
// <prefix>_<partitionIndex>_<ordinal>, ordinal counting growths from 0.
func arenaPath(prefix string, partitionIdx, ordinal int) string {
	return fmt.Sprintf("%s_%d_%d", prefix, partitionIdx, ordinal)
}

// mapArena creates and maps a fresh arena of the given node capacity.
// A short mapping would leave tail slots unbacked, so it is an error here
// rather than the warning the input file gets.
func mapArena(path string, capacity uint64) (*arena, error) {
	region, err := pmem.Map(path, int64(capacity)*int64(nodeSize))
	if err != nil {
		return nil, err
	}
	region.Prefault()
	return &arena{region: region, capacity: capacity}, nil
}

// node returns a typed view of the given slot.
func (a *arena) node(slot uint64) *bstNode {
	return (*bstNode)(unsafe.Pointer(&a.region.Data[slot*uint64(nodeSize)]))
}

// slotBytes returns the raw bytes of the given slot, the destination for a
// persistent node store.
func (a *arena) slotBytes(slot uint64) []byte {
	off := slot * uint64(nodeSize)
	return a.region.Data[off : off+uint64(nodeSize)]
}

// bytes exposes a DRAM-side node as the source operand of a persistent copy.
func (n *bstNode) bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(n)), nodeSize)
}

// nodeAddr returns the node's virtual address for linking into a parent.
func nodeAddr(n *bstNode) uint64 {
	return uint64(uintptr(unsafe.Pointer(n)))
}

// nodeAt is the inverse of nodeAddr.
func nodeAt(addr uint64) *bstNode {
	return (*bstNode)(unsafe.Pointer(uintptr(addr)))
}
