package splitsort

import "unsafe"

// recordPayloadSize is the opaque tail of a Record. Only the leading key is
// interpreted by the engine; the payload travels by reference and is never
// copied or moved.
const recordPayloadSize = 24

// Record is the fixed-size NVM-resident unit being sorted. The layout must
// match the generator byte for byte so a mapped file is a flat []Record with
// no header: 8 bytes of little-endian key followed by the payload.
type Record struct {
	Key     uint64
	Payload [recordPayloadSize]byte
}

// RecordSize is the on-NVM footprint of one Record in bytes.
const RecordSize = int(unsafe.Sizeof(Record{}))

// KeyPtrPair is the unit actually sorted: a key plus a pointer to the
// NVM-resident record bearing it. The engine's output is a []KeyPtrPair in
// ascending key order; the records themselves never move.
type KeyPtrPair struct {
	Key    uint64
	Record *Record
}

// Records reinterprets a mapped byte region as a flat record array of n
// entries. The region must stay mapped for as long as the slice (or any
// pointer derived from it) is in use.
func Records(data []byte, n uint64) []Record {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*Record)(unsafe.Pointer(&data[0])), n)
}

// recordAddr returns the record's virtual address for storage in an NVM
// node. Records live in memory-mapped regions, never on the Go heap, so the
// raw address is stable for the lifetime of the mapping.
func recordAddr(r *Record) uint64 {
	return uint64(uintptr(unsafe.Pointer(r)))
}

// recordAt is the inverse of recordAddr.
func recordAt(addr uint64) *Record {
	return (*Record)(unsafe.Pointer(uintptr(addr)))
}
