package splitsort

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	splitsorterrors "github.com/kohyida1997/splitsort/errors"
)

// CheckSorted verifies the engine's output contract over pairs: keys ascend
// and every pair points at a record bearing its key. The scan is
// chunk-parallel; failures raise shared atomic flags that are reduced after
// all workers join, so there is no early-exit race.
func CheckSorted(pairs []KeyPtrPair, workers int) error {
	var unsorted, mismatch atomic.Bool

	_ = forEachChunk(workers, len(pairs), func(start, end int) error {
		for i := start; i < end; i++ {
			if i > 0 && pairs[i].Key < pairs[i-1].Key {
				unsorted.Store(true)
			}
			if pairs[i].Record == nil || pairs[i].Record.Key != pairs[i].Key {
				mismatch.Store(true)
			}
		}
		return nil
	})

	if unsorted.Load() {
		return splitsorterrors.ErrKeysUnsorted
	}
	if mismatch.Load() {
		return splitsorterrors.ErrPointerMismatch
	}
	return nil
}

// KeyDigest returns an xxhash64 of the key sequence in order. Two runs over
// the same input multiset must produce the same digest regardless of thread
// or partition count, which makes it a cheap cross-run comparator.
func KeyDigest(pairs []KeyPtrPair) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for i := range pairs {
		binary.LittleEndian.PutUint64(buf[:], pairs[i].Key)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
