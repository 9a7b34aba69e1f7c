package splitsort

import (
	"encoding/binary"
	"hash/fnv"
	"io"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/kohyida1997/splitsort/internal/pmem"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// testRand is a minimal stand-in for math/rand/v2's Rand, backed by the
// math/rand (v1) generator so the suite builds on toolchains that predate
// rand/v2.
type testRand struct {
	*rand.Rand
}

// Uint64N returns a pseudo-random value in [0, n).
func (r testRand) Uint64N(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return r.Uint64() % n
}

func newTestRNG(t testing.TB) testRand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return testRand{rand.New(rand.NewSource(int64(testSeed1 ^ s1 ^ (testSeed2 ^ s2))))}
}

// quietLogger returns a logger that swallows progress output so test logs
// stay readable.
func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// writeRecordFile writes keys as a flat record file (payload first 8 bytes
// repeating the key) and returns its path.
func writeRecordFile(t testing.TB, dir string, keys []uint64) string {
	t.Helper()
	path := filepath.Join(dir, "UNSORTED_KEYS")
	region, err := pmem.Map(path, int64(len(keys))*int64(RecordSize))
	if err != nil {
		t.Fatalf("map record file: %v", err)
	}
	rec := make([]byte, RecordSize)
	for i, key := range keys {
		binary.LittleEndian.PutUint64(rec[0:8], key)
		binary.LittleEndian.PutUint64(rec[8:16], key)
		pmem.Copy(region.Data[i*RecordSize:(i+1)*RecordSize], rec)
	}
	if err := region.Unmap(); err != nil {
		t.Fatalf("unmap record file: %v", err)
	}
	return path
}

// newTestSorter writes keys to a fresh record file under t.TempDir and opens
// a Sorter over it with a quiet logger. Close is registered as cleanup.
func newTestSorter(t testing.TB, keys []uint64, opts ...Option) *Sorter {
	t.Helper()
	dir := t.TempDir()
	path := writeRecordFile(t, dir, keys)
	opts = append([]Option{
		WithLogger(quietLogger()),
		WithArenaPrefix(filepath.Join(dir, "pool")),
	}, opts...)
	s, err := New(path, uint64(len(keys)), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// shuffledRange returns a shuffled permutation of [0, n).
func shuffledRange(rng testRand, n int) []uint64 {
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = uint64(i)
	}
	rng.Shuffle(n, func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	return keys
}

// outputKeys projects the key column of pairs.
func outputKeys(pairs []KeyPtrPair) []uint64 {
	keys := make([]uint64, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	return keys
}

// ascendingRange returns [0, n) in order.
func ascendingRange(n int) []uint64 {
	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = uint64(i)
	}
	return keys
}
