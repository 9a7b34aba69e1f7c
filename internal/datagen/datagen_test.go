package datagen

import (
	"encoding/binary"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/kohyida1997/splitsort"
	splitsorterrors "github.com/kohyida1997/splitsort/errors"
	"github.com/kohyida1997/splitsort/internal/pmem"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// readKeys maps a generated file and returns its key column.
func readKeys(t *testing.T, path string, n uint64) []uint64 {
	t.Helper()
	region, err := pmem.Map(path, int64(n)*int64(splitsort.RecordSize))
	if err != nil {
		t.Fatalf("map generated file: %v", err)
	}
	defer region.Unmap()
	records := splitsort.Records(region.Data, n)
	keys := make([]uint64, n)
	for i := range records {
		keys[i] = records[i].Key
	}
	return keys
}

func TestGeneratePermutation(t *testing.T) {
	const n = 1000
	path := filepath.Join(t.TempDir(), "UNSORTED_KEYS")
	err := Generate(Config{Path: path, NumKeys: n, Seed: 7, Threads: 4, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	keys := readKeys(t, path, n)
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	for i, k := range sorted {
		if k != uint64(i) {
			t.Fatalf("keys are not a permutation of [0, %d): sorted[%d] = %d", n, i, k)
		}
	}
	if slices.IsSorted(keys) {
		t.Errorf("generated keys came out unshuffled")
	}
}

func TestGeneratePayloadEchoesKey(t *testing.T) {
	const n = 64
	path := filepath.Join(t.TempDir(), "UNSORTED_KEYS")
	if err := Generate(Config{Path: path, NumKeys: n, Seed: 3, Logger: quietLogger()}); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	region, err := pmem.Map(path, int64(n)*int64(splitsort.RecordSize))
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	defer region.Unmap()
	records := splitsort.Records(region.Data, n)
	for i := range records {
		first8 := binary.LittleEndian.Uint64(records[i].Payload[0:8])
		if first8 != records[i].Key {
			t.Fatalf("record %d payload prefix = %d, want key %d", i, first8, records[i].Key)
		}
		var zero [16]byte
		if slices.Equal(records[i].Payload[8:24], zero[:]) {
			t.Errorf("record %d payload tail is all zero, want derived bytes", i)
		}
	}
}

func TestGenerateDeterministicPerSeed(t *testing.T) {
	const n = 500
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	for path, seed := range map[string]uint64{a: 11, b: 11, c: 12} {
		if err := Generate(Config{Path: path, NumKeys: n, Seed: seed, Logger: quietLogger()}); err != nil {
			t.Fatalf("Generate(%s): %v", path, err)
		}
	}

	ka, kb, kc := readKeys(t, a, n), readKeys(t, b, n), readKeys(t, c, n)
	if diff := cmp.Diff(ka, kb); diff != "" {
		t.Errorf("same seed produced different files (-a +b):\n%s", diff)
	}
	if slices.Equal(ka, kc) {
		t.Errorf("different seeds produced identical shuffles")
	}
}

func TestGenerateRejectsZeroKeys(t *testing.T) {
	err := Generate(Config{Path: filepath.Join(t.TempDir(), "x"), NumKeys: 0, Logger: quietLogger()})
	if !errors.Is(err, splitsorterrors.ErrNoRecords) {
		t.Errorf("Generate(0) error = %v, want ErrNoRecords", err)
	}
}
