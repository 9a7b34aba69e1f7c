// Package datagen populates NVM record files for the sort engine: a seeded
// shuffled permutation of [0, numKeys) with one fixed-size record per key,
// written through the non-draining persistent copy path and verified by a
// read-back pass.
package datagen

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"runtime"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/kohyida1997/splitsort"
	splitsorterrors "github.com/kohyida1997/splitsort/errors"
	"github.com/kohyida1997/splitsort/internal/pmem"
)

// seedMix is XORed into the caller's seed before it seeds the shuffle source.
const seedMix = 0x9e3779b97f4a7c15

// Config describes one generation run.
type Config struct {
	Path    string
	NumKeys uint64
	Seed    uint64
	Threads int
	Logger  logrus.FieldLogger
}

// Generate creates (or overwrites) a record file at cfg.Path holding a
// shuffled permutation of the keys [0, cfg.NumKeys). Record i carries its
// permuted key, a payload whose first 8 bytes repeat the key, and an
// xxh3-derived payload tail so the opaque bytes are deterministic but
// non-trivial. After writing, every record is read back and compared
// against the DRAM permutation.
func Generate(cfg Config) error {
	if cfg.NumKeys == 0 {
		return splitsorterrors.ErrNoRecords
	}
	if cfg.Threads < 1 {
		cfg.Threads = runtime.NumCPU()
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	n := int(cfg.NumKeys)

	log.Infof("creating %d keys in DRAM", n)
	keys := make([]uint64, n)
	_ = chunked(cfg.Threads, n, func(start, end int) error {
		for i := start; i < end; i++ {
			keys[i] = uint64(i)
		}
		return nil
	})

	log.Info("shuffling keys in DRAM")
	rng := rand.New(rand.NewSource(int64(cfg.Seed ^ seedMix)))
	rng.Shuffle(n, func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})

	length := int64(n) * int64(splitsort.RecordSize)
	log.Infof("allocating %d-byte NVM file at %s", length, cfg.Path)
	region, err := pmem.Map(cfg.Path, length)
	if err != nil {
		return err
	}
	defer region.Unmap()
	if !region.IsPersistent {
		log.Warnf("generated file %s is not backed by persistent memory", cfg.Path)
	}
	region.Prefault()

	log.Info("copying generated records into NVM")
	_ = chunked(cfg.Threads, n, func(start, end int) error {
		var buf [8]byte
		rec := make([]byte, splitsort.RecordSize)
		for i := start; i < end; i++ {
			key := keys[i]
			binary.LittleEndian.PutUint64(buf[:], key)
			binary.LittleEndian.PutUint64(rec[0:8], key)
			// Payload: first 8 bytes repeat the key, tail is an xxh3-128
			// of the key under the run's seed.
			binary.LittleEndian.PutUint64(rec[8:16], key)
			sum := xxh3.Hash128Seed(buf[:], cfg.Seed)
			binary.LittleEndian.PutUint64(rec[16:24], sum.Lo)
			binary.LittleEndian.PutUint64(rec[24:32], sum.Hi)

			off := i * splitsort.RecordSize
			pmem.Copy(region.Data[off:off+splitsort.RecordSize], rec)
		}
		return nil
	})

	log.Info("verifying copied keys against DRAM")
	records := splitsort.Records(region.Data, cfg.NumKeys)
	var mismatch atomic.Bool
	_ = chunked(cfg.Threads, n, func(start, end int) error {
		for i := start; i < end; i++ {
			if records[i].Key != keys[i] {
				mismatch.Store(true)
			}
		}
		return nil
	})
	if mismatch.Load() {
		return fmt.Errorf("%w: %s", splitsorterrors.ErrGeneratorCheck, cfg.Path)
	}

	log.Infof("generated %.2f KB / %.2f MB / %.2f GB of records",
		float64(length)/(1<<10), float64(length)/(1<<20), float64(length)/(1<<30))
	return nil
}

// chunked runs fn over static contiguous chunks of [0, n).
func chunked(workers, n int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		start, end := start, min(start+chunk, n)
		g.Go(func() error {
			return fn(start, end)
		})
	}
	return g.Wait()
}
