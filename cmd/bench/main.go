// Bench measures SplitSort build throughput over synthetic key sets.
//
// Usage:
//
//	go run ./cmd/bench -keys 10000000 -threads 8 -partitions 64
//
// Flags:
//
//	-keys        Number of records to sort (default: 10,000,000)
//	-threads     Worker count (default: hardware concurrency)
//	-samples     Sample count (default: 16 x partitions)
//	-partitions  Partition count (default: 64)
//	-seed        Key derivation seed (default: 0x1234)
//	-dir         Directory for the record file and arenas (default: temp dir)
//
// Keys are murmur3-derived from the record index, so they are effectively
// uniform but not a permutation; collisions are vanishingly rare, and a
// colliding key is dropped only when it equals its partition's root.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/spaolacci/murmur3"

	"github.com/kohyida1997/splitsort"
	"github.com/kohyida1997/splitsort/internal/pmem"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024 // Convert KB to bytes on Linux
	}
	return maxRSS
}

func main() {
	keysFlag := flag.Int("keys", 10_000_000, "number of records")
	threadsFlag := flag.Int("threads", runtime.NumCPU(), "worker count")
	samplesFlag := flag.Int("samples", 0, "sample count (0 = 16 x partitions)")
	partitionsFlag := flag.Int("partitions", 64, "partition count")
	seedFlag := flag.Uint64("seed", 0x1234, "key derivation seed")
	dirFlag := flag.String("dir", "", "directory for record file and arenas (default temp dir)")
	flag.Parse()

	numKeys := *keysFlag
	partitions := *partitionsFlag
	samples := *samplesFlag
	if samples == 0 {
		samples = partitions * 16
	}

	dir := *dirFlag
	if dir == "" {
		tmp, err := os.MkdirTemp("", "splitsort-bench-")
		if err != nil {
			fmt.Printf("Failed to create temp dir: %v\n", err)
			return
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		dir = tmp
	}
	inputPath := filepath.Join(dir, "UNSORTED_KEYS")

	fmt.Printf("Writing %d records...\n", numKeys)
	fillStart := time.Now()
	region, err := pmem.Map(inputPath, int64(numKeys)*int64(splitsort.RecordSize))
	if err != nil {
		fmt.Printf("Failed to map record file: %v\n", err)
		return
	}
	var idx [8]byte
	rec := make([]byte, splitsort.RecordSize)
	for i := 0; i < numKeys; i++ {
		binary.LittleEndian.PutUint64(idx[:], uint64(i))
		key := murmur3.Sum64WithSeed(idx[:], uint32(*seedFlag))
		binary.LittleEndian.PutUint64(rec[0:8], key)
		binary.LittleEndian.PutUint64(rec[8:16], key)
		pmem.Copy(region.Data[i*splitsort.RecordSize:(i+1)*splitsort.RecordSize], rec)
	}
	if err := region.Unmap(); err != nil {
		fmt.Printf("Failed to unmap record file: %v\n", err)
		return
	}
	fillDuration := time.Since(fillStart)

	fmt.Printf("Sorting with threads=%d samples=%d partitions=%d...\n", *threadsFlag, samples, partitions)
	sortStart := time.Now()
	s, err := splitsort.New(inputPath, uint64(numKeys),
		splitsort.WithThreads(*threadsFlag),
		splitsort.WithSamples(samples),
		splitsort.WithPartitions(partitions),
		splitsort.WithArenaPrefix(filepath.Join(dir, "pool")),
	)
	if err != nil {
		fmt.Printf("Failed to open sorter: %v\n", err)
		return
	}
	defer s.Close()

	pairs, err := s.Sort()
	if err != nil {
		fmt.Printf("Sort failed: %v\n", err)
		return
	}
	sortDuration := time.Since(sortStart)

	checkStart := time.Now()
	if err := splitsort.CheckSorted(pairs, *threadsFlag); err != nil {
		fmt.Printf("Sort check failed: %v\n", err)
		return
	}
	checkDuration := time.Since(checkStart)

	stats := s.Stats()
	fmt.Printf("\nFill:   %v (%.0f records/s)\n", fillDuration, float64(numKeys)/fillDuration.Seconds())
	fmt.Printf("Sort:   %v (%.0f keys/s)\n", sortDuration, float64(numKeys)/sortDuration.Seconds())
	fmt.Printf("Check:  %v\n", checkDuration)
	fmt.Printf("Output: %d pairs (%d dropped), %d arenas across %d partitions\n",
		stats.OutputLen, numKeys-stats.OutputLen, stats.Arenas, stats.Partitions)
	fmt.Printf("Digest: %016x\n", splitsort.KeyDigest(pairs))
	fmt.Printf("MaxRSS: %.1f MB\n", float64(getMaxRSS())/(1<<20))
}
