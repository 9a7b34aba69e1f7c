// Package splitsort sorts very large sets of fixed-size records that live
// on byte-addressable persistent memory (NVM in fsdax mode) without ever
// moving the record payloads: only compact (key, record pointer) pairs are
// sorted, and the result is an in-DRAM ascending array referencing the
// NVM-resident records in place.
//
// The pipeline is sample-partition-insert-drain:
//
//  1. Systematic parallel sampling of every k-th record.
//  2. Splitter construction: the samples are sorted, carved into one
//     contiguous range per partition, and each partition's tree is seeded
//     with its range median.
//  3. Parallel classified insertion: every record is binary-searched
//     against the splitter table and inserted, under a per-partition lock,
//     into that partition's unbalanced BST. Tree nodes live in append-only
//     NVM arenas that grow on demand.
//  4. Drain: a sequential prefix sum fixes per-partition output offsets,
//     then all trees drain in-order in parallel into the final array.
//
// # Basic Usage
//
//	s, err := splitsort.New("/dcpmm/yida/UNSORTED_KEYS", numRecords,
//	    splitsort.WithThreads(16),
//	    splitsort.WithSamples(10000),
//	    splitsort.WithPartitions(64))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	pairs, err := s.Sort()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := splitsort.CheckSorted(pairs, 16); err != nil {
//	    log.Fatal(err)
//	}
//
// # Caveats
//
// The sort is ephemeral: node stores use a non-draining persistent copy and
// no global fence is ever issued, so the arenas are scratch space, not a
// recoverable index. Trees are deliberately unbalanced; the design assumes
// systematically sampled, roughly uniform keys, and nearly sorted input
// degenerates tree depth. Keys equal to a partition root are silently
// dropped.
//
// # Package Structure
//
//   - Public API: sorter.go (New, Sort, Close), verify.go (CheckSorted, KeyDigest)
//   - Configuration: sorter_options.go (Option, With* functions)
//   - Data model: record.go (Record, KeyPtrPair), arena.go (NVM node arenas)
//   - Pipeline: sample.go, splitter.go, insert.go, drain.go, partition.go
//   - Mapping: internal/pmem (DAX detection, fallocate, prefault, nodrain copy)
//   - Data generation: internal/datagen (seeded permutation record files)
package splitsort
