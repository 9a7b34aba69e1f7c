package splitsort

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSampleRange(t *testing.T) {
	type rng struct{ Begin, End int }
	tests := []struct {
		name       string
		samples    int
		partitions int
		want       []rng
	}{
		{"even split", 8, 4, []rng{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{"remainder to first", 10, 3, []rng{{0, 4}, {4, 7}, {7, 10}}},
		{"one each", 4, 4, []rng{{0, 1}, {1, 2}, {2, 3}, {3, 4}}},
		{"single partition", 5, 1, []rng{{0, 5}}},
		{"two extra", 11, 3, []rng{{0, 4}, {4, 8}, {8, 11}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, r := tc.samples/tc.partitions, tc.samples%tc.partitions
			got := make([]rng, tc.partitions)
			for i := range got {
				got[i].Begin, got[i].End = sampleRange(i, q, r)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ranges mismatch (-want +got):\n%s", diff)
			}
			// Ranges must tile [0, samples) exactly.
			if got[0].Begin != 0 || got[len(got)-1].End != tc.samples {
				t.Errorf("ranges do not cover [0, %d): %v", tc.samples, got)
			}
			for i := 1; i < len(got); i++ {
				if got[i].Begin != got[i-1].End {
					t.Errorf("gap between range %d and %d: %v", i-1, i, got)
				}
			}
		})
	}
}

func TestBuildSplitters(t *testing.T) {
	// 8 records sampled in full; 2 partitions of 4 sorted samples each.
	keys := []uint64{50, 10, 70, 30, 20, 60, 40, 80}
	s := newTestSorter(t, keys, WithSamples(8), WithPartitions(2))

	if err := s.buildSplitters(s.sampleRecords()); err != nil {
		t.Fatalf("buildSplitters: %v", err)
	}

	// Sorted samples: 10..80. Partition 0 owns {10,20,30,40}, partition 1
	// owns {50,60,70,80}; low-biased medians are 20 and 60.
	if diff := cmp.Diff([]uint64{10, 50}, s.splitters); diff != "" {
		t.Errorf("splitters mismatch (-want +got):\n%s", diff)
	}
	wantRoots := []uint64{20, 60}
	for i := range s.partitions {
		p := &s.partitions[i]
		if p.root == nil {
			t.Fatalf("partition %d has no root", i)
		}
		if p.root.key != wantRoots[i] {
			t.Errorf("partition %d root = %d, want %d", i, p.root.key, wantRoots[i])
		}
		if p.nodeCount != 1 {
			t.Errorf("partition %d nodeCount = %d, want 1", i, p.nodeCount)
		}
		if len(p.arenas) != 1 || p.curr != p.arenas[0] {
			t.Errorf("partition %d arena list not seeded: %d arenas", i, len(p.arenas))
		}
		if rec := recordAt(p.root.record); rec.Key != p.root.key {
			t.Errorf("partition %d root record key = %d, want %d", i, rec.Key, p.root.key)
		}
		if p.root.left != 0 || p.root.right != 0 {
			t.Errorf("partition %d root has children at seed time", i)
		}
	}
}

func TestBuildSplittersMonotonicMinKeys(t *testing.T) {
	rng := newTestRNG(t)
	keys := shuffledRange(rng, 2000)
	s := newTestSorter(t, keys, WithSamples(200), WithPartitions(16))

	if err := s.buildSplitters(s.sampleRecords()); err != nil {
		t.Fatalf("buildSplitters: %v", err)
	}
	for i := 1; i < len(s.splitters); i++ {
		if s.splitters[i-1] > s.splitters[i] {
			t.Fatalf("splitters not ascending at %d: %d > %d", i, s.splitters[i-1], s.splitters[i])
		}
	}
}
