package splitsort

import (
	"errors"
	"math"

	splitsorterrors "github.com/kohyida1997/splitsort/errors"
	"github.com/kohyida1997/splitsort/internal/pmem"
	"github.com/sirupsen/logrus"
)

// Sorter drives one SplitSort run over a mapped record file: systematic
// sampling, splitter construction, parallel classified insertion into
// per-partition trees, and an in-order drain into a single ascending
// (key, record pointer) array.
//
// Usage:
//
//	s, err := splitsort.New(path, numRecords,
//	    splitsort.WithThreads(8),
//	    splitsort.WithSamples(10000),
//	    splitsort.WithPartitions(64))
//	if err != nil { return err }
//	defer s.Close()
//
//	pairs, err := s.Sort()
//	if err != nil { return err }
//	// pairs[j].Record points into the mapped input; consume before Close.
//
// A Sorter is single-use: Sort may be called once. The output slice borrows
// the input mapping, so it must be consumed before Close.
type Sorter struct {
	cfg *config
	log logrus.FieldLogger

	input   *pmem.Region
	records []Record

	splitters     []uint64
	partitions    []partition
	nodesPerArena uint64

	output []KeyPtrPair
	sorted bool
	closed bool
}

// Stats describes a completed run.
type Stats struct {
	Records    uint64
	Samples    int
	Partitions int
	Arenas     int
	OutputLen  int
}

// New maps the unsorted record file and prepares a run. The file must be a
// flat array of numRecords Records with no header. Mapping failure is
// returned as an error; a short mapping or a mapping not backed by
// persistent memory is logged as a warning and the run proceeds.
func New(inputPath string, numRecords uint64, opts ...Option) (*Sorter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if numRecords == 0 {
		return nil, splitsorterrors.ErrNoRecords
	}
	if cfg.threads < 1 {
		cfg.threads = 1
	}
	if cfg.partitions == 0 {
		cfg.partitions = defaultPartitions
		if uint64(cfg.partitions) > numRecords {
			cfg.partitions = int(numRecords)
		}
	}
	if cfg.samples == 0 {
		cfg.samples = cfg.partitions * defaultSamplesPerPartition
		if uint64(cfg.samples) > numRecords {
			cfg.samples = int(numRecords)
		}
	}
	if cfg.arenaPrefix == "" {
		cfg.arenaPrefix = inputPath + ".pool"
	}

	switch {
	case cfg.partitions < 1:
		return nil, splitsorterrors.ErrNoPartitions
	case cfg.samples < cfg.partitions:
		return nil, splitsorterrors.ErrTooFewSamples
	case uint64(cfg.samples) > numRecords:
		return nil, splitsorterrors.ErrTooManySamples
	case cfg.factor < 1.0:
		return nil, splitsorterrors.ErrBadGrowthFactor
	}

	log := cfg.logger
	log.Infof("mapping %d records (%d bytes) from %s", numRecords, numRecords*uint64(RecordSize), inputPath)

	region, err := pmem.Map(inputPath, int64(numRecords)*int64(RecordSize))
	if err != nil {
		if !errors.Is(err, splitsorterrors.ErrShortMap) {
			return nil, err
		}
		log.Warnf("short mapping of %s: %v", inputPath, err)
	}
	if !region.IsPersistent {
		log.Warnf("mapped file %s is not backed by persistent memory", inputPath)
	}

	// Arenas hold the expected per-partition population with headroom; a
	// partition drawing more than factor x expected rolls over to a fresh
	// arena.
	expected := float64(numRecords) / float64(cfg.partitions)
	nodesPerArena := uint64(math.Ceil(expected * cfg.factor))
	if nodesPerArena < 1 {
		nodesPerArena = 1
	}

	return &Sorter{
		cfg:           cfg,
		log:           log,
		input:         region,
		records:       Records(region.Data, numRecords),
		nodesPerArena: nodesPerArena,
	}, nil
}

// Sort runs the full pipeline and returns the sorted (key, record pointer)
// array. The phases are strictly sequential; each joins all of its workers
// before the next begins. If the input held duplicate keys the output may be
// shorter than the input: a key equal to its partition's root is dropped,
// while duplicates of deeper nodes are kept.
func (s *Sorter) Sort() ([]KeyPtrPair, error) {
	if s.closed {
		return nil, splitsorterrors.ErrSorterClosed
	}
	if s.sorted {
		return nil, splitsorterrors.ErrAlreadySorted
	}
	s.sorted = true

	s.log.Infof("sampling %d of %d records", s.cfg.samples, len(s.records))
	samples := s.sampleRecords()

	s.log.Infof("building %d splitters and seeding partitions", s.cfg.partitions)
	if err := s.buildSplitters(samples); err != nil {
		return nil, err
	}

	s.log.Infof("inserting %d records across %d threads", len(s.records), s.cfg.threads)
	if err := s.insertAll(); err != nil {
		return nil, err
	}

	s.log.Info("draining partitions")
	s.output = s.drain()

	s.log.Infof("sorted %d keys into %d output pairs", len(s.records), len(s.output))
	return s.output, nil
}

// Stats reports the shape of the run so far.
func (s *Sorter) Stats() Stats {
	arenas := 0
	for i := range s.partitions {
		arenas += len(s.partitions[i].arenas)
	}
	return Stats{
		Records:    uint64(len(s.records)),
		Samples:    s.cfg.samples,
		Partitions: s.cfg.partitions,
		Arenas:     arenas,
		OutputLen:  len(s.output),
	}
}

// Close unmaps every arena and the input region. The arena files themselves
// are left on the NVM filesystem; removing them is an operator step. Safe
// to call more than once. The output slice must not be used after Close.
func (s *Sorter) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for i := range s.partitions {
		p := &s.partitions[i]
		for _, a := range p.arenas {
			if err := a.region.Unmap(); err != nil {
				errs = append(errs, err)
			}
		}
		p.arenas = nil
		p.curr = nil
		p.root = nil
	}
	if err := s.input.Unmap(); err != nil {
		errs = append(errs, err)
	}
	s.records = nil
	s.output = nil
	return errors.Join(errs...)
}
