package splitsort

// sampleRecords takes every stepSize-th record, preserving input order, and
// returns exactly cfg.samples (key, record) pairs. stepSize is the integer
// quotient numRecords/numSamples, so tail records past position
// (numSamples-1)*stepSize are deliberately left unsampled.
func (s *Sorter) sampleRecords() []KeyPtrPair {
	step := len(s.records) / s.cfg.samples
	out := make([]KeyPtrPair, s.cfg.samples)

	// Pure index-partitioned writes, no chunk can fail.
	_ = forEachChunk(s.cfg.threads, s.cfg.samples, func(start, end int) error {
		for i := start; i < end; i++ {
			rec := &s.records[i*step]
			out[i] = KeyPtrPair{Key: rec.Key, Record: rec}
		}
		return nil
	})
	return out
}
