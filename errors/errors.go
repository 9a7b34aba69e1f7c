// Package errors defines all exported error sentinels for the splitsort library.
//
// This is the single source of truth for error values. Both the top-level
// splitsort package and the internal support packages import from here,
// ensuring errors.Is checks work across package boundaries.
package errors

import "errors"

// Configuration errors
var (
	ErrNoRecords       = errors.New("splitsort: cannot sort zero records")
	ErrTooFewSamples   = errors.New("splitsort: sample count must be at least the partition count")
	ErrTooManySamples  = errors.New("splitsort: sample count exceeds record count")
	ErrNoPartitions    = errors.New("splitsort: partition count must be at least one")
	ErrBadGrowthFactor = errors.New("splitsort: arena growth factor must be at least 1.0")
	ErrSorterClosed    = errors.New("splitsort: sorter is closed")
	ErrAlreadySorted   = errors.New("splitsort: Sort may only be called once per Sorter")
)

// Mapping errors
var (
	ErrMapFailed   = errors.New("splitsort: failed to map persistent-memory region")
	ErrShortMap    = errors.New("splitsort: mapped region is shorter than requested")
	ErrUnmapFailed = errors.New("splitsort: failed to unmap persistent-memory region")
)

// Verification errors
var (
	ErrKeysUnsorted    = errors.New("splitsort: output keys are not in ascending order")
	ErrPointerMismatch = errors.New("splitsort: output pair does not point at a record with its key")
	ErrGeneratorCheck  = errors.New("splitsort: generated NVM keys do not match DRAM keys")
)
