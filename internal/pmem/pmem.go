// Package pmem maps named files on byte-addressable persistent memory into
// the address space and provides the non-draining store primitive used by
// the sort engine.
//
// On Linux the package first attempts a DAX mapping (MAP_SHARED_VALIDATE |
// MAP_SYNC), which the kernel only grants for files on real persistent
// memory in fsdax mode. When that fails the file is mapped through a
// regular shared mapping and the region is reported as not persistent, so
// callers can warn and continue — useful for development on ordinary
// filesystems.
package pmem

import (
	"errors"
	"fmt"
	"os"

	splitsorterrors "github.com/kohyida1997/splitsort/errors"
)

// Region is a memory-mapped, fixed-length file region.
//
// Data is valid until Unmap is called. IsPersistent reports whether the
// mapping is backed by DAX-capable persistent memory; a false value means
// the region behaves like ordinary page-cache-backed memory.
type Region struct {
	Data         []byte
	Path         string
	IsPersistent bool

	unmap func([]byte) error
	done  bool
}

// Map creates (or reuses) the named file, sets its size to exactly length
// bytes (a longer existing file is truncated), and
// maps it read-write. The file descriptor is closed before returning; per
// POSIX the mapping survives the close.
//
// The returned region's Data is exactly length bytes. A shorter mapping is
// reported as ErrShortMap with the region still returned, valid up to
// len(Data); callers decide whether to warn or abort.
func Map(path string, length int64) (*Region, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: non-positive length %d for %s", splitsorterrors.ErrMapFailed, length, path)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o666)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", splitsorterrors.ErrMapFailed, path, err)
	}
	defer file.Close()

	// Pre-allocate disk blocks so a store into the mapping cannot SIGBUS
	// on a full device.
	if err := fallocateFile(file, length); err != nil {
		return nil, fmt.Errorf("%w: allocate %d bytes for %s: %v", splitsorterrors.ErrMapFailed, length, path, err)
	}

	data, persistent, unmap, err := mapShared(file, length)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %s: %v", splitsorterrors.ErrMapFailed, path, err)
	}

	r := &Region{
		Data:         data,
		Path:         path,
		IsPersistent: persistent,
		unmap:        unmap,
	}
	if int64(len(data)) < length {
		return r, fmt.Errorf("%w: %s mapped %d of %d bytes", splitsorterrors.ErrShortMap, path, len(data), length)
	}
	return r, nil
}

// Unmap releases the mapping. Safe to call more than once; only the first
// call does work. Data must not be touched after Unmap returns.
func (r *Region) Unmap() error {
	if r == nil || r.done || r.unmap == nil {
		return nil
	}
	r.done = true
	data := r.Data
	r.Data = nil
	if err := r.unmap(data); err != nil {
		return errors.Join(splitsorterrors.ErrUnmapFailed, fmt.Errorf("unmap %s: %w", r.Path, err))
	}
	return nil
}

// Prefault asks the kernel to populate the region's pages for writing.
// Best-effort; a no-op where unsupported.
func (r *Region) Prefault() {
	prefaultRegion(r.Data)
}

// Copy byte-copies src into dst on the persistent-store path without
// issuing a durability fence, mirroring a pmem memcpy-nodrain. The sort is
// an ephemeral computation, so flushed-but-unfenced stores are acceptable;
// on volatile mappings this degenerates to a plain copy. Returns the number
// of bytes copied.
func Copy(dst, src []byte) int {
	return copy(dst, src)
}
