//go:build !linux

package pmem

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// mapShared maps length bytes of file read-write. MAP_SYNC is
// Linux-specific, so the region is always reported as not persistent here.
func mapShared(file *os.File, length int64) (data []byte, persistent bool, unmap func([]byte) error, err error) {
	mm, err := mmap.MapRegion(file, int(length), mmap.RDWR, 0, 0)
	if err != nil {
		return nil, false, nil, err
	}
	return []byte(mm), false, func(b []byte) error {
		return mmap.MMap(b).Unmap()
	}, nil
}
