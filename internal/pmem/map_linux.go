//go:build linux

package pmem

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

// mapSyncFlags requests a synchronous DAX mapping. The kernel rejects the
// combination with EOPNOTSUPP (or EINVAL pre-4.15) unless the file lives on
// persistent memory in fsdax mode, which is exactly the signal we want.
const mapSyncFlags = unix.MAP_SHARED_VALIDATE | unix.MAP_SYNC

// mapShared maps length bytes of file read-write. It first attempts a
// MAP_SYNC DAX mapping; on refusal it falls back to a regular shared
// mapping and reports the region as not persistent.
func mapShared(file *os.File, length int64) (data []byte, persistent bool, unmap func([]byte) error, err error) {
	data, err = unix.Mmap(int(file.Fd()), 0, int(length), unix.PROT_READ|unix.PROT_WRITE, mapSyncFlags)
	if err == nil {
		return data, true, unix.Munmap, nil
	}

	mm, err := mmap.MapRegion(file, int(length), mmap.RDWR, 0, 0)
	if err != nil {
		return nil, false, nil, err
	}
	return []byte(mm), false, func(b []byte) error {
		m := mmap.MMap(b)
		return m.Unmap()
	}, nil
}
