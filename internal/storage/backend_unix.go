//go:build unix

package storage

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mmapBackend memory-maps the data file and serves slot reads/writes
// directly out of the mapping. The mapping is grown by unmapping,
// truncating the file to the new size, and remapping.
type mmapBackend struct {
	file *os.File
	data []byte
}

func newPageBackend(path string) (pageBackend, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "open data file")
	}
	return &mmapBackend{file: f}, nil
}

func (b *mmapBackend) ensureCapacity(slots uint64, pageSize int) error {
	need := int64(slots) * int64(pageSize)
	if int64(len(b.data)) >= need {
		return nil
	}
	if b.data != nil {
		if err := unix.Munmap(b.data); err != nil {
			return errors.Wrap(err, "munmap")
		}
		b.data = nil
	}
	if err := b.file.Truncate(need); err != nil {
		return errors.Wrap(err, "ftruncate")
	}
	data, err := unix.Mmap(int(b.file.Fd()), 0, int(need), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return errors.Wrap(err, "mmap")
	}
	b.data = data
	return nil
}

func (b *mmapBackend) readSlot(slot uint64, pageSize int) ([]byte, error) {
	off := int(slot) * pageSize
	out := make([]byte, pageSize)
	copy(out, b.data[off:off+pageSize])
	return out, nil
}

func (b *mmapBackend) writeSlot(slot uint64, data []byte) error {
	off := int(slot) * len(data)
	copy(b.data[off:off+len(data)], data)
	return nil
}

func (b *mmapBackend) sync() error {
	if b.data == nil {
		return nil
	}
	return errors.Wrap(unix.Msync(b.data, unix.MS_SYNC), "msync")
}

func (b *mmapBackend) close() error {
	if b.data != nil {
		if err := unix.Munmap(b.data); err != nil {
			b.file.Close()
			return errors.Wrap(err, "munmap")
		}
		b.data = nil
	}
	return errors.Wrap(b.file.Close(), "close")
}
