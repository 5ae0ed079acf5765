//go:build !unix

package storage

import (
	"os"

	"github.com/pkg/errors"
)

// fileBackend is the non-unix fallback: slot reads and writes go through
// ReadAt/WriteAt instead of a mapping, as sanctioned for platforms without
// mmap.
type fileBackend struct {
	file *os.File
	size int64
}

func newPageBackend(path string) (pageBackend, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "open data file")
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "stat data file")
	}
	return &fileBackend{file: f, size: info.Size()}, nil
}

func (b *fileBackend) ensureCapacity(slots uint64, pageSize int) error {
	need := int64(slots) * int64(pageSize)
	if b.size >= need {
		return nil
	}
	if err := b.file.Truncate(need); err != nil {
		return errors.Wrap(err, "truncate data file")
	}
	b.size = need
	return nil
}

func (b *fileBackend) readSlot(slot uint64, pageSize int) ([]byte, error) {
	out := make([]byte, pageSize)
	if _, err := b.file.ReadAt(out, int64(slot)*int64(pageSize)); err != nil {
		return nil, errors.Wrap(err, "read data file")
	}
	return out, nil
}

func (b *fileBackend) writeSlot(slot uint64, data []byte) error {
	_, err := b.file.WriteAt(data, int64(slot)*int64(len(data)))
	return errors.Wrap(err, "write data file")
}

func (b *fileBackend) sync() error {
	return errors.Wrap(b.file.Sync(), "sync data file")
}

func (b *fileBackend) close() error {
	return errors.Wrap(b.file.Close(), "close data file")
}
