//go:build unix

package mergesort

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mmapBackend is a run file whose backing store is a memory-mapped temp
// file: records are written directly into the mapping, sorted in place, and
// the mapping is released (flushing to disk) once the run closes.
type mmapBackend struct {
	file       *os.File
	data       []byte
	recordSize int
}

func newRunBackend(dir string, capacity, recordSize int) (runBackend, error) {
	f, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return nil, errors.Wrap(err, "mkstemp")
	}
	size := int64(capacity) * int64(recordSize)
	if err := f.Truncate(size); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, errors.Wrap(err, "ftruncate")
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, errors.Wrap(err, "mmap")
	}
	return &mmapBackend{file: f, data: data, recordSize: recordSize}, nil
}

func (b *mmapBackend) set(i int, record []byte) {
	copy(b.data[i*b.recordSize:(i+1)*b.recordSize], record)
}

func (b *mmapBackend) get(i int) []byte {
	return b.data[i*b.recordSize : (i+1)*b.recordSize]
}

func (b *mmapBackend) swap(i, j int) {
	if i == j {
		return
	}
	var tmp [256]byte
	buf := tmp[:0]
	if b.recordSize <= len(tmp) {
		buf = tmp[:b.recordSize]
	} else {
		buf = make([]byte, b.recordSize)
	}
	copy(buf, b.get(i))
	copy(b.get(i), b.get(j))
	copy(b.get(j), buf)
}

func (b *mmapBackend) finalize(n int) (string, error) {
	path := b.file.Name()
	if err := unix.Munmap(b.data); err != nil {
		b.file.Close()
		return "", errors.Wrap(err, "munmap")
	}
	b.data = nil
	if err := b.file.Truncate(int64(n) * int64(b.recordSize)); err != nil {
		b.file.Close()
		return "", errors.Wrap(err, "ftruncate")
	}
	if err := b.file.Close(); err != nil {
		return "", errors.Wrap(err, "close")
	}
	return path, nil
}

func (b *mmapBackend) abort() {
	if b.data != nil {
		unix.Munmap(b.data)
		b.data = nil
	}
	path := b.file.Name()
	b.file.Close()
	os.Remove(path)
}
