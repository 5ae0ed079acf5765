//go:build !unix

package mergesort

import (
	"os"

	"github.com/pkg/errors"
)

// bufferBackend is the non-unix fallback: records accumulate in an
// in-memory array and are written to the run file in one bulk write at
// finalize time, as sanctioned for platforms without mmap.
type bufferBackend struct {
	file       *os.File
	data       []byte
	recordSize int
}

func newRunBackend(dir string, capacity, recordSize int) (runBackend, error) {
	f, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return nil, errors.Wrap(err, "mkstemp")
	}
	return &bufferBackend{
		file:       f,
		data:       make([]byte, capacity*recordSize),
		recordSize: recordSize,
	}, nil
}

func (b *bufferBackend) set(i int, record []byte) {
	copy(b.data[i*b.recordSize:(i+1)*b.recordSize], record)
}

func (b *bufferBackend) get(i int) []byte {
	return b.data[i*b.recordSize : (i+1)*b.recordSize]
}

func (b *bufferBackend) swap(i, j int) {
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

func (b *bufferBackend) finalize(n int) (string, error) {
	path := b.file.Name()
	if _, err := b.file.Write(b.data[:n*b.recordSize]); err != nil {
		b.file.Close()
		return "", errors.Wrap(err, "write")
	}
	b.data = nil
	if err := b.file.Close(); err != nil {
		return "", errors.Wrap(err, "close")
	}
	return path, nil
}

func (b *bufferBackend) abort() {
	path := b.file.Name()
	b.file.Close()
	os.Remove(path)
}
