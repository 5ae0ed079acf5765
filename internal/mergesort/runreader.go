package mergesort

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// runReader is a buffered sequential reader over one run file, caching the
// current record so the loser tree can compare it without re-reading.
type runReader struct {
	file       *os.File
	br         *bufio.Reader
	recordSize int
	current    []byte
	path       string
	done       bool
}

func newRunReader(path string, recordSize, recordsPerPage int) (*runReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	return &runReader{
		file:       f,
		br:         bufio.NewReaderSize(f, recordsPerPage*recordSize),
		recordSize: recordSize,
		current:    make([]byte, recordSize),
		path:       path,
	}, nil
}

// next refills current from the run file. On EOF it closes and unlinks the
// run file and reports false with no error.
func (r *runReader) next() (bool, error) {
	if r.done {
		return false, nil
	}
	_, err := io.ReadFull(r.br, r.current)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		r.closeAndRemove()
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "read")
	}
	return true, nil
}

func (r *runReader) closeAndRemove() {
	if r.done {
		return
	}
	r.done = true
	r.file.Close()
	os.Remove(r.path)
}
