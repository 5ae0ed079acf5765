// Package mergesort implements a two-phase external merge sort over
// fixed-width byte records: a write phase that accumulates records into
// bounded, sorted run files, and a read phase that merges those runs with a
// loser tree into a single non-decreasing stream.
package mergesort

import (
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Comparator is a total-order function over two records, parameterized by an
// opaque argument (column offsets, types, whatever the caller needs). It must
// never be interpreted by the sorter.
type Comparator func(a, b []byte, arg any) int

type phase int

const (
	phaseWriting phase = iota
	phaseEnded
	phaseReading
)

// tempFilePattern is the mkstemp-equivalent template every run file is
// created with, matched by the temp-file hygiene property.
const tempFilePattern = "auxiliary_sort_file*"

// Options configures a Sorter. All fields are immutable after construction.
type Options struct {
	RecordsPerPage int
	RecordsPerFile int
	RecordSize     int
	Comparator     Comparator
	ComparatorArg  any
	// Dir is the working directory run files are created in. Empty means
	// the current working directory.
	Dir string
	// Logger receives one line per run-file boundary (open and close) and
	// per run opened by begin_read. A nil Logger is treated as no-op.
	Logger *zap.SugaredLogger
}

// Sorter is the external merge sorter. It is not safe for concurrent use:
// one writer phase, then one reader phase, from a single goroutine.
type Sorter struct {
	opts      Options
	sessionID uuid.UUID

	ph      phase
	current runBackend
	index   int
	runs    []string

	tree *loserTree
}

// New creates a Sorter with the given parameters. The comparator and its
// argument are carried opaquely for the lifetime of the session.
func New(opts Options) *Sorter {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	return &Sorter{
		opts:      opts,
		sessionID: uuid.New(),
		runs:      make([]string, 0),
	}
}

// Write appends one record. It is an error to call Write after EndWrite.
func (s *Sorter) Write(record []byte) error {
	if s.ph != phaseWriting {
		return errors.New("mergesort: write after end_write")
	}
	if len(record) != s.opts.RecordSize {
		return errors.Errorf("mergesort: record size %d does not match configured size %d", len(record), s.opts.RecordSize)
	}

	if s.current == nil {
		backend, err := newRunBackend(s.opts.Dir, s.opts.RecordsPerFile, s.opts.RecordSize)
		if err != nil {
			return &UnixError{Op: "mkstemp", Cause: err}
		}
		s.current = backend
		s.index = 0
		s.opts.Logger.Debugw("opened run file", "session", s.sessionID, "run", len(s.runs))
	}

	s.current.set(s.index, record)
	s.index++

	if s.index == s.opts.RecordsPerFile {
		if err := s.flushCurrent(); err != nil {
			return err
		}
	}
	return nil
}

// flushCurrent sorts the filled prefix of the current run in place and
// releases the mapping, durably writing the run to disk.
func (s *Sorter) flushCurrent() error {
	sortBackend(s.current, s.index, s.opts.Comparator, s.opts.ComparatorArg)
	path, err := s.current.finalize(s.index)
	if err != nil {
		return &UnixError{Op: "finalize", Cause: err}
	}
	s.opts.Logger.Debugw("closed run file", "session", s.sessionID, "run", len(s.runs), "records", s.index, "path", path)
	s.runs = append(s.runs, path)
	s.current = nil
	s.index = 0
	return nil
}

// EndWrite flushes the partially filled final run, if any, and transitions
// the sorter out of the write phase. If no records were written, the sorter
// is left in an empty but valid state.
func (s *Sorter) EndWrite() error {
	if s.ph != phaseWriting {
		return errors.New("mergesort: end_write called twice")
	}
	if s.current != nil && s.index > 0 {
		if err := s.flushCurrent(); err != nil {
			return err
		}
	} else if s.current != nil {
		s.current.abort()
		s.current = nil
	}
	s.ph = phaseEnded
	return nil
}

// BeginRead opens every run file, primes one record from each, and builds
// the loser tree used to merge them. Valid even with zero runs; Read must
// not be called in that case.
func (s *Sorter) BeginRead() error {
	if s.ph != phaseEnded {
		return errors.New("mergesort: begin_read before end_write")
	}

	readers := make([]*runReader, 0, len(s.runs))
	for i, path := range s.runs {
		r, err := newRunReader(path, s.opts.RecordSize, s.opts.RecordsPerPage)
		if err != nil {
			return &UnixError{Op: "open", Cause: err}
		}
		ok, err := r.next()
		if err != nil {
			return &UnixError{Op: "read", Cause: err}
		}
		if !ok {
			return errors.Errorf("mergesort: run %d is empty at begin_read", i)
		}
		readers = append(readers, r)
		s.opts.Logger.Debugw("opened run for reading", "session", s.sessionID, "run", i)
	}

	s.tree = newLoserTree(readers, s.opts.Comparator, s.opts.ComparatorArg)
	s.ph = phaseReading
	return nil
}

// Read copies the next record in sorted order into out and advances the
// loser tree. Calling Read with no records remaining is undefined; callers
// must track the total record count themselves.
func (s *Sorter) Read(out []byte) error {
	if s.ph != phaseReading {
		return errors.New("mergesort: read before begin_read")
	}
	winner := s.tree.winner()
	if winner == -1 {
		return errors.New("mergesort: read called with no records remaining")
	}
	copy(out, s.tree.readers[winner].current)
	if err := s.tree.adjust(winner); err != nil {
		return &UnixError{Op: "read", Cause: err}
	}
	return nil
}

// Close releases any resources still held by the sorter. It is safe to call
// at any point, including mid-write or mid-read; it unlinks every run file
// that has not yet been fully consumed.
func (s *Sorter) Close() error {
	if s.current != nil {
		s.current.abort()
		s.current = nil
	}
	if s.tree != nil {
		for _, r := range s.tree.readers {
			r.closeAndRemove()
		}
		s.tree = nil
	} else {
		for _, path := range s.runs {
			os.Remove(path)
		}
	}
	s.runs = nil
	return nil
}

// sortBackend performs a comparator-driven in-place sort of the first n
// records of backend.
func sortBackend(backend runBackend, n int, cmp Comparator, arg any) {
	sort.Sort(&backendSorter{backend: backend, n: n, cmp: cmp, arg: arg})
}

type backendSorter struct {
	backend runBackend
	n       int
	cmp     Comparator
	arg     any
}

func (b *backendSorter) Len() int { return b.n }

func (b *backendSorter) Less(i, j int) bool {
	return b.cmp(b.backend.get(i), b.backend.get(j), b.arg) < 0
}

func (b *backendSorter) Swap(i, j int) {
	b.backend.swap(i, j)
}
