// Package storage implements the single-file, page-oriented storage engine
// that backs table data: a growable data file addressed by fixed-size page
// slots, a free list of reclaimed page IDs, and an LRU buffer pool in front
// of both.
package storage

import (
	"fmt"

	"github.com/pkg/errors"
)

// PageID identifies a fixed-size slot in the data file. 0 is never valid;
// it is reserved to signal "no page".
type PageID uint64

// Page is one page's worth of data plus the ID it lives at.
type Page struct {
	ID   PageID
	Data []byte
}

// ErrInvalidPageID is returned by ReadPage/WritePage/GetPage for PageID 0.
var ErrInvalidPageID = errors.New("storage: invalid page ID")

// StorageEngine is the interface the executor and the query dispatcher
// depend on; it is satisfied by *Engine. Callers never reach into the
// file manager or buffer pool directly.
type StorageEngine interface {
	AllocatePage() (PageID, error)
	ReadPage(id PageID) (*Page, error)
	WritePage(page *Page) error
	DeallocatePage(id PageID) error
	Sync() error
	Stats() StorageStats
	Close() error
}

// StorageStats summarizes the engine's page accounting and buffer pool
// effectiveness.
type StorageStats struct {
	TotalPages  int
	FreePages   int
	BufferSize  int
	BufferUsed  int
	BufferHits  uint64
	BufferMisses uint64
}

func (s StorageStats) String() string {
	ratio := 0.0
	if total := s.BufferHits + s.BufferMisses; total > 0 {
		ratio = float64(s.BufferHits) / float64(total) * 100
	}
	return fmt.Sprintf(
		"Storage Stats: pages=%d free=%d buffer=%d/%d hit_ratio=%.1f%% (hits=%d misses=%d)",
		s.TotalPages, s.FreePages, s.BufferUsed, s.BufferSize, ratio, s.BufferHits, s.BufferMisses)
}
