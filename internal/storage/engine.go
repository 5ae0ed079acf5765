package storage

import (
	"github.com/pkg/errors"

	"github.com/z2z63/DB2024-OSCore/internal/config"
)

// Engine is the top-level storage engine: a FileManager for durable page
// slots fronted by a BufferPool for hot pages. It is the StorageEngine the
// executor and dispatcher are built against.
type Engine struct {
	cfg *config.StorageConfig
	fm  *FileManager
	bp  *BufferPool
}

// NewEngine opens (creating if necessary) the data directory named by
// cfg.DataDirectory and wires a buffer pool of cfg.BufferSize pages in
// front of it.
func NewEngine(cfg *config.StorageConfig) (*Engine, error) {
	fm, err := NewFileManager(cfg.DataDirectory, cfg.PageSize)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg: cfg,
		fm:  fm,
		bp:  NewBufferPool(cfg.BufferSize, fm),
	}, nil
}

// AllocatePage mints or reuses a page ID and ensures the data file has
// room for it.
func (e *Engine) AllocatePage() (PageID, error) {
	id, err := e.fm.AllocatePage()
	if err != nil {
		return 0, err
	}
	if e.cfg.MaxFileSize > 0 && int64(id)*int64(e.cfg.PageSize) > e.cfg.MaxFileSize {
		return 0, errors.Errorf("storage: page %d would exceed max file size %d", id, e.cfg.MaxFileSize)
	}
	return id, nil
}

// ReadPage returns the page at id, via the buffer pool.
func (e *Engine) ReadPage(id PageID) (*Page, error) {
	return e.bp.GetPage(id)
}

// WritePage caches page as dirty; it reaches disk on flush or eviction.
func (e *Engine) WritePage(page *Page) error {
	return e.bp.PutPage(page)
}

// DeallocatePage returns id to the file manager's free list for reuse.
func (e *Engine) DeallocatePage(id PageID) error {
	return e.fm.DeallocatePage(id)
}

// Sync flushes all dirty buffered pages and fsyncs the backing files.
func (e *Engine) Sync() error {
	if err := e.bp.FlushAll(); err != nil {
		return err
	}
	return e.fm.Sync()
}

// Close flushes outstanding pages and releases the backing files.
func (e *Engine) Close() error {
	if err := e.bp.FlushAll(); err != nil {
		return err
	}
	return e.fm.Close()
}

// Stats reports page accounting and buffer pool effectiveness.
func (e *Engine) Stats() StorageStats {
	hits, misses, used, capacity := e.bp.Stats()
	return StorageStats{
		TotalPages:   e.fm.pageCount(),
		FreePages:    e.fm.freePageCount(),
		BufferSize:   capacity,
		BufferUsed:   used,
		BufferHits:   uint64(hits),
		BufferMisses: uint64(misses),
	}
}
