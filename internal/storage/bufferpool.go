package storage

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// BufferPool is an LRU cache of pages in front of a FileManager. Pages put
// in through PutPage are considered dirty until flushed; GetPage serves
// out of the cache on a hit and faults through to the file manager
// (inserting the result) on a miss.
type BufferPool struct {
	mu       sync.Mutex
	capacity int
	fm       *FileManager

	entries map[PageID]*list.Element
	order   *list.List // front = most recently used

	hits, misses int64
}

type bufferEntry struct {
	page  *Page
	dirty bool
}

// NewBufferPool creates a buffer pool of the given page capacity in front
// of fm.
func NewBufferPool(capacity int, fm *FileManager) *BufferPool {
	return &BufferPool{
		capacity: capacity,
		fm:       fm,
		entries:  make(map[PageID]*list.Element),
		order:    list.New(),
	}
}

// GetPage returns the page at id, fetching it from the file manager and
// caching it on a miss, evicting the least recently used page if the pool
// is at capacity.
func (bp *BufferPool) GetPage(id PageID) (*Page, error) {
	if id == 0 {
		return nil, ErrInvalidPageID
	}

	bp.mu.Lock()
	if elem, ok := bp.entries[id]; ok {
		bp.order.MoveToFront(elem)
		page := elem.Value.(*bufferEntry).page
		bp.mu.Unlock()
		atomic.AddInt64(&bp.hits, 1)
		return page, nil
	}
	bp.mu.Unlock()

	atomic.AddInt64(&bp.misses, 1)
	page, err := bp.fm.ReadPage(id)
	if err != nil {
		return nil, err
	}
	bp.insert(page, false)
	return page, nil
}

// PutPage installs page in the cache as dirty, evicting the least
// recently used entry if the pool is full.
func (bp *BufferPool) PutPage(page *Page) error {
	if page.ID == 0 {
		return ErrInvalidPageID
	}
	bp.insert(page, true)
	return nil
}

func (bp *BufferPool) insert(page *Page, dirty bool) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if elem, ok := bp.entries[page.ID]; ok {
		entry := elem.Value.(*bufferEntry)
		entry.page = page
		entry.dirty = entry.dirty || dirty
		bp.order.MoveToFront(elem)
		return
	}

	if bp.capacity > 0 && bp.order.Len() >= bp.capacity {
		bp.evictLocked()
	}

	elem := bp.order.PushFront(&bufferEntry{page: page, dirty: dirty})
	bp.entries[page.ID] = elem
}

// evictLocked drops the least recently used entry, flushing it first if
// dirty. Caller must hold bp.mu.
func (bp *BufferPool) evictLocked() {
	back := bp.order.Back()
	if back == nil {
		return
	}
	entry := back.Value.(*bufferEntry)
	if entry.dirty {
		bp.fm.WritePage(entry.page)
	}
	bp.order.Remove(back)
	delete(bp.entries, entry.page.ID)
}

// FlushPage writes the page at id back through the file manager if it is
// cached and dirty.
func (bp *BufferPool) FlushPage(id PageID) error {
	bp.mu.Lock()
	elem, ok := bp.entries[id]
	if !ok {
		bp.mu.Unlock()
		return nil
	}
	entry := elem.Value.(*bufferEntry)
	page := entry.page
	dirty := entry.dirty
	entry.dirty = false
	bp.mu.Unlock()

	if !dirty {
		return nil
	}
	return bp.fm.WritePage(page)
}

// FlushAll writes every dirty cached page back through the file manager.
func (bp *BufferPool) FlushAll() error {
	bp.mu.Lock()
	ids := make([]PageID, 0, len(bp.entries))
	for id := range bp.entries {
		ids = append(ids, id)
	}
	bp.mu.Unlock()

	for _, id := range ids {
		if err := bp.FlushPage(id); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports hit/miss counters and current/maximum occupancy.
func (bp *BufferPool) Stats() (hits, misses int64, used, capacity int) {
	bp.mu.Lock()
	used = bp.order.Len()
	bp.mu.Unlock()
	return atomic.LoadInt64(&bp.hits), atomic.LoadInt64(&bp.misses), used, bp.capacity
}
