package storage

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

const (
	dataFileName      = "data.db"
	freePagesFileName = "free_pages.db"
)

// FileManager owns the two files a data directory holds: the page slot
// file and an append-only log of deallocated page IDs that AllocatePage
// drains before minting a new one.
type FileManager struct {
	mu sync.Mutex

	pageSize int
	backend  pageBackend
	freeFile *os.File

	nextPageID PageID
}

// NewFileManager opens (creating if necessary) the data and free-page
// files under dir.
func NewFileManager(dir string, pageSize int) (*FileManager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create data directory")
	}

	backend, err := newPageBackend(filepath.Join(dir, dataFileName))
	if err != nil {
		return nil, err
	}

	freeFile, err := os.OpenFile(filepath.Join(dir, freePagesFileName), os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		backend.close()
		return nil, errors.Wrap(err, "open free page file")
	}

	return &FileManager{
		pageSize:   pageSize,
		backend:    backend,
		freeFile:   freeFile,
		nextPageID: 1,
	}, nil
}

// AllocatePage returns a reusable page ID from the free list if one is
// available, otherwise mints the next sequential ID.
func (fm *FileManager) AllocatePage() (PageID, error) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	id, err := fm.popFreeID()
	if err != nil {
		return 0, err
	}
	if id == 0 {
		id = fm.nextPageID
		fm.nextPageID++
	}

	if err := fm.backend.ensureCapacity(uint64(id), fm.pageSize); err != nil {
		return 0, err
	}
	return id, nil
}

// DeallocatePage appends id to the free list for later reuse.
func (fm *FileManager) DeallocatePage(id PageID) error {
	if id == 0 {
		return ErrInvalidPageID
	}
	fm.mu.Lock()
	defer fm.mu.Unlock()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	if _, err := fm.freeFile.Seek(0, os.SEEK_END); err != nil {
		return errors.Wrap(err, "seek free page file")
	}
	_, err := fm.freeFile.Write(buf[:])
	return errors.Wrap(err, "append free page file")
}

// popFreeID removes and returns the most recently freed page ID, or 0 if
// the free list is empty.
func (fm *FileManager) popFreeID() (PageID, error) {
	info, err := fm.freeFile.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "stat free page file")
	}
	if info.Size() < 8 {
		return 0, nil
	}

	var buf [8]byte
	if _, err := fm.freeFile.ReadAt(buf[:], info.Size()-8); err != nil {
		return 0, errors.Wrap(err, "read free page file")
	}
	if err := fm.freeFile.Truncate(info.Size() - 8); err != nil {
		return 0, errors.Wrap(err, "truncate free page file")
	}
	return PageID(binary.LittleEndian.Uint64(buf[:])), nil
}

// WritePage writes page.Data to its slot, zero-padding or truncating to
// the configured page size.
func (fm *FileManager) WritePage(page *Page) error {
	if page.ID == 0 {
		return ErrInvalidPageID
	}
	fm.mu.Lock()
	defer fm.mu.Unlock()

	data := page.Data
	if len(data) != fm.pageSize {
		padded := make([]byte, fm.pageSize)
		copy(padded, data)
		data = padded
	}

	if err := fm.backend.ensureCapacity(uint64(page.ID), fm.pageSize); err != nil {
		return err
	}
	return fm.backend.writeSlot(uint64(page.ID)-1, data)
}

// ReadPage reads the page at id back out of its slot.
func (fm *FileManager) ReadPage(id PageID) (*Page, error) {
	if id == 0 {
		return nil, ErrInvalidPageID
	}
	fm.mu.Lock()
	defer fm.mu.Unlock()

	data, err := fm.backend.readSlot(uint64(id)-1, fm.pageSize)
	if err != nil {
		return nil, err
	}
	return &Page{ID: id, Data: data}, nil
}

// Sync flushes both files to stable storage.
func (fm *FileManager) Sync() error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	if err := fm.backend.sync(); err != nil {
		return err
	}
	return errors.Wrap(fm.freeFile.Sync(), "sync free page file")
}

// Close releases both files.
func (fm *FileManager) Close() error {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	err := fm.backend.close()
	if cerr := fm.freeFile.Close(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, "close free page file")
	}
	return err
}

// pageCount reports the highest page ID minted so far.
func (fm *FileManager) pageCount() int {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return int(fm.nextPageID) - 1
}

// freePageCount reports how many page IDs are waiting to be reused.
func (fm *FileManager) freePageCount() int {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	info, err := fm.freeFile.Stat()
	if err != nil {
		return 0
	}
	return int(info.Size() / 8)
}
