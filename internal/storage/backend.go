package storage

// pageBackend is the raw slot storage for the data file: fixed-size reads
// and writes at a slot offset, plus the ability to grow the backing file
// when a page beyond the current capacity is allocated. Like the external
// sorter's run files, it has an mmap implementation on unix and a plain
// file-I/O one elsewhere.
type pageBackend interface {
	readSlot(slot uint64, pageSize int) ([]byte, error)
	writeSlot(slot uint64, data []byte) error
	ensureCapacity(slots uint64, pageSize int) error
	sync() error
	close() error
}
