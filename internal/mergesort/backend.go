package mergesort

// runBackend is the storage for one run file during the write phase. The
// sorter fills slots [0, capacity) in order, sorts the used prefix in
// place via swap, then finalizes to a durable path for the read phase.
type runBackend interface {
	set(i int, record []byte)
	get(i int) []byte
	swap(i, j int)
	// finalize truncates to n used records, releases the backing resource,
	// and returns the path the run was written to.
	finalize(n int) (string, error)
	// abort releases the backing resource and removes its temp file
	// without finalizing, for early/abnormal termination.
	abort()
}
