package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/z2z63/DB2024-OSCore/internal/config"
)

func testConfig(t *testing.T, bufferSize int) *config.StorageConfig {
	t.Helper()
	dir, err := os.MkdirTemp("", "storage_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return &config.StorageConfig{
		DataDirectory: dir,
		PageSize:      4096,
		BufferSize:    bufferSize,
		MaxFileSize:   1024 * 1024,
	}
}

func TestEngineAllocateWriteRead(t *testing.T) {
	cfg := testConfig(t, 10)
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	defer engine.Close()

	pageID, err := engine.AllocatePage()
	if err != nil {
		t.Fatalf("failed to allocate page: %v", err)
	}
	if pageID == 0 {
		t.Fatal("allocated page ID should not be 0")
	}

	testData := make([]byte, cfg.PageSize)
	for i := range testData {
		testData[i] = byte(i % 256)
	}

	if err := engine.WritePage(&Page{ID: pageID, Data: testData}); err != nil {
		t.Fatalf("failed to write page: %v", err)
	}

	readPage, err := engine.ReadPage(pageID)
	if err != nil {
		t.Fatalf("failed to read page: %v", err)
	}
	if readPage.ID != pageID {
		t.Errorf("page ID mismatch: expected %d, got %d", pageID, readPage.ID)
	}
	for i, expected := range testData {
		if readPage.Data[i] != expected {
			t.Fatalf("data mismatch at byte %d: expected %d, got %d", i, expected, readPage.Data[i])
		}
	}
}

func TestEngineDeallocatePage(t *testing.T) {
	cfg := testConfig(t, 10)
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	defer engine.Close()

	pageID, err := engine.AllocatePage()
	if err != nil {
		t.Fatalf("failed to allocate page: %v", err)
	}
	if err := engine.DeallocatePage(pageID); err != nil {
		t.Fatalf("failed to deallocate page: %v", err)
	}

	stats := engine.Stats()
	if stats.FreePages == 0 {
		t.Error("expected a free page after deallocation")
	}
}

func TestEngineStatsAndSync(t *testing.T) {
	cfg := testConfig(t, 10)
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	defer engine.Close()

	stats := engine.Stats()
	if stats.BufferSize <= 0 {
		t.Error("buffer size should be positive")
	}
	if stats.TotalPages < 0 {
		t.Error("total pages should be non-negative")
	}
	if err := engine.Sync(); err != nil {
		t.Errorf("failed to sync: %v", err)
	}
}

func TestEnginePersistsAcrossReopen(t *testing.T) {
	cfg := testConfig(t, 10)

	var pageID PageID
	testData := make([]byte, cfg.PageSize)
	for i := range testData {
		testData[i] = byte((i * 7) % 256)
	}

	func() {
		engine, err := NewEngine(cfg)
		if err != nil {
			t.Fatalf("failed to create engine: %v", err)
		}
		pageID, err = engine.AllocatePage()
		if err != nil {
			t.Fatalf("failed to allocate page: %v", err)
		}
		if err := engine.WritePage(&Page{ID: pageID, Data: testData}); err != nil {
			t.Fatalf("failed to write page: %v", err)
		}
		if err := engine.Close(); err != nil {
			t.Fatalf("failed to close engine: %v", err)
		}
	}()

	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("failed to reopen engine: %v", err)
	}
	defer engine.Close()

	page, err := engine.ReadPage(pageID)
	if err != nil {
		t.Fatalf("failed to read persisted page: %v", err)
	}
	for i, expected := range testData {
		if page.Data[i] != expected {
			t.Fatalf("persisted data mismatch at byte %d: expected %d, got %d", i, expected, page.Data[i])
		}
	}
}

func TestEngineConcurrentAccess(t *testing.T) {
	cfg := testConfig(t, 20)
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	defer engine.Close()

	const numWorkers = 8
	const pagesPerWorker = 10

	done := make(chan error, numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			for i := 0; i < pagesPerWorker; i++ {
				pageID, err := engine.AllocatePage()
				if err != nil {
					done <- err
					return
				}
				data := make([]byte, cfg.PageSize)
				for j := range data {
					data[j] = byte((workerID*1000 + i + j) % 256)
				}
				if err := engine.WritePage(&Page{ID: pageID, Data: data}); err != nil {
					done <- err
					return
				}
				if _, err := engine.ReadPage(pageID); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}(w)
	}

	timeout := time.After(10 * time.Second)
	for completed := 0; completed < numWorkers; completed++ {
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("worker error: %v", err)
			}
		case <-timeout:
			t.Fatal("test timed out")
		}
	}

	stats := engine.Stats()
	if stats.TotalPages < numWorkers*pagesPerWorker {
		t.Errorf("expected at least %d pages, got %d", numWorkers*pagesPerWorker, stats.TotalPages)
	}
}

func TestFileManagerInvalidPageID(t *testing.T) {
	dir, err := os.MkdirTemp("", "file_manager_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	fm, err := NewFileManager(dir, 4096)
	if err != nil {
		t.Fatalf("failed to create file manager: %v", err)
	}
	defer fm.Close()

	if _, err := fm.ReadPage(0); err != ErrInvalidPageID {
		t.Errorf("expected ErrInvalidPageID, got %v", err)
	}
	if err := fm.WritePage(&Page{ID: 0, Data: make([]byte, 4096)}); err != ErrInvalidPageID {
		t.Errorf("expected ErrInvalidPageID, got %v", err)
	}
}

func TestFileManagerCreatesFiles(t *testing.T) {
	dir, err := os.MkdirTemp("", "file_manager_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	fm, err := NewFileManager(dir, 4096)
	if err != nil {
		t.Fatalf("failed to create file manager: %v", err)
	}
	defer fm.Close()

	if _, err := os.Stat(filepath.Join(dir, dataFileName)); os.IsNotExist(err) {
		t.Error("data file was not created")
	}
	if _, err := os.Stat(filepath.Join(dir, freePagesFileName)); os.IsNotExist(err) {
		t.Error("free pages file was not created")
	}
}

func TestBufferPoolHitsAndEviction(t *testing.T) {
	dir, err := os.MkdirTemp("", "buffer_pool_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	const pageSize = 4096
	const capacity = 3

	fm, err := NewFileManager(dir, pageSize)
	if err != nil {
		t.Fatalf("failed to create file manager: %v", err)
	}
	defer fm.Close()

	bp := NewBufferPool(capacity, fm)

	pageID, err := fm.AllocatePage()
	if err != nil {
		t.Fatalf("failed to allocate page: %v", err)
	}
	data := make([]byte, pageSize)
	for i := range data {
		data[i] = byte(i % 256)
	}
	if err := bp.PutPage(&Page{ID: pageID, Data: data}); err != nil {
		t.Fatalf("failed to put page: %v", err)
	}
	got, err := bp.GetPage(pageID)
	if err != nil {
		t.Fatalf("failed to get page: %v", err)
	}
	for i, expected := range data {
		if got.Data[i] != expected {
			t.Fatalf("data mismatch at byte %d", i)
		}
	}

	for i := 0; i < capacity+2; i++ {
		pageID, err := fm.AllocatePage()
		if err != nil {
			t.Fatalf("failed to allocate page: %v", err)
		}
		if err := bp.PutPage(&Page{ID: pageID, Data: make([]byte, pageSize)}); err != nil {
			t.Fatalf("failed to put page %d: %v", i, err)
		}
	}

	hits, misses, used, cap := bp.Stats()
	if used > cap {
		t.Errorf("buffer pool exceeded capacity: used=%d, capacity=%d", used, cap)
	}
	if hits == 0 && misses == 0 {
		t.Error("no buffer statistics recorded")
	}
}

func TestBufferPoolFlush(t *testing.T) {
	dir, err := os.MkdirTemp("", "buffer_pool_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	fm, err := NewFileManager(dir, 4096)
	if err != nil {
		t.Fatalf("failed to create file manager: %v", err)
	}
	defer fm.Close()

	bp := NewBufferPool(3, fm)

	pageID, err := fm.AllocatePage()
	if err != nil {
		t.Fatalf("failed to allocate page: %v", err)
	}
	if err := bp.PutPage(&Page{ID: pageID, Data: make([]byte, 4096)}); err != nil {
		t.Fatalf("failed to put page: %v", err)
	}
	if err := bp.FlushPage(pageID); err != nil {
		t.Errorf("failed to flush page: %v", err)
	}
	if err := bp.FlushAll(); err != nil {
		t.Errorf("failed to flush all pages: %v", err)
	}
}
