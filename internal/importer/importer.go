// internal/importer/importer.go
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/nolanv/stocklens/internal/repository"
	"github.com/nolanv/stocklens/internal/storage"
	"github.com/rs/zerolog/log"
)

// Importer ingests snapshot CSV files into stock_snapshots, either from a
// local directory or from S3-compatible object storage.
type Importer struct {
	history     repository.UsageHistoryRepository
	store       storage.ObjectStorage
	workerCount int
	dataDir     string
}

// Result summarizes one import run
type Result struct {
	Files    int
	Failed   int
	Rows     int
	Inserted int
}

func New(history repository.UsageHistoryRepository, store storage.ObjectStorage, workerCount int, dataDir string) *Importer {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Importer{
		history:     history,
		store:       store,
		workerCount: workerCount,
		dataDir:     dataDir,
	}
}

// ImportDir imports every .csv file under dir using a bounded worker pool.
// A file that fails to parse or insert is logged and counted; the rest of
// the batch continues.
func (imp *Importer) ImportDir(ctx context.Context, dir string) (Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, fmt.Errorf("read import dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	return imp.importFiles(ctx, files), nil
}

// ImportFromStorage downloads every object under prefix into the data
// directory, then imports the downloaded files.
func (imp *Importer) ImportFromStorage(ctx context.Context, prefix string) (Result, error) {
	if imp.store == nil {
		return Result{}, fmt.Errorf("object storage is not configured")
	}

	objects, err := imp.store.ListObjects(ctx, prefix)
	if err != nil {
		return Result{}, fmt.Errorf("list snapshot objects: %w", err)
	}

	destDir := filepath.Join(imp.dataDir, "snapshots")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create download dir: %w", err)
	}

	var files []string
	for _, obj := range objects {
		if !strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			continue
		}
		dest := filepath.Join(destDir, filepath.Base(obj.Key))
		if err := imp.store.DownloadObject(ctx, obj.Key, dest); err != nil {
			return Result{}, fmt.Errorf("download %s: %w", obj.Key, err)
		}
		files = append(files, dest)
	}

	return imp.importFiles(ctx, files), nil
}

func (imp *Importer) importFiles(ctx context.Context, files []string) Result {
	var (
		failed   atomic.Int64
		rows     atomic.Int64
		inserted atomic.Int64
	)

	jobChan := make(chan string, len(files))
	var wg sync.WaitGroup

	for i := 0; i < imp.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for path := range jobChan {
				n, total, err := imp.importFile(ctx, path)
				if err != nil {
					log.Error().Err(err).Int("worker", workerID).Str("file", path).Msg("snapshot import failed")
					failed.Add(1)
					continue
				}
				rows.Add(int64(total))
				inserted.Add(int64(n))
				log.Info().Str("file", path).Int("rows", total).Int("inserted", n).Msg("snapshot file imported")
			}
		}(i)
	}

	for _, path := range files {
		select {
		case <-ctx.Done():
			close(jobChan)
			wg.Wait()
			return Result{Files: len(files), Failed: int(failed.Load()), Rows: int(rows.Load()), Inserted: int(inserted.Load())}
		case jobChan <- path:
		}
	}
	close(jobChan)
	wg.Wait()

	return Result{
		Files:    len(files),
		Failed:   int(failed.Load()),
		Rows:     int(rows.Load()),
		Inserted: int(inserted.Load()),
	}
}

func (imp *Importer) importFile(ctx context.Context, path string) (inserted, total int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	source := "import:" + filepath.Base(path)
	snapshots, err := ParseSnapshotCSV(f, source)
	if err != nil {
		return 0, 0, fmt.Errorf("parse %s: %w", path, err)
	}

	n, err := imp.history.InsertSnapshots(ctx, snapshots)
	if err != nil {
		return 0, len(snapshots), err
	}

	return n, len(snapshots), nil
}
