package importer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stats tracks import progress.
type Stats struct {
	FilesTotal    int
	FilesImported int
	FilesSkipped  int
	FilesErrored  int

	RowsParsed   int64
	SetsInserted int64
	SetsSkipped  int64
}

// Importer walks CSV exports and ships their rows to the server in batches.
type Importer struct {
	client    *Client
	state     *StateDB
	log       *slog.Logger
	dryRun    bool
	batchSize int
	stats     Stats
}

// New creates a new Importer. In dry-run mode files are parsed and counted
// but nothing is sent and nothing is recorded in the state database.
func New(client *Client, state *StateDB, log *slog.Logger, dryRun bool, batchSize int) *Importer {
	if batchSize < 1 {
		batchSize = 500
	}
	return &Importer{client: client, state: state, log: log, dryRun: dryRun, batchSize: batchSize}
}

// Run imports every .csv file under root, in name order. A file is skipped
// when the state database already holds its current size and hash; a file
// that fails to parse is counted and skipped without aborting the run.
func (imp *Importer) Run(root string) (*Stats, error) {
	files, err := findCSVFiles(root)
	if err != nil {
		return &imp.stats, err
	}
	imp.stats.FilesTotal = len(files)

	for _, path := range files {
		if err := imp.importFile(root, path); err != nil {
			imp.stats.FilesErrored++
			imp.log.Error("file import failed", "file", path, "error", err)
		}
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(root, path string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	done, recorded, err := imp.state.IsImported(rel, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("state lookup: %w", err)
	}
	if done {
		imp.stats.FilesSkipped++
		imp.log.Info("skipping file (already imported)", "file", rel, "rows", recorded)
		return nil
	}

	rows, err := ParseFile(path)
	if err != nil {
		return err
	}
	imp.stats.RowsParsed += int64(len(rows))

	if imp.dryRun {
		imp.log.Info("dry run: parsed file", "file", rel, "rows", len(rows))
		imp.stats.FilesImported++
		return nil
	}

	for start := 0; start < len(rows); start += imp.batchSize {
		end := min(start+imp.batchSize, len(rows))
		result, err := imp.client.SendBatch(rows[start:end])
		if err != nil {
			return fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		imp.stats.SetsInserted += result.Inserted
		imp.stats.SetsSkipped += result.Skipped
	}

	if err := imp.state.MarkImported(rel, info.Size(), hash, int64(len(rows))); err != nil {
		return fmt.Errorf("recording state: %w", err)
	}
	imp.stats.FilesImported++
	imp.log.Info("imported file", "file", rel, "rows", len(rows))
	return nil
}

func findCSVFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
