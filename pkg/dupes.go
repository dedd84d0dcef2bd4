package dupfind

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"sync"

	"github.com/spf13/afero"
)

// Duplicates maps a fingerprint to every file that produced it.
// Only fingerprints shared by two or more files are present. Neither the
// iteration order of groups nor the order of records within a group is
// stable across runs; use Groups for a sorted view.
type Duplicates map[Fingerprint][]FileRecord

// FileCount returns the number of files across all groups
func (d Duplicates) FileCount() int {
	count := 0
	for _, records := range d {
		count += len(records)
	}
	return count
}

// Scanner finds duplicate files below a root directory
type Scanner struct {
	Root     string
	Fs       afero.Fs
	Workers  int
	Sink     ErrorSink
	Ignore   *IgnoreManager
	Progress Progress
}

// NewScanner creates a scanner over the OS filesystem with one worker per CPU
// and errors reported to stderr
func NewScanner(root string) *Scanner {
	return &Scanner{
		Root:    root,
		Fs:      afero.NewOsFs(),
		Workers: runtime.NumCPU(),
		Sink:    NewStderrSink(nil),
	}
}

// FindDuplicates scans root on the OS filesystem with default settings
func FindDuplicates(ctx context.Context, root string, sink ErrorSink) (Duplicates, error) {
	scanner := NewScanner(root)
	if sink != nil {
		scanner.Sink = sink
	}
	return scanner.FindDuplicates(ctx)
}

// FindDuplicates walks the root, fingerprints every regular file on the worker
// pool and returns the groups of files sharing a fingerprint.
// Unreadable entries and files are reported to the sink and skipped; the only
// error returned is a cancelled ctx or an unusable ignore file.
func (s *Scanner) FindDuplicates(ctx context.Context) (Duplicates, error) {
	defer VerboseEnter()()

	if err := s.prepare(); err != nil {
		return nil, err
	}

	VerboseLog(1, "scanning %s with %d workers", s.Root, s.Workers)

	pathChan := make(chan string, 100)
	walkErrChan := make(chan error, 1)
	go func() {
		walkErrChan <- s.scanTree(ctx, pathChan)
	}()

	pool := newHashPool(s, s.Workers)
	partials := pool.run(ctx, pathChan)

	if err := <-walkErrChan; err != nil {
		return nil, fmt.Errorf("scan of %s interrupted: %w", s.Root, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan of %s interrupted: %w", s.Root, err)
	}

	all := mergePartials(partials)
	VerboseLog(1, "fingerprinted %d files into %d distinct fingerprints", pool.hashed(), len(all))

	dupes := filterDuplicates(all, s.Workers)
	VerboseLog(1, "found %d duplicate groups covering %d files", len(dupes), dupes.FileCount())

	return dupes, nil
}

// prepare fills unset fields with defaults and loads ignore patterns before
// any worker reads them
func (s *Scanner) prepare() error {
	if s.Fs == nil {
		s.Fs = afero.NewOsFs()
	}
	if s.Workers < MinHashWorkers {
		s.Workers = runtime.NumCPU()
	}
	if s.Sink == nil {
		s.Sink = NewStderrSink(nil)
	}
	if s.Ignore != nil {
		if err := s.Ignore.LoadIgnorePatterns(); err != nil {
			return fmt.Errorf("failed to load ignore patterns: %w", err)
		}
	}
	return nil
}

// hashPool is a fixed set of fingerprint workers, each filling a private map
type hashPool struct {
	scanner  *Scanner
	workers  int
	wg       sync.WaitGroup
	partials []map[Fingerprint][]FileRecord
	counts   []int
}

func newHashPool(scanner *Scanner, workers int) *hashPool {
	return &hashPool{
		scanner:  scanner,
		workers:  workers,
		partials: make([]map[Fingerprint][]FileRecord, workers),
		counts:   make([]int, workers),
	}
}

// run starts the workers and blocks until pathChan is drained or ctx is done
func (hp *hashPool) run(ctx context.Context, pathChan <-chan string) []map[Fingerprint][]FileRecord {
	for i := 0; i < hp.workers; i++ {
		hp.partials[i] = make(map[Fingerprint][]FileRecord)
		hp.wg.Add(1)
		go hp.hashWorker(ctx, i, pathChan)
	}
	hp.wg.Wait()
	return hp.partials
}

func (hp *hashPool) hashWorker(ctx context.Context, id int, pathChan <-chan string) {
	defer hp.wg.Done()
	partial := hp.partials[id]

	for {
		select {
		case path, ok := <-pathChan:
			if !ok {
				return
			}

			fp, err := FingerprintFile(hp.scanner.Fs, path)
			if hp.scanner.Progress != nil {
				hp.scanner.Progress.Add(1)
			}
			if err != nil {
				hp.scanner.Sink.Report(err)
				continue
			}

			partial[fp] = append(partial[fp], FileRecord{Path: path, Fingerprint: fp})
			hp.counts[id]++

		case <-ctx.Done():
			return
		}
	}
}

// hashed returns the number of files fingerprinted successfully; call after run
func (hp *hashPool) hashed() int {
	total := 0
	for _, n := range hp.counts {
		total += n
	}
	return total
}

func mergePartials(partials []map[Fingerprint][]FileRecord) map[Fingerprint][]FileRecord {
	merged := make(map[Fingerprint][]FileRecord)
	for _, partial := range partials {
		for fp, records := range partial {
			merged[fp] = append(merged[fp], records...)
		}
	}
	return merged
}

// filterDuplicates drops singleton groups. The distinct fingerprints are split
// into shards filtered concurrently; all only receives reads here.
func filterDuplicates(all map[Fingerprint][]FileRecord, shards int) Duplicates {
	dupes := make(Duplicates)
	if len(all) == 0 {
		return dupes
	}

	keys := make([]Fingerprint, 0, len(all))
	for fp := range all {
		keys = append(keys, fp)
	}

	shards = max(1, min(shards, len(keys)))
	shardSize := (len(keys) + shards - 1) / shards

	var wg sync.WaitGroup
	var kept []Duplicates
	for start := 0; start < len(keys); start += shardSize {
		end := min(start+shardSize, len(keys))
		shardKept := make(Duplicates)
		kept = append(kept, shardKept)

		wg.Add(1)
		go func(shard []Fingerprint) {
			defer wg.Done()
			for _, fp := range shard {
				if records := all[fp]; len(records) > 1 {
					shardKept[fp] = records
				}
			}
		}(keys[start:end])
	}
	wg.Wait()

	for _, shardKept := range kept {
		maps.Copy(dupes, shardKept)
	}

	if IsDebugEnabled(DebugGroup) {
		DebugLog(DebugGroup, "kept %d of %d fingerprints across %d shards", len(dupes), len(all), len(kept))
	}
	return dupes
}
