package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/pable/go-volley-metrics/internal/logging"
	"github.com/pable/go-volley-metrics/internal/model"
)

// Source is one in-memory DVW file.
type Source struct {
	Name string
	Data []byte
}

// FileError is a file that failed to decode.
type FileError struct {
	Name string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.Name, e.Err) }

func (e FileError) Unwrap() error { return e.Err }

// BatchResult holds the matches that decoded and the files that did not,
// both in input order.
type BatchResult struct {
	Matches  []*model.MatchResult
	Failures []FileError
}

// ParseBatch reads and decodes paths on a pool of workers. A file that fails
// is recorded in Failures and never aborts the rest of the batch.
func ParseBatch(ctx context.Context, paths []string, workers int) (BatchResult, error) {
	sources := make([]Source, 0, len(paths))
	var failures []FileError
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			logging.Default().Warn("read dvw file failed", "file", p, "error", err)
			failures = append(failures, FileError{Name: filepath.Base(p), Err: err})
			continue
		}
		sources = append(sources, Source{Name: filepath.Base(p), Data: data})
	}

	res, err := ParseSources(ctx, sources, workers)
	if err != nil {
		return BatchResult{}, err
	}
	res.Failures = append(failures, res.Failures...)
	return res, nil
}

// ErrDecodePanic marks a file whose decode panicked. The file is reported
// as a failure like any other.
var ErrDecodePanic = errors.New("decoder panicked")

// decode is the per-file decoder run by the pool.
var decode = Parse

type outcome struct {
	match *model.MatchResult
	err   error
}

// ParseSources decodes sources in parallel. Every worker decodes its own
// copy of a file, so no state is shared between decodes. The returned error
// is only set when the pool itself cannot run or ctx is cancelled before
// all files are submitted.
func ParseSources(ctx context.Context, sources []Source, workers int) (BatchResult, error) {
	var result BatchResult
	if len(sources) == 0 {
		return result, nil
	}
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	outcomes := make([]outcome, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return BatchResult{}, fmt.Errorf("parse batch: %w", err)
		}
		i, src := i, src
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = outcome{err: errors.Wrapf(ErrDecodePanic, "parse %s: %v", src.Name, r)}
				}
			}()
			m, err := decode(src.Name, src.Data)
			outcomes[i] = outcome{match: m, err: err}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return BatchResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	wg.Wait()

	log := logging.Default().With("workers", workers)
	for i, o := range outcomes {
		name := sources[i].Name
		if o.err == nil && o.match == nil {
			o.err = errors.Wrapf(ErrDecodePanic, "parse %s: no result", name)
		}
		if o.err != nil {
			log.Warn("dvw file skipped", "file", name, "error", o.err)
			result.Failures = append(result.Failures, FileError{Name: name, Err: o.err})
			continue
		}
		for _, d := range o.match.Diagnostics {
			log.Debug("dvw line skipped", "file", name, "diagnostic", d.String())
		}
		result.Matches = append(result.Matches, o.match)
	}
	log.Info("dvw batch decoded", "files", len(sources), "matches", len(result.Matches), "failures", len(result.Failures))
	return result, nil
}
