// Package logic implements the derive, inspect and check workflows behind the CLI.
package logic

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/pixsecret/internal/config"
	"github.com/idelchi/pixsecret/internal/export"
	"github.com/idelchi/pixsecret/internal/filter"
)

// outcome is the result of processing one file.
type outcome struct {
	input       string
	output      string
	fingerprint string
	requested   int
	length      int
	sealed      bool
	size        int64
	err         error
}

// tally accumulates outcomes for the stats summary.
type tally struct {
	scanned   int
	excluded  int
	processed int
	errored   int
	size      int64
	start     time.Time
}

// runPipeline applies work to every file in cfg.Files with at most cfg.Parallel
// workers. Outcomes are logged from a single goroutine in completion order.
//
//nolint:cyclop // worker fan-out with printer goroutine
func runPipeline(cfg *config.Config, logger zerolog.Logger, verb string, work func(string) outcome, stats *tally) error {
	results := make(chan outcome, len(cfg.Files))

	group := errgroup.Group{}
	group.SetLimit(cfg.Parallel)

	printed := make(chan struct{})

	go func() {
		defer close(printed)

		// Fingerprints are value keys: identical secrets share one.
		seen := make(map[string]string)

		for res := range results {
			if res.err != nil {
				stats.errored++

				logger.Error().Err(res.err).Str("input", res.input).Msg(verb + " failed")

				continue
			}

			stats.processed++
			stats.size += res.size

			event := logger.Info().Str("input", res.input)
			if res.output != "" {
				event = event.Str("output", res.output)
			}

			event.
				Int("requested", res.requested).
				Int("length", res.length).
				Bool("sealed", res.sealed).
				Str("fingerprint", res.fingerprint).
				Msg(verb)

			if other, ok := seen[res.fingerprint]; ok {
				logger.Warn().Str("input", res.input).Str("same_as", other).Msg("identical secret")
			} else {
				seen[res.fingerprint] = res.input
			}
		}
	}()

	for _, file := range cfg.Files {
		group.Go(func() error {
			res := work(file)
			results <- res

			return res.err
		})
	}

	err := group.Wait()

	close(results)

	<-printed

	if cfg.Stats {
		printStats(*stats, time.Since(stats.start))
	}

	if err != nil {
		return fmt.Errorf("%s: %d of %d file(s) failed: %w", verb, stats.errored, len(cfg.Files), err)
	}

	return nil
}

// resolveFiles expands cfg.Files through the include/exclude filters in place.
// defaultInclude applies when no include patterns were given; defaultExclude always applies.
func resolveFiles(cfg *config.Config, defaultInclude, defaultExclude string) (tally, error) {
	stats := tally{start: time.Now()}

	includes, err := filter.Merge(cfg.Include, cfg.IncludeFrom)
	if err != nil {
		return stats, fmt.Errorf("loading include patterns: %w", err)
	}

	excludes, err := filter.Merge(cfg.Exclude, cfg.ExcludeFrom)
	if err != nil {
		return stats, fmt.Errorf("loading exclude patterns: %w", err)
	}

	hasIncludes := len(cfg.Include) > 0 || cfg.IncludeFrom != ""

	if !hasIncludes && defaultInclude != "" {
		includes = append(includes, defaultInclude)
		hasIncludes = true
	}

	if defaultExclude != "" {
		excludes = append(excludes, defaultExclude)
	}

	files, scanned, err := filter.Resolve(cfg.Files, includes, excludes, hasIncludes)
	if err != nil {
		return stats, fmt.Errorf("filtering files: %w", err)
	}

	cfg.Files = files

	stats.scanned = scanned
	stats.excluded = scanned - len(files)

	return stats, nil
}

// newSealer returns a Sealer when a key is configured, nil otherwise.
func newSealer(cfg *config.Config) (*export.Sealer, error) {
	if !cfg.Sealed() {
		return nil, nil //nolint:nilnil // no key means plain exports
	}

	key, err := cfg.SealKey()
	if err != nil {
		return nil, err
	}

	sealer, err := export.NewSealer(key)
	if err != nil {
		return nil, fmt.Errorf("creating sealer: %w", err)
	}

	return sealer, nil
}

func printStats(stats tally, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Scanned:   %d\n", stats.scanned)
	fmt.Fprintf(os.Stderr, "  Excluded:  %d\n", stats.excluded)
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", stats.processed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", stats.errored)
	//nolint:gosec // size is always non-negative (sum of file sizes)
	fmt.Fprintf(os.Stderr, "  Size:      %s\n", humanize.IBytes(uint64(max(0, stats.size))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
