package logic

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/idelchi/pixsecret/internal/config"
	"github.com/idelchi/pixsecret/internal/filter"
)

// RunCheck validates that every include/exclude pattern matches at least one file.
func RunCheck(cfg *config.Config, logger zerolog.Logger) error {
	includes, err := filter.Merge(cfg.Include, cfg.IncludeFrom)
	if err != nil {
		return fmt.Errorf("loading include patterns: %w", err)
	}

	excludes, err := filter.Merge(cfg.Exclude, cfg.ExcludeFrom)
	if err != nil {
		return fmt.Errorf("loading exclude patterns: %w", err)
	}

	if len(includes) == 0 && len(excludes) == 0 {
		return errors.New("no include or exclude patterns to check")
	}

	candidates, err := filter.Candidates(cfg.Files)
	if err != nil {
		return err
	}

	failures := checkPatterns(logger, "include", includes, candidates) +
		checkPatterns(logger, "exclude", excludes, candidates)

	if failures > 0 {
		return fmt.Errorf("%d pattern(s) matched no files", failures)
	}

	return nil
}

// checkPatterns tests each pattern individually against candidates.
// Returns the number of patterns that matched zero files or failed to compile.
func checkPatterns(logger zerolog.Logger, kind string, patterns, candidates []string) int {
	var failures int

	for _, pattern := range patterns {
		flt, err := filter.NewFilter([]string{pattern}, nil)
		if err != nil {
			logger.Error().Err(err).Str(kind, pattern).Msg("invalid pattern")

			failures++

			continue
		}

		var count int

		for _, path := range candidates {
			if flt.Match(path, true) {
				count++
			}
		}

		if count == 0 {
			logger.Error().Str(kind, pattern).Msg("pattern matched no files")

			failures++

			continue
		}

		logger.Info().Str(kind, pattern).Int("files", count).Msg("pattern ok")
	}

	return failures
}
