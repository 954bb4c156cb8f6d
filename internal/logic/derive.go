package logic

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/idelchi/pixsecret/internal/config"
	"github.com/idelchi/pixsecret/internal/export"
	"github.com/idelchi/pixsecret/internal/fileutil"
	"github.com/idelchi/pixsecret/pkg/digest"
	"github.com/idelchi/pixsecret/pkg/secret"
	"github.com/idelchi/pixsecret/pkg/seed"
)

// ErrUsage is returned for argument combinations the derive command cannot serve.
var ErrUsage = errors.New("invalid usage")

// RunDerive builds secrets. With a password or password file it writes a single export
// to cfg.Output; otherwise every resolved file in cfg.Files is used as a seed and its
// export is written next to it with cfg.Suffix appended.
func RunDerive(cfg *config.Config, logger zerolog.Logger) error {
	alg, err := cfg.Algorithm()
	if err != nil {
		return err
	}

	sealer, err := newSealer(cfg)
	if err != nil {
		return err
	}

	switch {
	case cfg.HasSeed() && len(cfg.Files) > 0:
		return fmt.Errorf("%w: seed files cannot be combined with --password or --password-file", ErrUsage)
	case cfg.HasSeed():
		if cfg.Output == "" {
			return fmt.Errorf("%w: --output is required when deriving from a password", ErrUsage)
		}

		return deriveSingle(cfg, logger, alg, sealer)
	case len(cfg.Files) == 0:
		return fmt.Errorf("%w: no password and no seed files given", ErrUsage)
	default:
		return deriveBatch(cfg, logger, alg, sealer)
	}
}

func deriveSingle(cfg *config.Config, logger zerolog.Logger, alg digest.Algorithm, sealer *export.Sealer) error {
	stats := tally{start: time.Now(), scanned: 1}

	source := "password"
	if cfg.PasswordFile != "" {
		source = cfg.PasswordFile
	}

	res := deriveTo(cfg, alg, sealer, time.Time{}, cfg.Seed)
	res.input = source
	res.output = cfg.Output

	if res.err != nil {
		return fmt.Errorf("deriving secret: %w", res.err)
	}

	stats.processed = 1
	stats.size = res.size

	logger.Info().
		Str("input", res.input).
		Str("output", res.output).
		Int("requested", res.requested).
		Int("length", res.length).
		Bool("sealed", res.sealed).
		Bool("dry", cfg.Dry).
		Str("fingerprint", res.fingerprint).
		Msg("derived")

	if cfg.Stats {
		printStats(stats, time.Since(stats.start))
	}

	return nil
}

func deriveBatch(cfg *config.Config, logger zerolog.Logger, alg digest.Algorithm, sealer *export.Sealer) error {
	stats, err := resolveFiles(cfg, "", "*"+cfg.Suffix)
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	// Explicitly named files bypass the exclude patterns; exports are never seeds.
	cfg.Files = slices.DeleteFunc(cfg.Files, func(file string) bool {
		if !strings.HasSuffix(file, cfg.Suffix) {
			return false
		}

		logger.Warn().Str("input", file).Msg("skipping existing export")

		stats.excluded++

		return true
	})

	return runPipeline(cfg, logger, "derived", func(file string) outcome {
		info, err := os.Stat(file)
		if err != nil {
			return outcome{input: file, err: fmt.Errorf("stat seed file: %w", err)}
		}

		out := *cfg
		out.Output = outputPath(file, cfg.Suffix)

		res := deriveTo(&out, alg, sealer, info.ModTime(), func() (seed.Seed, error) {
			return seed.FromFile(file)
		})
		res.input = file
		res.output = out.Output

		return res
	}, &stats)
}

// deriveTo builds a secret from the seed returned by load and writes it to cfg.Output
// unless cfg.Dry is set.
func deriveTo(
	cfg *config.Config,
	alg digest.Algorithm,
	sealer *export.Sealer,
	modTime time.Time,
	load func() (seed.Seed, error),
) outcome {
	material, err := load()
	if err != nil {
		return outcome{err: err}
	}

	sec, err := secret.Build(material, cfg.Length, secret.WithAlgorithm(alg))
	if err != nil {
		return outcome{err: fmt.Errorf("building secret: %w", err)}
	}

	res := outcome{
		fingerprint: sec.Fingerprint(),
		requested:   sec.RequestedLength(),
		length:      sec.SequenceLength(),
		sealed:      sealer != nil,
	}

	if cfg.Dry {
		return res
	}

	if err := export.WriteFile(cfg.Output, sec, sealer); err != nil {
		return outcome{err: fmt.Errorf("writing export: %w", err)}
	}

	size, err := fileutil.FinalizeOutput(cfg.Output, cfg.PreserveTimestamps && !modTime.IsZero(), modTime)
	if err != nil {
		return outcome{err: fmt.Errorf("finalizing output: %w", err)}
	}

	res.size = size

	return res
}

// outputPath appends suffix to the file name of path.
func outputPath(path, suffix string) string {
	return filepath.Join(filepath.Dir(path), filepath.Base(path)+suffix)
}
