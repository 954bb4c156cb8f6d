package logic

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/idelchi/pixsecret/internal/config"
	"github.com/idelchi/pixsecret/internal/export"
	"github.com/idelchi/pixsecret/pkg/secret"
	"github.com/idelchi/pixsecret/pkg/seed"
)

// ErrMismatch is returned when an export differs from the secret derived from the
// configured password.
var ErrMismatch = errors.New("export does not match password")

// RunInspect decodes exports, which validates the length formula and the permutation,
// and logs their parameters. When a password or password file is configured every
// export is also compared against a fresh derivation.
func RunInspect(cfg *config.Config, logger zerolog.Logger) error {
	sealer, err := newSealer(cfg)
	if err != nil {
		return err
	}

	var material seed.Seed

	if cfg.HasSeed() {
		if material, err = cfg.Seed(); err != nil {
			return err
		}
	}

	stats, err := resolveFiles(cfg, "*"+cfg.Suffix, "")
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	verifier := newVerifier(material)

	return runPipeline(cfg, logger, "inspected", func(file string) outcome {
		return inspectFile(file, sealer, verifier)
	}, &stats)
}

// inspectFile decodes one export and, when verifier holds a seed, compares it
// against a fresh derivation.
func inspectFile(file string, sealer *export.Sealer, verifier *verifier) outcome {
	stat, err := os.Stat(file)
	if err != nil {
		return outcome{input: file, err: fmt.Errorf("stat export: %w", err)}
	}

	info, err := export.ReadFile(file, sealer)
	if err != nil {
		return outcome{input: file, err: err}
	}

	sec := info.Secret

	if verifier.material != nil {
		if err := verifier.verify(sec); err != nil {
			return outcome{input: file, err: err}
		}
	}

	return outcome{
		input:       file,
		fingerprint: sec.Fingerprint(),
		requested:   sec.RequestedLength(),
		length:      sec.SequenceLength(),
		sealed:      info.Sealed,
		size:        stat.Size(),
	}
}

// verifier derives the expected secret once per (algorithm, length) pair.
type verifier struct {
	material seed.Seed

	mu       sync.Mutex
	expected map[string]*secret.CipherSecret
}

func newVerifier(material seed.Seed) *verifier {
	return &verifier{material: material, expected: make(map[string]*secret.CipherSecret)}
}

func (v *verifier) verify(sec *secret.CipherSecret) error {
	key := fmt.Sprintf("%s/%d", sec.Algorithm(), sec.RequestedLength())

	v.mu.Lock()
	want, ok := v.expected[key]
	v.mu.Unlock()

	if !ok {
		built, err := secret.Build(v.material, sec.RequestedLength(), secret.WithAlgorithm(sec.Algorithm()))
		if err != nil {
			return fmt.Errorf("deriving expected secret: %w", err)
		}

		v.mu.Lock()
		v.expected[key] = built
		v.mu.Unlock()

		want = built
	}

	if !want.Equal(sec) {
		return fmt.Errorf("%w: fingerprint %s, expected %s", ErrMismatch, sec.Fingerprint(), want.Fingerprint())
	}

	return nil
}
