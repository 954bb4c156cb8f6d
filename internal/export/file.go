package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/idelchi/pixsecret/internal/fileutil"
	"github.com/idelchi/pixsecret/pkg/secret"
)

// WriteFile atomically writes sec to outPath with owner-only permissions.
func WriteFile(outPath string, sec *secret.CipherSecret, sealer *Sealer) (err error) {
	tc, err := fileutil.NewTempContext(outPath)
	if err != nil {
		return fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	if err = Encode(tc.TmpFile, sec, sealer); err != nil {
		return fmt.Errorf("encoding secret: %w", err)
	}

	if err = tc.Commit(); err != nil {
		return err
	}

	return nil
}

// ReadFile decodes the export stored at path.
func ReadFile(path string, sealer *Sealer) (Info, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Info{}, fmt.Errorf("opening export: %w", err)
	}
	defer file.Close()

	info, err := Decode(file, sealer)
	if err != nil {
		return Info{}, fmt.Errorf("decoding %q: %w", path, err)
	}

	return info, nil
}
