package recon

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// materialize copies a source document into the local working directory,
// preserving the filename and overwriting any stale copy. The remote
// source may be a volatile or locked network location; the extraction call
// needs a stable local artifact.
func materialize(srcPath, localDir string) (string, error) {
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return "", eris.Wrapf(err, "recon: create local dir %s", localDir)
	}

	dstPath := filepath.Join(localDir, filepath.Base(srcPath))

	src, err := os.Open(srcPath)
	if err != nil {
		return "", eris.Wrapf(err, "recon: open source %s", srcPath)
	}
	defer src.Close() //nolint:errcheck

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", eris.Wrapf(err, "recon: create local copy %s", dstPath)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", eris.Wrapf(err, "recon: copy %s", srcPath)
	}
	if err := dst.Close(); err != nil {
		return "", eris.Wrapf(err, "recon: close local copy %s", dstPath)
	}
	return dstPath, nil
}
