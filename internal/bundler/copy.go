package bundler

import (
	"io"
	"os"
	"path/filepath"

	"github.com/krema-build/krema/internal/errors"
)

// copyFile copies src to dst, creating dst's parent directory and
// preserving mode. Grounded on the same copy-then-chmod shape the
// lightshell build.go uses when staging files into its app bundle.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(errors.IO, "open source file "+src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(errors.IO, "create destination directory for "+dst, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return errors.Wrap(errors.IO, "create destination file "+dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrap(errors.IO, "copy "+src+" to "+dst, err)
	}
	return nil
}

// copyDir recursively copies src into dst, preserving the relative tree.
// Used to stage the asset bundle and native support libraries into a
// platform bundle.
func copyDir(src, dst string) error {
	if src == "" {
		return nil
	}
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(errors.IO, "stat "+src, err)
	}
	if !info.IsDir() {
		return copyFile(src, dst, info.Mode())
	}
	return filepath.Walk(src, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(dst, rel)
		if fi.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		return copyFile(path, dest, fi.Mode())
	})
}
