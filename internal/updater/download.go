package updater

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/krema-build/krema/internal/errors"
)

// ProgressFunc reports download progress as bytes accumulate; total is 0
// when the server didn't send Content-Length.
type ProgressFunc func(downloaded, total int64)

// download streams url to a file under dir, reporting progress and
// computing a running SHA-256 digest, grounded in the teacher's
// marketplace.go downloadFile (http.Get + io.Copy into an os.Create'd
// file) generalized with a context-aware request and a progress-observing
// writer instead of a bare io.Copy.
func download(ctx context.Context, client *http.Client, url, dir string, onProgress ProgressFunc) (path string, sha256Hex string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", errors.Wrap(errors.BadRequest, "build update download request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", "", errors.Wrap(errors.TransientSystem, "download update package", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", errors.E(errors.TransientSystem, "update server returned status "+resp.Status)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", errors.Wrap(errors.IO, "create update staging directory", err)
	}
	dest := filepath.Join(dir, filepath.Base(url))
	out, err := os.Create(dest)
	if err != nil {
		return "", "", errors.Wrap(errors.IO, "create staged update file", err)
	}
	defer out.Close()

	hasher := sha256.New()
	counter := &progressWriter{onProgress: onProgress, total: resp.ContentLength}
	writer := io.MultiWriter(out, hasher, counter)

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return "", "", errors.Wrap(errors.IO, "write staged update file", err)
	}
	return dest, hex.EncodeToString(hasher.Sum(nil)), nil
}

type progressWriter struct {
	onProgress ProgressFunc
	written    int64
	total      int64
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.onProgress != nil {
		w.onProgress(w.written, w.total)
	}
	return len(p), nil
}

func decodeBase64Signature(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(errors.SerializationError, "decode update manifest signature", err)
	}
	return raw, nil
}
