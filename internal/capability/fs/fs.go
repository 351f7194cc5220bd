// Package fs implements the filesystem capability module (spec §4.10 /
// testable-property "fs.writeTextFile(p,c); fs.exists(p); fs.readTextFile(p)
// == c; fs.stat(p).size == len(c in utf8)"). Every operation is permission-
// gated at the command layer (fs:read / fs:write); this package only
// implements the mechanics, grounded in the teacher's direct os.ReadFile/
// os.WriteFile usage (internal/sync/parser.go, internal/handlers/console.go)
// rather than any third-party filesystem abstraction — the teacher never
// reaches for one, and neither does the rest of the pack.
package fs

import (
	"os"
	"time"

	"github.com/krema-build/krema/internal/errors"
)

// Stat is the subset of os.FileInfo the bridge surfaces to the frontend.
type Stat struct {
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// ReadTextFile reads path as UTF-8 text.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", mapErr("read", path, err)
	}
	return string(data), nil
}

// WriteTextFile writes content to path, creating or truncating it.
func WriteTextFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return mapErr("write", path, err)
	}
	return nil
}

// Exists reports whether path exists (any type).
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// StatFile returns size/mtime/isDir for path.
func StatFile(path string) (Stat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stat{}, mapErr("stat", path, err)
	}
	return Stat{Size: info.Size(), ModTime: info.ModTime(), IsDir: info.IsDir()}, nil
}

// DirEntry is one entry returned by ReadDir.
type DirEntry struct {
	Name  string
	IsDir bool
}

// ReadDir lists the immediate contents of path.
func ReadDir(path string) ([]DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, mapErr("readDir", path, err)
	}
	result := make([]DirEntry, len(entries))
	for i, e := range entries {
		result[i] = DirEntry{Name: e.Name(), IsDir: e.IsDir()}
	}
	return result, nil
}

// Remove deletes path.
func Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return mapErr("remove", path, err)
	}
	return nil
}

// Mkdir creates path and any missing parents.
func Mkdir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return mapErr("mkdir", path, err)
	}
	return nil
}

func mapErr(op, path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.IO, op+" "+path+": not found", err)
	}
	if os.IsPermission(err) {
		return errors.Wrap(errors.IO, op+" "+path+": permission denied", err)
	}
	return errors.Wrap(errors.IO, op+" "+path, err)
}
