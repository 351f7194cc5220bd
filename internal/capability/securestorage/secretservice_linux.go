//go:build linux

package securestorage

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/krema-build/krema/internal/errors"
)

// New returns the platform secure storage backend: the Secret Service
// (GNOME Keyring / KWallet) via secret-tool when available, falling back to
// an AES-GCM encrypted file store (fileStore, grounded in
// SPEC_FULL.md's domain-stack wiring of golang.org/x/crypto/bcrypt) on
// headless or minimal Linux installs where no Secret Service daemon runs.
func New(service string) Store {
	if _, err := exec.LookPath("secret-tool"); err == nil {
		return &secretServiceStore{service: service}
	}
	return newFileStore(service)
}

type secretServiceStore struct {
	service string
}

func (s *secretServiceStore) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "secret-tool", "store", "--label="+s.service+":"+key, "service", s.service, "account", key)
	cmd.Stdin = strings.NewReader(value)
	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.IO, "secret-tool store", err)
	}
	return nil
}

func (s *secretServiceStore) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "secret-tool", "lookup", "service", s.service, "account", key).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, errors.Wrap(errors.IO, "secret-tool lookup", err)
	}
	return strings.TrimRight(string(out), "\n"), true, nil
}

func (s *secretServiceStore) Has(key string) (bool, error) {
	_, ok, err := s.Get(key)
	return ok, err
}

func (s *secretServiceStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = exec.CommandContext(ctx, "secret-tool", "clear", "service", s.service, "account", key).Run()
	return nil
}
