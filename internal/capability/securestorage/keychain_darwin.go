//go:build darwin

package securestorage

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/krema-build/krema/internal/errors"
)

// keychainStore drives the macOS Keychain via the `security` CLI,
// scoped to a generic-password service name so entries don't collide
// across applications.
type keychainStore struct {
	service string
}

// New returns the platform secure storage backend, namespaced under
// service (the app's bundle identifier).
func New(service string) Store {
	return &keychainStore{service: service}
}

func (s *keychainStore) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = exec.CommandContext(ctx, "security", "delete-generic-password", "-a", key, "-s", s.service).Run()
	if err := exec.CommandContext(ctx, "security", "add-generic-password", "-a", key, "-s", s.service, "-w", value).Run(); err != nil {
		return errors.Wrap(errors.IO, "keychain add-generic-password", err)
	}
	return nil
}

func (s *keychainStore) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "security", "find-generic-password", "-a", key, "-s", s.service, "-w").Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 44 {
			return "", false, nil
		}
		return "", false, errors.Wrap(errors.IO, "keychain find-generic-password", err)
	}
	return strings.TrimRight(string(out), "\n"), true, nil
}

func (s *keychainStore) Has(key string) (bool, error) {
	_, ok, err := s.Get(key)
	return ok, err
}

func (s *keychainStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, "security", "delete-generic-password", "-a", key, "-s", s.service).Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 44 {
			return nil
		}
		return errors.Wrap(errors.IO, "keychain delete-generic-password", err)
	}
	return nil
}
