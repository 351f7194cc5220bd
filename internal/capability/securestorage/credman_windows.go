//go:build windows

package securestorage

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// credManStore is the Windows secure storage backend. cmdkey can register
// a credential in Windows Credential Manager but, by design, cannot read
// a stored password back out, so it is unsuitable as the sole backing
// store for Get. credManStore instead treats fileStore (AES-GCM over a
// bcrypt-derived key, shared with the Linux no-Secret-Service fallback)
// as the source of truth and mirrors writes into Credential Manager on a
// best-effort basis purely so the entry is visible in the Windows
// Credential Manager UI for support/diagnostics purposes.
type credManStore struct {
	service string
	file    *fileStore
}

// New returns the platform secure storage backend, namespaced under
// service (the app's bundle identifier).
func New(service string) Store {
	return &credManStore{service: service, file: newFileStore(service)}
}

func (s *credManStore) target(key string) string {
	return fmt.Sprintf("%s/%s", s.service, key)
}

func (s *credManStore) Set(key, value string) error {
	if err := s.file.Set(key, value); err != nil {
		return err
	}
	s.mirrorToCredentialManager(key, value)
	return nil
}

// mirrorToCredentialManager best-effort registers the credential with
// Windows Credential Manager so it shows up in `cmdkey /list` and the
// Credential Manager control panel; failures here are not surfaced since
// fileStore already holds the authoritative copy.
func (s *credManStore) mirrorToCredentialManager(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	script := fmt.Sprintf(`cmdkey /generic:%q /user:krema /pass:%q`, s.target(key), value)
	_ = exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script).Run()
}

func (s *credManStore) Get(key string) (string, bool, error) {
	return s.file.Get(key)
}

func (s *credManStore) Has(key string) (bool, error) {
	return s.file.Has(key)
}

func (s *credManStore) Delete(key string) error {
	if err := s.file.Delete(key); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	script := fmt.Sprintf(`cmdkey /delete:%q`, s.target(key))
	_ = exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script).Run()
	return nil
}
