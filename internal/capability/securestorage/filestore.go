package securestorage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/krema-build/krema/internal/errors"
)

// fileStore is the fallback secure storage backend used wherever no OS
// credential service is reachable (headless Linux without a Secret
// Service daemon, per SPEC_FULL.md's domain-stack wiring of
// golang.org/x/crypto/bcrypt). Entries are kept in a single JSON document
// under the user's config directory, AES-GCM sealed with a key derived
// from a machine/service-bound passphrase via bcrypt.
//
// bcrypt is a password hash, not a KDF, so it is not used to derive the
// AES key bytes directly: the bcrypt digest of the passphrase is instead
// fed through SHA-256 to produce a fixed 32-byte key, which keeps the
// "slow, salted hash" property bcrypt is chosen for while giving AES-GCM
// the exact key length it requires.
type fileStore struct {
	mu      sync.Mutex
	path    string
	service string
}

func newFileStore(service string) *fileStore {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return &fileStore{
		path:    filepath.Join(dir, "krema", "secure", service+".json"),
		service: service,
	}
}

type sealedDocument struct {
	Salt    string            `json:"salt"`
	Entries map[string]string `json:"entries"` // key -> base64(nonce || ciphertext)
}

func (s *fileStore) key(salt []byte) ([]byte, error) {
	digest, err := bcrypt.GenerateFromPassword(append([]byte(s.service+":krema-secure-storage"), salt...), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.HandlerFault, "derive secure storage key", err)
	}
	sum := sha256.Sum256(digest)
	return sum[:], nil
}

func (s *fileStore) load() (*sealedDocument, []byte, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		salt := make([]byte, 16)
		if _, rerr := rand.Read(salt); rerr != nil {
			return nil, nil, errors.Wrap(errors.HandlerFault, "generate secure storage salt", rerr)
		}
		return &sealedDocument{Salt: base64.StdEncoding.EncodeToString(salt), Entries: map[string]string{}}, salt, nil
	}
	if err != nil {
		return nil, nil, errors.Wrap(errors.IO, "read secure storage file", err)
	}
	var doc sealedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, errors.Wrap(errors.HandlerFault, "parse secure storage file", err)
	}
	salt, err := base64.StdEncoding.DecodeString(doc.Salt)
	if err != nil {
		return nil, nil, errors.Wrap(errors.HandlerFault, "decode secure storage salt", err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]string{}
	}
	return &doc, salt, nil
}

func (s *fileStore) save(doc *sealedDocument) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(errors.IO, "create secure storage dir", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.HandlerFault, "encode secure storage file", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return errors.Wrap(errors.IO, "write secure storage file", err)
	}
	return nil
}

func (s *fileStore) seal(gcm cipher.AEAD, plaintext string) (string, error) {
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(errors.HandlerFault, "generate nonce", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *fileStore) open(gcm cipher.AEAD, encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Wrap(errors.HandlerFault, "decode entry", err)
	}
	if len(raw) < gcm.NonceSize() {
		return "", errors.E(errors.HandlerFault, "secure storage entry truncated")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Wrap(errors.HandlerFault, "decrypt entry", err)
	}
	return string(plaintext), nil
}

func (s *fileStore) gcm(salt []byte) (cipher.AEAD, error) {
	key, err := s.key(salt)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(errors.HandlerFault, "init cipher", err)
	}
	return cipher.NewGCM(block)
}

func (s *fileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, salt, err := s.load()
	if err != nil {
		return err
	}
	gcm, err := s.gcm(salt)
	if err != nil {
		return err
	}
	sealed, err := s.seal(gcm, value)
	if err != nil {
		return err
	}
	doc.Entries[key] = sealed
	return s.save(doc)
}

func (s *fileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, salt, err := s.load()
	if err != nil {
		return "", false, err
	}
	sealed, ok := doc.Entries[key]
	if !ok {
		return "", false, nil
	}
	gcm, err := s.gcm(salt)
	if err != nil {
		return "", false, err
	}
	plaintext, err := s.open(gcm, sealed)
	if err != nil {
		return "", false, err
	}
	return plaintext, true, nil
}

func (s *fileStore) Has(key string) (bool, error) {
	_, ok, err := s.Get(key)
	return ok, err
}

func (s *fileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, _, err := s.load()
	if err != nil {
		return err
	}
	delete(doc.Entries, key)
	return s.save(doc)
}
