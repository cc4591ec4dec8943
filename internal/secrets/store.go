// Package secrets keeps provider API keys in one 0600 file under the state
// directory, sealed with AES-GCM under a machine-derived key. Not a
// replacement for an OS keychain, but it keeps keys out of plain-text config.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// ErrNotFound is returned when no key is stored for a provider.
var ErrNotFound = errors.New("secrets: key not found")

const fileName = "keys.json"

type keyFile struct {
	Keys map[string]string `json:"keys"` // provider -> base64(ciphertext)
}

// Store reads and writes the key file under one directory.
type Store struct {
	path string
}

// Open prepares the store under dir, creating it with restricted permissions.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("secrets dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, fileName)}, nil
}

// Set stores a key for the provider, replacing any existing one.
func (s *Store) Set(provider, key string) error {
	provider = norm(provider)
	if provider == "" {
		return errors.New("secrets: provider required")
	}
	kf, err := s.load()
	if err != nil {
		return err
	}
	if kf.Keys == nil {
		kf.Keys = map[string]string{}
	}
	ct, err := encrypt([]byte(key))
	if err != nil {
		return err
	}
	kf.Keys[provider] = base64.StdEncoding.EncodeToString(ct)
	return s.save(kf)
}

// Get returns the provider's key, or ErrNotFound.
func (s *Store) Get(provider string) (string, error) {
	provider = norm(provider)
	if provider == "" {
		return "", errors.New("secrets: provider required")
	}
	kf, err := s.load()
	if err != nil {
		return "", err
	}
	enc, ok := kf.Keys[provider]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

// Delete removes the provider's key. Deleting an absent key is a no-op.
func (s *Store) Delete(provider string) error {
	provider = norm(provider)
	if provider == "" {
		return errors.New("secrets: provider required")
	}
	kf, err := s.load()
	if err != nil {
		return err
	}
	delete(kf.Keys, provider)
	return s.save(kf)
}

// Providers lists the providers holding a key, sorted.
func (s *Store) Providers() ([]string, error) {
	kf, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(kf.Keys))
	for p := range kf.Keys {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) load() (keyFile, error) {
	var kf keyFile
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return keyFile{}, nil
		}
		return kf, err
	}
	if err := json.Unmarshal(data, &kf); err != nil {
		return kf, err
	}
	return kf, nil
}

func (s *Store) save(kf keyFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func masterKey() []byte {
	base := fmt.Sprintf("berth-%s-%s", runtime.GOOS, os.Getenv("USER"))
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func encrypt(plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("secrets: ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
