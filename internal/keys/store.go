package keys

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store provides access to saved credentials.
type Store interface {
	Get(id string) ([]byte, error)
	Put(id string, secret []byte) error
	Delete(id string) error
}

var ErrKeyNotFound = errors.New("key not found")

// TokenID is the id under which the access token for a server is stored.
func TokenID(baseURL string) string {
	return "token/" + strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// Open selects a store by provider: "keyring", "file" or "auto".
// auto prefers the system keyring and falls back to the file store.
func Open(provider, dataDir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "keyring":
		return &KeyringStore{}, nil
	case "file":
		return NewFileStore(filepath.Join(dataDir, "credentials.json")), nil
	case "", "auto":
		if KeyringAvailable() {
			return &KeyringStore{}, nil
		}
		return NewFileStore(filepath.Join(dataDir, "credentials.json")), nil
	default:
		return nil, fmt.Errorf("unknown auth.store %q (want keyring|file|auto)", provider)
	}
}

// MemStore keeps credentials in memory.
type MemStore struct {
	mu   sync.Mutex
	Keys map[string]string
}

func (s *MemStore) Get(id string) ([]byte, error) {
	if s == nil {
		return nil, ErrKeyNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.Keys[id]
	if !ok || val == "" {
		return nil, ErrKeyNotFound
	}
	return base64.StdEncoding.DecodeString(val)
}

func (s *MemStore) Put(id string, secret []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Keys == nil {
		s.Keys = map[string]string{}
	}
	s.Keys[id] = base64.StdEncoding.EncodeToString(secret)
	return nil
}

func (s *MemStore) Delete(id string) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Keys, id)
	return nil
}

// FileStore keeps credentials base64-encoded in a JSON file with 0600 perms.
type FileStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Get(id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return nil, err
	}
	val, ok := m[id]
	if !ok || val == "" {
		return nil, ErrKeyNotFound
	}
	return base64.StdEncoding.DecodeString(val)
}

func (s *FileStore) Put(id string, secret []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	m[id] = base64.StdEncoding.EncodeToString(secret)
	return s.save(m)
}

func (s *FileStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[id]; !ok {
		return nil
	}
	delete(m, id)
	return s.save(m)
}

func (s *FileStore) load() (map[string]string, error) {
	m := map[string]string{}
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	if m == nil {
		// file holds a JSON null
		m = map[string]string{}
	}
	return m, nil
}

func (s *FileStore) save(m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}
