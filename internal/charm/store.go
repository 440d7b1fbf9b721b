// ABOUTME: Charm KV implementation of the vector index record store
// ABOUTME: Explicitly constructed handle, no global singleton, optional cloud sync
package charm

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/kv"

	"github.com/smartlearn/companion/internal/index"
)

// Config holds charm store configuration.
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig returns default configuration for the charm store.
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	return &Config{
		Host:     host,
		DBName:   "companion",
		AutoSync: true,
	}
}

// Store implements index.RecordStore over charm KV. Construct it once at
// process start and pass the handle to every component that needs it.
type Store struct {
	kv     *kv.KV
	config *Config
	mu     sync.Mutex
}

var _ index.RecordStore = (*Store)(nil)

// NewStore opens the charm KV database for the configured host and name.
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// kv.OpenWithDefaults reads CHARM_HOST from the environment.
	os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	s := &Store{kv: db, config: cfg}

	// Pull remote data on startup
	if cfg.AutoSync {
		_ = db.Sync()
	}

	return s, nil
}

// Close closes the KV database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv != nil {
		err := s.kv.Close()
		s.kv = nil
		return err
	}
	return nil
}

// PutBatch writes a batch of records, syncing to the cloud once per batch
// rather than per key.
func (s *Store) PutBatch(pairs []index.KeyValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range pairs {
		if err := s.kv.Set([]byte(p.Key), p.Value); err != nil {
			return fmt.Errorf("failed to set key %s: %w", p.Key, err)
		}
	}
	s.syncIfEnabled()
	return nil
}

// Get retrieves a value by key.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.kv.Get([]byte(key))
}

// Keys returns all keys with the given prefix.
func (s *Store) Keys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var result []string
	for _, key := range keys {
		keyStr := string(key)
		if strings.HasPrefix(keyStr, prefix) {
			result = append(result, keyStr)
		}
	}
	return result, nil
}

// DeleteBatch removes keys, syncing once per batch.
func (s *Store) DeleteBatch(keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if err := s.kv.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", key, err)
		}
	}
	s.syncIfEnabled()
	return nil
}

// Sync manually triggers a sync with the cloud.
func (s *Store) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Sync()
}

// syncIfEnabled syncs to cloud after writes. Callers must hold the mutex.
func (s *Store) syncIfEnabled() {
	if s.config.AutoSync {
		_ = s.kv.Sync()
	}
}
