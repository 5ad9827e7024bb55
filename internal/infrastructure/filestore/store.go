package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/captcha-relay/internal/domain"
)

// Store persists the verified-set as a single JSON file keyed by user ID.
// Every access re-reads or rewrites the whole file; an RWMutex serialises the
// load-modify-save sequence so concurrent submissions cannot lose updates.
type Store struct {
	mu   sync.RWMutex
	path string
}

// New returns a Store backed by path, creating the file with an empty object
// when it does not exist yet.
func New(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.save(map[string]domain.VerificationRecord{}); err != nil {
			return nil, fmt.Errorf("initialise store file: %w", err)
		}
	}
	return s, nil
}

// Load reads and parses the whole backing file. Read and parse failures are
// deliberately suppressed into an empty map: a corrupt or unreadable store
// means "no one is verified yet", not a hard failure.
func (s *Store) Load() map[string]domain.VerificationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *Store) load() map[string]domain.VerificationRecord {
	records := map[string]domain.VerificationRecord{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]domain.VerificationRecord{}
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return map[string]domain.VerificationRecord{}
	}
	return records
}

func (s *Store) save(records map[string]domain.VerificationRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal verified-set: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write verified-set: %w", err)
	}
	return nil
}

// Put records userID as verified with a fresh timestamp. A repeat call for
// the same user overwrites the record; the semantic meaning is unchanged.
// Write failures propagate — only the read path fails open.
func (s *Store) Put(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.load()
	records[userID] = domain.VerificationRecord{
		Verified:  true,
		Timestamp: time.Now().UnixMilli(),
	}
	return s.save(records)
}

// IsVerified reports whether userID has a verified record. Absence of a
// record means unverified; failed records are never stored.
func (s *Store) IsVerified(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()[userID].Verified
}
