// Package session holds the identity of whoever is logged in to this running
// instance. Nothing here is durable; a restart logs everybody out.
package session

import (
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinicdesk/internal/model"
)

// Key is the single slot the current session occupies.
const Key = "clinic_user"

type Store struct {
	cache *cache.Cache
}

// NewStore keeps a session for ttl after login; ttl <= 0 keeps it until
// logout or process exit.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Store{cache: cache.New(ttl, 10*time.Minute)}
}

// Put replaces the current session. The value is stored encoded so later
// edits to sess do not leak into the stored copy.
func (s *Store) Put(sess *model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.cache.SetDefault(Key, data)
	return nil
}

func (s *Store) Current() (*model.Session, bool) {
	v, ok := s.cache.Get(Key)
	if !ok {
		return nil, false
	}
	var sess model.Session
	if err := json.Unmarshal(v.([]byte), &sess); err != nil {
		s.cache.Delete(Key)
		return nil, false
	}
	return &sess, true
}

func (s *Store) Clear() {
	s.cache.Delete(Key)
}
