package conversation

import (
	"errors"
	"fmt"
	"sync"

	pkgcache "harsi-trading-bot/pkg/cache"
)

// ErrStaleState is returned by Put when the stored record changed since the
// caller read it, e.g. two webhook deliveries racing on the same user.
var ErrStaleState = errors.New("conversation state changed")

const recordKey = "conversation:%d"

// Store persists one Record per user. Put is a full overwrite guarded by the
// record's version stamp.
type Store interface {
	Get(userID int64) (*Record, bool)
	Put(rec *Record) error
	Delete(userID int64)
}

type cacheStore struct {
	cache pkgcache.Cache
	mu    sync.Mutex
}

// NewStore builds a Store on top of the in-memory cache. Records never
// expire on their own; they are deleted on completion or cancellation.
func NewStore(c pkgcache.Cache) Store {
	return &cacheStore{cache: c}
}

func (s *cacheStore) Get(userID int64) (*Record, bool) {
	rec, ok := pkgcache.GetTyped[Record](s.cache, fmt.Sprintf(recordKey, userID))
	if !ok {
		return nil, false
	}
	copied := rec
	return &copied, true
}

// Put stores rec and bumps its version. A version mismatch against the
// currently stored record means the caller read stale state.
func (s *cacheStore) Put(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf(recordKey, rec.UserID)
	if current, ok := pkgcache.GetTyped[Record](s.cache, key); ok {
		if current.Version != rec.Version {
			return ErrStaleState
		}
	} else if rec.Version != 0 {
		// The record was deleted (completed or cancelled) underneath the
		// caller; a stale write must not resurrect it.
		return ErrStaleState
	}

	rec.Version++
	s.cache.Set(key, *rec, pkgcache.NoExpiration)
	return nil
}

func (s *cacheStore) Delete(userID int64) {
	s.cache.Delete(fmt.Sprintf(recordKey, userID))
}
