// Package memory implements in-process stores for profiles, relationships
// and messages. They back the demo server and the application tests and
// return copies so callers can never mutate stored state.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE STORE
// ══════════════════════════════════════════════════════════════════════════════

// ProfileStore implements profile.Repository in memory.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[profile.ID]*profile.Profile
}

// NewProfileStore creates an empty store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[profile.ID]*profile.Profile)}
}

var _ profile.Repository = (*ProfileStore)(nil)

// GetProfile returns a copy of the stored profile.
func (s *ProfileStore) GetProfile(ctx context.Context, id profile.ID) (*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	return p.Clone(), nil
}

// ListProfiles returns copies of all profiles ordered by id.
func (s *ProfileStore) ListProfiles(ctx context.Context) ([]*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*profile.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		result = append(result, p.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Save validates and stores a copy of the profile.
func (s *ProfileStore) Save(ctx context.Context, p *profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[p.ID] = p.Clone()
	return nil
}

// Delete removes a profile.
func (s *ProfileStore) Delete(ctx context.Context, id profile.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return shared.ErrProfileNotFound
	}
	delete(s.profiles, id)
	return nil
}

// Count returns the number of stored profiles.
func (s *ProfileStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}
