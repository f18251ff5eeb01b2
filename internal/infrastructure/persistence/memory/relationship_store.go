package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

// RelationshipStore implements matching.RelationshipRepository in memory.
type RelationshipStore struct {
	mu     sync.RWMutex
	byID   map[string]*matching.Relationship
	byPair map[matching.Pair]string
}

// NewRelationshipStore creates an empty store.
func NewRelationshipStore() *RelationshipStore {
	return &RelationshipStore{
		byID:   make(map[string]*matching.Relationship),
		byPair: make(map[matching.Pair]string),
	}
}

var _ matching.RelationshipRepository = (*RelationshipStore)(nil)

// Save inserts the relationship. When the pair already has one, only its
// score and rationale change and r is overwritten with the stored state.
func (s *RelationshipStore) Save(ctx context.Context, r *matching.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := r.Pair()
	if id, ok := s.byPair[pair]; ok {
		existing := s.byID[id]
		if err := existing.Rescore(r.Score, r.Rationale); err != nil {
			return err
		}
		*r = *existing.Clone()
		return nil
	}

	s.byID[r.ID] = r.Clone()
	s.byPair[pair] = r.ID
	return nil
}

// UpdateStatus records a response while the stored relationship is pending.
func (s *RelationshipStore) UpdateStatus(ctx context.Context, r *matching.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[r.ID]
	if !ok {
		return shared.ErrRelationshipNotFound
	}
	if !stored.IsPending() {
		return shared.ErrRelationshipFinal
	}

	stored.Status = r.Status
	stored.UpdatedAt = r.UpdatedAt
	stored.RespondedAt = nil
	if r.RespondedAt != nil {
		at := *r.RespondedAt
		stored.RespondedAt = &at
	}
	return nil
}

// GetByID returns a copy of the relationship.
func (s *RelationshipStore) GetByID(ctx context.Context, id string) (*matching.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrRelationshipNotFound
	}
	return r.Clone(), nil
}

// GetByPair returns the relationship of an unordered pair.
func (s *RelationshipStore) GetByPair(ctx context.Context, a, b profile.ID) (*matching.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPair[matching.NewPair(a, b)]
	if !ok {
		return nil, shared.ErrRelationshipNotFound
	}
	return s.byID[id].Clone(), nil
}

// ListByProfile returns the profile's relationships, newest first.
func (s *RelationshipStore) ListByProfile(ctx context.Context, id profile.ID) ([]*matching.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*matching.Relationship, 0)
	for _, r := range s.byID {
		if r.Involves(id) {
			result = append(result, r.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a relationship.
func (s *RelationshipStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return shared.ErrRelationshipNotFound
	}
	delete(s.byPair, r.Pair())
	delete(s.byID, id)
	return nil
}
