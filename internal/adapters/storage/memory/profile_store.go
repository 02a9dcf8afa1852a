package memory

import (
	"context"
	"sync"

	"github.com/the-articles/articles-api/internal/domain"
)

// ProfileStore is a simple in-memory implementation of domain.ProfileStore.
// It is NOT persistent and is only suitable for development / local mode.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[domain.ProfileID]*domain.Profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[domain.ProfileID]*domain.Profile),
	}
}

func (s *ProfileStore) CreateProfile(_ context.Context, p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.ID]; exists {
		return domain.ErrAlreadyExists
	}

	s.profiles[p.ID] = p.Clone()
	return nil
}

func (s *ProfileStore) GetProfile(_ context.Context, id domain.ProfileID) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *ProfileStore) ListProfiles(_ context.Context) ([]*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (s *ProfileStore) UpdateProfile(_ context.Context, p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[p.ID]; !exists {
		return domain.ErrNotFound
	}

	s.profiles[p.ID] = p.Clone()
	return nil
}

func (s *ProfileStore) UpdateFollowing(_ context.Context, id domain.ProfileID, following []domain.ProfileID, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}

	updated := p.Clone()
	updated.Following = append([]domain.ProfileID(nil), following...)
	updated.FollowingCount = count
	s.profiles[id] = updated
	return nil
}

func (s *ProfileStore) UpdateFollowersCount(_ context.Context, id domain.ProfileID, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}

	updated := p.Clone()
	updated.FollowersCount = count
	s.profiles[id] = updated
	return nil
}

func (s *ProfileStore) DeleteProfile(_ context.Context, id domain.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return domain.ErrNotFound
	}

	delete(s.profiles, id)
	return nil
}
