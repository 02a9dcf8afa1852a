package identity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/the-articles/articles-api/internal/app/datacache"
	"github.com/the-articles/articles-api/internal/domain"
	"github.com/the-articles/articles-api/internal/observability"
)

// DefaultView is the navigation target restored on sign-out.
const DefaultView = "feed"

// State is the exactly-consistent pair the synchronizer maintains, plus
// the navigation bits it owns. "LoggedIn with nil Profile" is a valid
// transient state and routes to profile setup.
type State struct {
	Ready      bool
	LoggedIn   bool
	Profile    *domain.Profile
	ViewedID   domain.ProfileID
	ActiveView string
}

// Synchronizer resolves the current authenticated principal into an
// application profile, exactly once per auth-state transition.
type Synchronizer struct {
	profiles    domain.ProfileStore
	cache       *datacache.Cache
	adminDomain string
	now         func() time.Time

	// at most one profile lookup in flight; a second trigger arriving
	// while one runs is a no-op, not a queued retry.
	resolving atomic.Bool

	mu      sync.RWMutex
	session *domain.Session
	state   State
}

func NewSynchronizer(profiles domain.ProfileStore, cache *datacache.Cache, adminDomain string) *Synchronizer {
	return &Synchronizer{
		profiles:    profiles,
		cache:       cache,
		adminDomain: adminDomain,
		now:         time.Now,
		state:       State{ActiveView: DefaultView},
	}
}

// Bootstrap runs the startup pass: resolve the current session's profile
// when a session exists, then mark the state Ready regardless of any
// upstream failure, so the caller can render.
func (s *Synchronizer) Bootstrap(ctx context.Context, session *domain.Session) {
	if session != nil {
		s.mu.Lock()
		s.session = session
		s.state.LoggedIn = true
		s.mu.Unlock()

		s.resolveProfile(ctx, session)
	}

	s.mu.Lock()
	s.state.Ready = true
	s.mu.Unlock()

	s.cache.Refresh(ctx)
}

// HandleAuthEvent applies one raw auth-state transition.
func (s *Synchronizer) HandleAuthEvent(ctx context.Context, ev domain.AuthEvent) {
	log := observability.LoggerFromContext(ctx)

	switch ev.Kind {
	case domain.AuthSignedIn, domain.AuthUserUpdated:
		// LoggedIn flips immediately; the profile fetch must not gate it.
		s.mu.Lock()
		s.session = ev.Session
		s.state.LoggedIn = true
		s.mu.Unlock()

		s.resolveProfile(ctx, ev.Session)

	case domain.AuthSignedOut:
		s.mu.Lock()
		s.session = nil
		s.state.LoggedIn = false
		s.state.Profile = nil
		s.state.ViewedID = ""
		s.state.ActiveView = DefaultView
		s.mu.Unlock()

	default:
		log.Warn("unknown auth event", "kind", ev.Kind)
	}
}

// resolveProfile fetches the profile row for the session principal and
// recomputes the effective role. Lookup failures are logged and treated
// as "no profile"; they never propagate.
func (s *Synchronizer) resolveProfile(ctx context.Context, session *domain.Session) {
	if session == nil {
		return
	}
	if !s.resolving.CompareAndSwap(false, true) {
		return
	}
	defer s.resolving.Store(false)

	log := observability.LoggerFromContext(ctx).With("user_id", session.UserID)

	p, err := s.profiles.GetProfile(ctx, session.UserID)
	if err != nil {
		log.Warn("profile lookup failed, treating as absent", "error", err)
		s.setProfile(nil)
		return
	}

	p.Role = ResolveEffectiveRole(p.Role, session, s.adminDomain)
	s.setProfile(p)
}

func (s *Synchronizer) setProfile(p *domain.Profile) {
	s.mu.Lock()
	s.state.Profile = p
	s.mu.Unlock()
}

// State returns a snapshot of the synchronized state.
func (s *Synchronizer) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	if st.Profile != nil {
		st.Profile = st.Profile.Clone()
	}
	return st
}

// Session returns the current session, or nil.
func (s *Synchronizer) Session() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// ViewProfile records the externally-viewed profile.
func (s *Synchronizer) ViewProfile(id domain.ProfileID) {
	s.mu.Lock()
	s.state.ViewedID = id
	s.mu.Unlock()
}

type CreateProfileInput struct {
	DisplayName string
	Handle      string
	Bio         string
	AvatarURL   string
	CoverURL    string
	Private     bool
}

// CreateProfile runs the one-time setup flow for the session principal.
// The effective role is computed before the row is written so admins get
// the sentinel serial from the start.
func (s *Synchronizer) CreateProfile(ctx context.Context, session *domain.Session, in CreateProfileInput) (*domain.Profile, error) {
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}

	log := observability.LoggerFromContext(ctx).With("user_id", session.UserID)

	role := ResolveEffectiveRole(domain.RoleUser, session, s.adminDomain)
	now := s.now()

	p := &domain.Profile{
		ID:          session.UserID,
		DisplayName: in.DisplayName,
		Handle:      in.Handle,
		Serial:      NewSerial(role),
		Role:        role,
		Bio:         in.Bio,
		AvatarURL:   in.AvatarURL,
		CoverURL:    in.CoverURL,
		Private:     in.Private,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.profiles.CreateProfile(ctx, p); err != nil {
		log.Error("profile setup failed", "error", err)
		return nil, err
	}

	s.setProfile(p.Clone())
	log.Info("profile created", "serial", p.Serial, "role", p.Role)

	s.cache.Refresh(ctx)
	return p, nil
}

type UpdateProfileInput struct {
	DisplayName *string
	Handle      *string
	Bio         *string
	AvatarURL   *string
	CoverURL    *string
	Private     *bool
}

// UpdateProfile applies an owner edit to the session principal's profile.
func (s *Synchronizer) UpdateProfile(ctx context.Context, session *domain.Session, in UpdateProfileInput) (*domain.Profile, error) {
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}

	log := observability.LoggerFromContext(ctx).With("user_id", session.UserID)

	p, err := s.profiles.GetProfile(ctx, session.UserID)
	if err != nil {
		log.Warn("profile lookup failed", "error", err)
		return nil, domain.ErrLookupFailure
	}

	if in.DisplayName != nil {
		p.DisplayName = *in.DisplayName
	}
	if in.Handle != nil {
		p.Handle = *in.Handle
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		p.AvatarURL = *in.AvatarURL
	}
	if in.CoverURL != nil {
		p.CoverURL = *in.CoverURL
	}
	if in.Private != nil {
		p.Private = *in.Private
	}
	p.UpdatedAt = s.now()

	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		log.Error("profile update failed", "error", err)
		return nil, err
	}

	p.Role = ResolveEffectiveRole(p.Role, session, s.adminDomain)
	s.setProfile(p.Clone())

	s.cache.Refresh(ctx)
	return p, nil
}

// DeleteProfile removes a profile row. Admin only.
func (s *Synchronizer) DeleteProfile(ctx context.Context, acting *domain.Profile, id domain.ProfileID) error {
	if acting == nil {
		return domain.ErrUnauthenticated
	}
	if acting.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.profiles.DeleteProfile(ctx, id); err != nil {
		return err
	}

	s.cache.Refresh(ctx)
	return nil
}
