package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/the-articles/articles-api/internal/adapters/storage/memory"
	"github.com/the-articles/articles-api/internal/app/datacache"
	"github.com/the-articles/articles-api/internal/app/identity"
	"github.com/the-articles/articles-api/internal/domain"
)

// flakyProfileStore wraps the memory store with switchable failures.
type flakyProfileStore struct {
	*memory.ProfileStore
	failGet  bool
	failList bool
}

func (s *flakyProfileStore) GetProfile(ctx context.Context, id domain.ProfileID) (*domain.Profile, error) {
	if s.failGet {
		return nil, errors.New("backend unavailable")
	}
	return s.ProfileStore.GetProfile(ctx, id)
}

func (s *flakyProfileStore) ListProfiles(ctx context.Context) ([]*domain.Profile, error) {
	if s.failList {
		return nil, errors.New("backend unavailable")
	}
	return s.ProfileStore.ListProfiles(ctx)
}

func newTestSync(profiles domain.ProfileStore) *identity.Synchronizer {
	cache := datacache.New(memory.NewArticleStore(), profiles)
	return identity.NewSynchronizer(profiles, cache, "the-articles.net")
}

func TestBootstrapReadyDespiteLookupFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyProfileStore{ProfileStore: memory.NewProfileStore(), failGet: true, failList: true}
	sync := newTestSync(store)

	sync.Bootstrap(ctx, &domain.Session{UserID: "u1", Email: "u1@example.com"})

	st := sync.State()
	if !st.Ready {
		t.Fatalf("expected Ready after bootstrap, even with failing backend")
	}
	if !st.LoggedIn {
		t.Fatalf("expected LoggedIn with a session present")
	}
	if st.Profile != nil {
		t.Fatalf("expected nil profile after lookup failure, got %+v", st.Profile)
	}
}

func TestSignInResolvesProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProfileStore()
	sync := newTestSync(store)
	sync.Bootstrap(ctx, nil)

	if err := store.CreateProfile(ctx, &domain.Profile{
		ID:          "u1",
		DisplayName: "Ada",
		Handle:      "ada",
		Role:        domain.RoleUser,
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	sync.HandleAuthEvent(ctx, domain.AuthEvent{
		Kind:    domain.AuthSignedIn,
		Session: &domain.Session{UserID: "u1", Email: "ada@the-articles.net"},
	})

	st := sync.State()
	if !st.LoggedIn || st.Profile == nil {
		t.Fatalf("expected logged in with profile, got %+v", st)
	}
	if st.Profile.Role != domain.RoleAdmin {
		t.Fatalf("expected admin-domain email to elevate role, got %q", st.Profile.Role)
	}
}

func TestSignInWithoutProfileRow(t *testing.T) {
	ctx := context.Background()
	sync := newTestSync(memory.NewProfileStore())
	sync.Bootstrap(ctx, nil)

	sync.HandleAuthEvent(ctx, domain.AuthEvent{
		Kind:    domain.AuthSignedIn,
		Session: &domain.Session{UserID: "ghost", Email: "ghost@example.com"},
	})

	st := sync.State()
	if !st.LoggedIn {
		t.Fatalf("LoggedIn must flip before the profile resolves")
	}
	if st.Profile != nil {
		t.Fatalf("expected nil profile for an unprovisioned principal")
	}
}

func TestSignOutClearsState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProfileStore()
	sync := newTestSync(store)

	if err := store.CreateProfile(ctx, &domain.Profile{ID: "u1", Handle: "ada"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	sync.Bootstrap(ctx, &domain.Session{UserID: "u1", Email: "u1@example.com"})
	sync.ViewProfile("u2")

	sync.HandleAuthEvent(ctx, domain.AuthEvent{Kind: domain.AuthSignedOut})

	st := sync.State()
	if st.LoggedIn || st.Profile != nil {
		t.Fatalf("expected cleared auth state, got %+v", st)
	}
	if st.ViewedID != "" || st.ActiveView != identity.DefaultView {
		t.Fatalf("expected navigation reset, got viewed=%q view=%q", st.ViewedID, st.ActiveView)
	}
	if sync.Session() != nil {
		t.Fatalf("expected nil session after sign-out")
	}
}

func TestCreateProfileAssignsAdminSerial(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProfileStore()
	sync := newTestSync(store)

	p, err := sync.CreateProfile(ctx, &domain.Session{UserID: "root", Email: "root@the-articles.net"}, identity.CreateProfileInput{
		DisplayName: "Root",
		Handle:      "root",
	})
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if p.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", p.Role)
	}
	if p.Serial != domain.AdminSerial {
		t.Fatalf("expected sentinel serial, got %q", p.Serial)
	}

	stored, err := store.GetProfile(ctx, "root")
	if err != nil {
		t.Fatalf("stored profile missing: %v", err)
	}
	if stored.Serial != domain.AdminSerial {
		t.Fatalf("serial not persisted: %q", stored.Serial)
	}
}

func TestCreateProfileRequiresSession(t *testing.T) {
	sync := newTestSync(memory.NewProfileStore())

	_, err := sync.CreateProfile(context.Background(), nil, identity.CreateProfileInput{Handle: "x"})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestDeleteProfileAdminOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProfileStore()
	sync := newTestSync(store)

	if err := store.CreateProfile(ctx, &domain.Profile{ID: "victim", Handle: "v"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	err := sync.DeleteProfile(ctx, &domain.Profile{ID: "u1", Role: domain.RoleUser}, "victim")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}

	if err := sync.DeleteProfile(ctx, &domain.Profile{ID: "root", Role: domain.RoleAdmin}, "victim"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, err := store.GetProfile(ctx, "victim"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected profile gone, got %v", err)
	}
}
