package socialgraph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/the-articles/articles-api/internal/adapters/storage/memory"
	"github.com/the-articles/articles-api/internal/app/datacache"
	"github.com/the-articles/articles-api/internal/app/socialgraph"
	"github.com/the-articles/articles-api/internal/domain"
)

type flakyProfileStore struct {
	*memory.ProfileStore
	failFollowing bool
	failFollowers bool

	followersWrites int
}

func (s *flakyProfileStore) UpdateFollowing(ctx context.Context, id domain.ProfileID, following []domain.ProfileID, count int) error {
	if s.failFollowing {
		return errors.New("write conflict")
	}
	return s.ProfileStore.UpdateFollowing(ctx, id, following, count)
}

func (s *flakyProfileStore) UpdateFollowersCount(ctx context.Context, id domain.ProfileID, count int) error {
	s.followersWrites++
	if s.failFollowers {
		return errors.New("write conflict")
	}
	return s.ProfileStore.UpdateFollowersCount(ctx, id, count)
}

func setup(t *testing.T) (*flakyProfileStore, *datacache.Cache, *socialgraph.Mutator, *domain.Profile) {
	t.Helper()
	ctx := context.Background()

	store := &flakyProfileStore{ProfileStore: memory.NewProfileStore()}
	acting := &domain.Profile{ID: "alice", Handle: "alice"}
	target := &domain.Profile{ID: "bob", Handle: "bob", FollowersCount: 5}
	for _, p := range []*domain.Profile{acting, target} {
		if err := store.CreateProfile(ctx, p); err != nil {
			t.Fatalf("seed profile: %v", err)
		}
	}

	cache := datacache.New(memory.NewArticleStore(), store)
	cache.Refresh(ctx)

	return store, cache, socialgraph.NewMutator(store, cache), acting
}

func TestToggleFollowRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _, mutator, acting := setup(t)

	got, err := mutator.ToggleFollow(ctx, acting, "bob")
	if err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if len(got.Following) != 1 || got.Following[0] != "bob" {
		t.Fatalf("expected bob in following, got %v", got.Following)
	}
	if got.FollowingCount != len(got.Following) {
		t.Fatalf("count %d out of sync with list %d", got.FollowingCount, len(got.Following))
	}

	bob, err := store.GetProfile(ctx, "bob")
	if err != nil {
		t.Fatalf("target missing: %v", err)
	}
	if bob.FollowersCount != 6 {
		t.Fatalf("followers count = %d, want 6", bob.FollowersCount)
	}

	// toggle back
	got, err = mutator.ToggleFollow(ctx, acting, "bob")
	if err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}
	if len(got.Following) != 0 || got.FollowingCount != 0 {
		t.Fatalf("expected empty following after round trip, got %v (%d)", got.Following, got.FollowingCount)
	}

	bob, _ = store.GetProfile(ctx, "bob")
	if bob.FollowersCount != 5 {
		t.Fatalf("followers count after round trip = %d, want 5", bob.FollowersCount)
	}
}

func TestFollowersCountFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	store, cache, mutator, acting := setup(t)

	// force the cached target to zero followers, then unfollow from a
	// state where acting already follows bob
	if err := store.UpdateFollowersCount(ctx, "bob", 0); err != nil {
		t.Fatalf("seed followers: %v", err)
	}
	acting.Following = []domain.ProfileID{"bob"}
	acting.FollowingCount = 1
	cache.Refresh(ctx)

	if _, err := mutator.ToggleFollow(ctx, acting, "bob"); err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}

	bob, _ := store.GetProfile(ctx, "bob")
	if bob.FollowersCount != 0 {
		t.Fatalf("followers count must floor at zero, got %d", bob.FollowersCount)
	}
}

func TestFollowingWriteFailureAborts(t *testing.T) {
	ctx := context.Background()
	store, _, mutator, acting := setup(t)
	store.failFollowing = true

	_, err := mutator.ToggleFollow(ctx, acting, "bob")
	if !errors.Is(err, domain.ErrGraphWriteConflict) {
		t.Fatalf("expected ErrGraphWriteConflict, got %v", err)
	}
	if store.followersWrites != 0 {
		t.Fatalf("followers write must not run after a following failure")
	}
	if len(acting.Following) != 0 {
		t.Fatalf("acting profile must stay untouched on abort, got %v", acting.Following)
	}
}

func TestFollowersWriteFailureDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	store, _, mutator, acting := setup(t)
	store.failFollowers = true

	got, err := mutator.ToggleFollow(ctx, acting, "bob")
	if err != nil {
		t.Fatalf("follow must succeed despite followers write failure: %v", err)
	}
	if len(got.Following) != 1 {
		t.Fatalf("expected following applied, got %v", got.Following)
	}
}

func TestUncachedTargetSkipsFollowersWrite(t *testing.T) {
	ctx := context.Background()

	store := &flakyProfileStore{ProfileStore: memory.NewProfileStore()}
	acting := &domain.Profile{ID: "alice"}
	if err := store.CreateProfile(ctx, acting); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	// cache never refreshed: the target row is unknown to it
	cache := datacache.New(memory.NewArticleStore(), store)
	mutator := socialgraph.NewMutator(store, cache)

	got, err := mutator.ToggleFollow(ctx, acting, "stranger")
	if err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if len(got.Following) != 1 {
		t.Fatalf("following edge must still apply, got %v", got.Following)
	}
	if store.followersWrites != 0 {
		t.Fatalf("followers write must be skipped for an uncached target")
	}
}

func TestToggleFollowRequiresProfile(t *testing.T) {
	_, _, mutator, _ := setup(t)

	_, err := mutator.ToggleFollow(context.Background(), nil, "bob")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
