package socialgraph

import (
	"context"
	"fmt"

	"github.com/the-articles/articles-api/internal/app/datacache"
	"github.com/the-articles/articles-api/internal/domain"
	"github.com/the-articles/articles-api/internal/observability"
)

// Mutator applies follow/unfollow edits as a two-sided, best-effort
// consistent update: the acting side's following list is the mandatory
// write, the target side's followers counter is a best-effort side effect
// whose failure leaves an accepted, bounded asymmetry healed only by the
// next full cache refresh.
type Mutator struct {
	profiles domain.ProfileStore
	cache    *datacache.Cache
}

func NewMutator(profiles domain.ProfileStore, cache *datacache.Cache) *Mutator {
	return &Mutator{profiles: profiles, cache: cache}
}

// ToggleFollow removes targetID from acting's following set if present,
// otherwise appends it. After every toggle the invariant
// FollowingCount == len(Following) holds on the acting row.
//
// Step 1 (mandatory): write {following, following_count} to the acting
// row; failure aborts with ErrGraphWriteConflict and step 2 never runs.
// Step 2 (best-effort): bump the target's followers_count, computed from
// the last-cached target row, floored at zero; skipped silently when the
// target is not cached; failure is logged only.
// Step 3: patch acting optimistically, then trigger a full cache refresh.
func (m *Mutator) ToggleFollow(ctx context.Context, acting *domain.Profile, targetID domain.ProfileID) (*domain.Profile, error) {
	if acting == nil {
		return nil, domain.ErrUnauthenticated
	}

	log := observability.LoggerFromContext(ctx).With(
		"acting_id", acting.ID,
		"target_id", targetID,
	)

	following := make([]domain.ProfileID, 0, len(acting.Following)+1)
	wasFollowing := false
	for _, id := range acting.Following {
		if id == targetID {
			wasFollowing = true
			continue
		}
		following = append(following, id)
	}
	if !wasFollowing {
		following = append(following, targetID)
	}

	if err := m.profiles.UpdateFollowing(ctx, acting.ID, following, len(following)); err != nil {
		log.Error("following write failed, aborting", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrGraphWriteConflict, err)
	}

	if target := m.cache.Profile(targetID); target != nil {
		count := target.FollowersCount
		if wasFollowing {
			count--
			if count < 0 {
				count = 0
			}
		} else {
			count++
		}
		if err := m.profiles.UpdateFollowersCount(ctx, targetID, count); err != nil {
			// Accepted drift: the relation stays asymmetric until the next
			// full-graph inspection.
			log.Warn("followers count write failed",
				"error", fmt.Errorf("%w: %v", domain.ErrSecondaryWriteFailure, err))
		}
	}

	acting.Following = following
	acting.FollowingCount = len(following)

	log.Info("follow toggled", "following", !wasFollowing, "following_count", acting.FollowingCount)

	m.cache.Refresh(ctx)
	return acting, nil
}
