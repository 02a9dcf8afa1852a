package domain

// AdminSerial is the sentinel serial carried by administrator profiles
// instead of the regular #ART-NNNN-IND format.
const AdminSerial = "#ROOT-ADMIN"

// Profile is the application-level user record, keyed by the principal id.
type Profile struct {
	ID          ProfileID
	DisplayName string
	Handle      string
	Serial      string
	Role        Role

	// Following is the set of profiles this user follows (order irrelevant).
	// FollowingCount must equal len(Following) after every mutation; that
	// invariant is maintained by the social graph mutator, not the backend.
	Following      []ProfileID
	FollowingCount int

	// FollowersCount is NOT authoritative. It is maintained purely through
	// best-effort increment/decrement side effects and can drift from the
	// true in-degree of the following relation.
	FollowersCount int

	Reputation int
	Bio        string
	AvatarURL  string
	CoverURL   string
	Private    bool

	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// IsFollowing reports whether id is in the following set.
func (p *Profile) IsFollowing(id ProfileID) bool {
	for _, f := range p.Following {
		if f == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so cached rows can be patched without
// aliasing the caller's view.
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.Following = append([]ProfileID(nil), p.Following...)
	return &cp
}
