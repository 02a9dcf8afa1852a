package identity

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/the-articles/articles-api/internal/domain"
)

// ResolveEffectiveRole recomputes the role every time a profile is
// materialized from the backend. The recomputed value can only elevate:
// admin wins when the stored role says admin, when the session email's
// domain matches adminDomain, or when the provider supplied an admin
// claim. The result is never persisted back as an override.
func ResolveEffectiveRole(stored domain.Role, session *domain.Session, adminDomain string) domain.Role {
	if stored == domain.RoleAdmin {
		return domain.RoleAdmin
	}
	if session != nil {
		if session.RoleClaim == string(domain.RoleAdmin) {
			return domain.RoleAdmin
		}
		if adminDomain != "" {
			email := strings.ToLower(session.Email)
			if strings.HasSuffix(email, "@"+strings.ToLower(adminDomain)) {
				return domain.RoleAdmin
			}
		}
	}
	if stored == "" {
		return domain.RoleUser
	}
	return stored
}

// NewSerial assigns the profile serial: the #ROOT-ADMIN sentinel for
// administrators, otherwise #ART-NNNN-IND with four digits drawn from a
// fresh uuid.
func NewSerial(role domain.Role) string {
	if role == domain.RoleAdmin {
		return domain.AdminSerial
	}
	u := uuid.New()
	n := binary.BigEndian.Uint32(u[0:4]) % 10000
	return fmt.Sprintf("#ART-%04d-IND", n)
}
