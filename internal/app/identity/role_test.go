package identity_test

import (
	"strings"
	"testing"

	"github.com/the-articles/articles-api/internal/app/identity"
	"github.com/the-articles/articles-api/internal/domain"
)

func TestResolveEffectiveRole(t *testing.T) {
	cases := []struct {
		name    string
		stored  domain.Role
		session *domain.Session
		want    domain.Role
	}{
		{
			name:   "stored admin wins without session",
			stored: domain.RoleAdmin,
			want:   domain.RoleAdmin,
		},
		{
			name:    "admin email domain elevates",
			stored:  domain.RoleUser,
			session: &domain.Session{Email: "desk@The-Articles.NET"},
			want:    domain.RoleAdmin,
		},
		{
			name:    "provider role claim elevates",
			stored:  domain.RoleUser,
			session: &domain.Session{Email: "x@example.com", RoleClaim: "admin"},
			want:    domain.RoleAdmin,
		},
		{
			name:    "plain user stays user",
			stored:  domain.RoleUser,
			session: &domain.Session{Email: "x@example.com"},
			want:    domain.RoleUser,
		},
		{
			name:    "empty stored role defaults to user",
			stored:  "",
			session: &domain.Session{Email: "x@example.com"},
			want:    domain.RoleUser,
		},
		{
			name:    "similar but different domain does not elevate",
			stored:  domain.RoleUser,
			session: &domain.Session{Email: "x@not-the-articles.net.evil.com"},
			want:    domain.RoleUser,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := identity.ResolveEffectiveRole(tc.stored, tc.session, "the-articles.net")
			if got != tc.want {
				t.Fatalf("got role %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewSerial(t *testing.T) {
	if s := identity.NewSerial(domain.RoleAdmin); s != domain.AdminSerial {
		t.Fatalf("admin serial = %q, want %q", s, domain.AdminSerial)
	}

	s := identity.NewSerial(domain.RoleUser)
	if !strings.HasPrefix(s, "#ART-") || !strings.HasSuffix(s, "-IND") {
		t.Fatalf("unexpected serial format: %q", s)
	}
	if len(s) != len("#ART-0000-IND") {
		t.Fatalf("unexpected serial length: %q", s)
	}
}
