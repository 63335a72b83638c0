package gate

import (
	"testing"

	"hackhub-web/internal/domain"
	"hackhub-web/internal/session"
)

func loggedIn(role domain.Role) session.Snapshot {
	return session.Snapshot{
		State:   session.StateLoggedIn,
		Session: &domain.Session{UserID: 1, Username: "u", Role: role},
	}
}

func TestGuard(t *testing.T) {
	organizers := []domain.Role{domain.RoleOrganizer, domain.RoleAdmin}

	cases := []struct {
		name     string
		snap     session.Snapshot
		opts     Options
		want     Kind
		redirect string
	}{
		{"unknown", session.Snapshot{State: session.StateUnknown}, Options{}, KindLoading, ""},
		{"validating", session.Snapshot{State: session.StateValidating}, Options{RedirectTo: "/x"}, KindLoading, ""},
		{"logged out default redirect", session.Snapshot{State: session.StateLoggedOut}, Options{}, KindRedirect, "/login"},
		{"logged out custom redirect", session.Snapshot{State: session.StateLoggedOut}, Options{RedirectTo: "/signin?next=/org"}, KindRedirect, "/signin?next=/org"},
		{"wrong role with fallback", loggedIn(domain.RoleParticipant), Options{HasFallback: true}, KindFallback, ""},
		{"wrong role forbidden", loggedIn(domain.RoleParticipant), Options{}, KindForbidden, ""},
		{"organizer allowed", loggedIn(domain.RoleOrganizer), Options{}, KindAllow, ""},
		{"admin allowed", loggedIn(domain.RoleAdmin), Options{}, KindAllow, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Guard(tc.snap, organizers, tc.opts)
			if d.Kind != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, d.Kind)
			}
			if d.RedirectTo != tc.redirect {
				t.Fatalf("expected redirect %q, got %q", tc.redirect, d.RedirectTo)
			}
		})
	}
}

func TestGuard_ForbiddenNamesRoles(t *testing.T) {
	d := Guard(loggedIn(domain.RoleParticipant), []domain.Role{domain.RoleAdmin}, Options{})
	if d.Kind != KindForbidden || len(d.AllowedRoles) != 1 || d.AllowedRoles[0] != domain.RoleAdmin || d.HomeURL != "/" {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestShowForRole(t *testing.T) {
	if ShowForRole(session.Snapshot{State: session.StateValidating}, domain.RoleAdmin) {
		t.Fatalf("expected hidden while validating")
	}
	if ShowForRole(session.Snapshot{State: session.StateLoggedOut}, domain.RoleAdmin) {
		t.Fatalf("expected hidden when logged out")
	}
	if !ShowForRole(loggedIn(domain.RoleAdmin), domain.RoleOrganizer, domain.RoleAdmin) {
		t.Fatalf("expected visible for admin")
	}
	if ShowForRole(loggedIn(domain.RoleParticipant), domain.RoleOrganizer) {
		t.Fatalf("expected hidden for participant")
	}
}
