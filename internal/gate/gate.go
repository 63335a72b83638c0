// Package gate decide qué se renderiza según el rol de la sesión actual.
package gate

import (
	"hackhub-web/internal/domain"
	"hackhub-web/internal/session"
)

const (
	DefaultRedirect = "/login"
	HomeURL         = "/"
)

type Kind int

const (
	KindLoading Kind = iota
	KindRedirect
	KindFallback
	KindForbidden
	KindAllow
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindRedirect:
		return "redirect"
	case KindFallback:
		return "fallback"
	case KindForbidden:
		return "forbidden"
	case KindAllow:
		return "allow"
	}
	return "invalid"
}

// Options configura el comportamiento cuando el acceso se niega.
type Options struct {
	// HasFallback indica que el llamador tiene contenido alternativo para roles
	// no permitidos.
	HasFallback bool
	// RedirectTo es el destino para visitantes sin sesión; "" usa /login.
	RedirectTo string
}

// Decision es el resultado de Guard.
type Decision struct {
	Kind         Kind
	RedirectTo   string
	AllowedRoles []domain.Role
	HomeURL      string
}

// Guard evalúa el acceso de snap a contenido restringido a allowed.
func Guard(snap session.Snapshot, allowed []domain.Role, opts Options) Decision {
	switch {
	case snap.Loading():
		return Decision{Kind: KindLoading}
	case !snap.LoggedIn():
		to := opts.RedirectTo
		if to == "" {
			to = DefaultRedirect
		}
		return Decision{Kind: KindRedirect, RedirectTo: to}
	case !snap.HasRole(allowed...):
		if opts.HasFallback {
			return Decision{Kind: KindFallback}
		}
		roles := make([]domain.Role, len(allowed))
		copy(roles, allowed)
		return Decision{Kind: KindForbidden, AllowedRoles: roles, HomeURL: HomeURL}
	}
	return Decision{Kind: KindAllow}
}

// ShowForRole es la variante en línea: sin loading ni redirect.
func ShowForRole(snap session.Snapshot, roles ...domain.Role) bool {
	return snap.HasRole(roles...)
}
