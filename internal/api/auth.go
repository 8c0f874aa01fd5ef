// Package api implements the HTTP handlers of the TSP colony service.
package api

import (
	"net/http"
	"strings"

	"tspcolony/internal/auth"
)

// Principal is the caller as seen by the admin guards.
type Principal struct {
	Subject string
	Role    string // admin, viewer
}

// getPrincipal resolves the caller's role.
// - hmac mode: a valid Authorization: Bearer token, otherwise viewer.
// - dev mode: the X-Role header, defaulting to admin.
func (s *Server) getPrincipal(r *http.Request) Principal {
	if s.Auth != nil && s.Auth.Mode == auth.ModeHMAC {
		authz := r.Header.Get("Authorization")
		if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			tok := strings.TrimSpace(authz[len("Bearer "):])
			if pr, err := s.Auth.Verify(tok); err == nil {
				return Principal{Subject: pr.Subject, Role: pr.Role}
			}
		}
		return Principal{Role: "viewer"}
	}
	role := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Role")))
	if role == "" {
		role = "admin"
	}
	return Principal{Role: role}
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool { return p.Role == "admin" }
