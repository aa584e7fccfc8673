// package nav gates route transitions on the current session snapshot
package nav

import (
	"github.com/charmbracelet/log"
)

// Route names a navigable destination.
type Route string

const (
	RouteHome       Route = "Home"
	RouteLogin      Route = "Login"
	RouteSignup     Route = "Signup"
	RoutePlaylist   Route = "Playlist"
	RouteProfile    Route = "Profile"
	RouteSearch     Route = "Search"
	RouteArtist     Route = "Artist"
	RouteLikedSongs Route = "LikedSongs"
)

// Requirement is a route's declared session requirement.
type Requirement int

const (
	RequireNone Requirement = iota
	RequireAuth
	RequireGuest
)

// requirements is the route table. Routes not listed require nothing.
var requirements = map[Route]Requirement{
	RouteProfile:    RequireAuth,
	RoutePlaylist:   RequireAuth,
	RouteLikedSongs: RequireAuth,
	RouteLogin:      RequireGuest,
	RouteSignup:     RequireGuest,
}

// RequirementFor returns the declared requirement for a route.
func RequirementFor(route Route) Requirement {
	return requirements[route]
}

// Decision is the outcome of a navigation check. When Allow is false,
// Redirect names the route to send the caller to instead.
type Decision struct {
	Allow    bool
	Redirect Route
}

// Decide evaluates the decision table for a requirement and session state.
func Decide(requirement Requirement, authenticated bool) Decision {
	switch requirement {
	case RequireAuth:
		if !authenticated {
			return Decision{Redirect: RouteLogin}
		}
	case RequireGuest:
		if authenticated {
			return Decision{Redirect: RouteHome}
		}
	}
	return Decision{Allow: true}
}

// AuthFunc reports whether the last-observed session snapshot is
// authenticated. [identity.SessionState.Authenticated] satisfies it.
type AuthFunc func() bool

// Guard intercepts route transitions and decides them synchronously against
// the session snapshot, with no network round-trip. Decisions are only as
// fresh as the most recent session-change notification.
type Guard struct {
	authenticated AuthFunc
	logger        *log.Logger
}

// NewGuard creates a Guard over the given snapshot source.
func NewGuard(authenticated AuthFunc, logger *log.Logger) *Guard {
	return &Guard{authenticated: authenticated, logger: logger}
}

// Check decides a navigation attempt to the given route.
func (g *Guard) Check(route Route) Decision {
	decision := Decide(RequirementFor(route), g.authenticated())
	if !decision.Allow && g.logger != nil {
		g.logger.Debug("navigation redirected", "route", route, "redirect", decision.Redirect)
	}
	return decision
}
