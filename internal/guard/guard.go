// Package guard decides whether a request may proceed given the current
// session and the caller's role. It is a pure function of its inputs so the
// routing policy can be tested without a server.
package guard

import "slices"

type Decision int

const (
	// DecisionRender lets the request through.
	DecisionRender Decision = iota
	// DecisionRedirectSignIn sends unauthenticated callers to sign-in.
	DecisionRedirectSignIn
	// DecisionRedirectHome sends authenticated but unauthorized callers
	// to the default user landing page.
	DecisionRedirectHome
)

// Paths the redirect decisions map to.
const (
	SignInPath = "/auth"
	HomePath   = "/me"
)

// Evaluate applies the routing policy. No session always redirects to
// sign-in. An empty allowed set admits any authenticated caller. Otherwise
// the caller's role must be in the allowed set; a missing role never
// matches.
func Evaluate(hasSession bool, role string, allowed []string) Decision {
	if !hasSession {
		return DecisionRedirectSignIn
	}

	if len(allowed) == 0 {
		return DecisionRender
	}

	if role == "" || !slices.Contains(allowed, role) {
		return DecisionRedirectHome
	}

	return DecisionRender
}

// RedirectPath returns the target for a redirect decision, or "" for
// DecisionRender.
func RedirectPath(d Decision) string {
	switch d {
	case DecisionRedirectSignIn:
		return SignInPath
	case DecisionRedirectHome:
		return HomePath
	}
	return ""
}
