package streambase

import "net/url"

// Route targets used by guard redirects.
const (
	PathSignIn         = "/sign-in"
	PathAdminSignIn    = "/admin-sign-in"
	PathHome           = "/home"
	PathAdminDashboard = "/admin-dashboard"

	// ReturnParam carries the originally attempted URL through a sign-in
	// redirect.
	ReturnParam = "return"
)

// GuardDecision is the outcome of a route guard: either allow navigation or
// deny it with a redirect target.
type GuardDecision struct {
	Allowed    bool
	RedirectTo string
	Params     url.Values
}

// Allow permits navigation.
func Allow() GuardDecision {
	return GuardDecision{Allowed: true}
}

// Deny blocks navigation and redirects.
func Deny(redirectTo string, params url.Values) GuardDecision {
	return GuardDecision{RedirectTo: redirectTo, Params: params}
}

func returnParams(targetURL string) url.Values {
	if targetURL == "" {
		return nil
	}
	return url.Values{ReturnParam: []string{targetURL}}
}

// UserGuard admits regular users. Anonymous and admin sessions are sent to
// the sign-in page with the attempted URL preserved.
func UserGuard(p Predicates, targetURL string) (d GuardDecision) {
	defer failClosed(&d, PathSignIn, targetURL)

	if p.IsLoggedIn() {
		return Allow()
	}
	return Deny(PathSignIn, returnParams(targetURL))
}

// AdminGuard admits admins only.
func AdminGuard(p Predicates, targetURL string) (d GuardDecision) {
	defer failClosed(&d, PathAdminSignIn, targetURL)

	if p.IsAdminLoggedIn() {
		return Allow()
	}
	return Deny(PathAdminSignIn, returnParams(targetURL))
}

// AdminOrUserGuard admits any authenticated session. The admin branch is
// evaluated first; when neither predicate holds, the admin branch's redirect
// fires, so anonymous navigation lands on the admin sign-in page.
func AdminOrUserGuard(p Predicates, targetURL string) (d GuardDecision) {
	defer failClosed(&d, PathAdminSignIn, targetURL)

	if p.IsAdminLoggedIn() {
		return Allow()
	}
	if p.IsLoggedIn() {
		return Allow()
	}
	return Deny(PathAdminSignIn, returnParams(targetURL))
}

// AnonymousGuard protects sign-in style pages: authenticated sessions are
// bounced to their landing page, anonymous visitors pass. An internal error
// resolves to Allow, which for a sign-in page is the closed outcome: the
// visitor stays on the anonymous surface.
func AnonymousGuard(p Predicates) (d GuardDecision) {
	defer func() {
		if r := recover(); r != nil {
			d = Allow()
		}
	}()

	if p.IsAdminLoggedIn() {
		return Deny(PathAdminDashboard, nil)
	}
	if p.IsLoggedIn() {
		return Deny(PathHome, nil)
	}
	return Allow()
}

// failClosed converts a guard panic into a deny. Guards never propagate
// errors to the router.
func failClosed(d *GuardDecision, redirectTo, targetURL string) {
	if r := recover(); r != nil {
		*d = Deny(redirectTo, returnParams(targetURL))
	}
}

// ApplyDecision performs the redirect side effect of a deny through the
// router. Returns true when navigation may proceed.
func ApplyDecision(r Router, d GuardDecision) (bool, error) {
	if d.Allowed {
		return true, nil
	}
	if r == nil {
		return false, nil
	}
	return false, r.Navigate(d.RedirectTo, d.Params)
}
