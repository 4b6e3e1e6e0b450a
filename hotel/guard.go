package hotel

import "net/url"

// Capability is what a view requires of the caller.
type Capability int

const (
	CapabilityNone Capability = iota
	CapabilityAuthenticated
	CapabilityAdmin
)

func (c Capability) String() string {
	switch c {
	case CapabilityAuthenticated:
		return "authenticated"
	case CapabilityAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Well-known redirect targets.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Decision is the guard's verdict: either proceed, or go to Redirect.
type Decision struct {
	Allow    bool
	Redirect string
}

type sessionState interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Check gates access to a view. Unauthenticated callers are sent to the
// login view with the requested location preserved for post-login return;
// authenticated non-admins asking for an admin view are sent home.
func Check(sess sessionState, required Capability, requested string) Decision {
	switch required {
	case CapabilityAuthenticated:
		if !sess.IsAuthenticated() {
			return Decision{Redirect: loginRedirect(requested)}
		}
	case CapabilityAdmin:
		if !sess.IsAuthenticated() {
			return Decision{Redirect: loginRedirect(requested)}
		}
		if !sess.IsAdmin() {
			return Decision{Redirect: HomePath}
		}
	}
	return Decision{Allow: true}
}

func loginRedirect(requested string) string {
	if requested == "" || requested == LoginPath {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(requested)
}
