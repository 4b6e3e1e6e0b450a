package hotel

import "testing"

type fakeSession struct {
	auth  bool
	admin bool
}

func (f fakeSession) IsAuthenticated() bool { return f.auth }
func (f fakeSession) IsAdmin() bool         { return f.admin }

func TestGuardDecisions(t *testing.T) {
	cases := []struct {
		name      string
		sess      fakeSession
		required  Capability
		requested string
		allow     bool
		redirect  string
	}{
		{"public view, anonymous", fakeSession{}, CapabilityNone, "/rooms", true, ""},
		{"auth view, anonymous", fakeSession{}, CapabilityAuthenticated, "/book/3", false, "/login?next=%2Fbook%2F3"},
		{"auth view, authenticated", fakeSession{auth: true}, CapabilityAuthenticated, "/book/3", true, ""},
		{"admin view, anonymous", fakeSession{}, CapabilityAdmin, "/admin", false, "/login?next=%2Fadmin"},
		{"admin view, non-admin", fakeSession{auth: true}, CapabilityAdmin, "/admin", false, HomePath},
		{"admin view, admin", fakeSession{auth: true, admin: true}, CapabilityAdmin, "/admin", true, ""},
		{"auth view, no origin", fakeSession{}, CapabilityAuthenticated, "", false, LoginPath},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Check(c.sess, c.required, c.requested)
			if got.Allow != c.allow {
				t.Fatalf("Allow = %v, want %v", got.Allow, c.allow)
			}
			if got.Redirect != c.redirect {
				t.Fatalf("Redirect = %q, want %q", got.Redirect, c.redirect)
			}
		})
	}
}

func TestGuardAdminRedirectsToLoginNotHome(t *testing.T) {
	// An anonymous caller asking for admin must land on login, not home.
	got := Check(fakeSession{}, CapabilityAdmin, "/admin/rooms")
	if got.Allow {
		t.Fatal("anonymous admin request must not be allowed")
	}
	if got.Redirect == HomePath {
		t.Fatal("anonymous admin request must redirect to login, not home")
	}
}
