package route

// Decision is the guard's verdict for one navigation.
type Decision int

const (
	// Allowed renders the requested route.
	Allowed Decision = iota
	// Redirecting sends the user to the login screen instead.
	Redirecting
)

func (d Decision) String() string {
	if d == Redirecting {
		return "redirecting"
	}
	return "allowed"
}

// TokenSource reports whether a session token is stored.
type TokenSource interface {
	Get() (string, bool)
}

// Guard gates protected routes on the presence of a token.
type Guard struct {
	session TokenSource
}

// NewGuard returns a Guard reading from session.
func NewGuard(session TokenSource) Guard {
	return Guard{session: session}
}

// Check decides whether r may render. The session is read on every call.
// When the decision is Redirecting the returned route is Login; otherwise
// it is r unchanged.
func (g Guard) Check(r Route) (Decision, Route) {
	if !r.Protected() {
		return Allowed, r
	}
	if _, ok := g.session.Get(); !ok {
		return Redirecting, Route{Name: Login}
	}
	return Allowed, r
}
