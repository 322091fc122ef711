package router

// Decision is the guard's verdict. An empty Redirect means proceed.
type Decision struct {
	Redirect string
}

func (d Decision) Proceed() bool {
	return d.Redirect == ""
}

// Guard decides whether navigation from one route to another may proceed.
// Redirect targets are route names, not paths.
func Guard(session Session, to, from Route) Decision {
	loggedIn := session != nil && session.IsLoggedIn()

	if to.Meta.RequiresAuth && !loggedIn {
		return Decision{Redirect: Login}
	}
	if to.Meta.RequiresGuest && loggedIn {
		return Decision{Redirect: Dashboard}
	}
	return Decision{}
}
