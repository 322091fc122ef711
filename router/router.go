// Package router maps client-side paths to named routes and guards every
// navigation against the session's login state.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Route names used by the guard and the shell.
const (
	Login     = "login"
	Dashboard = "dashboard"
	Profile   = "profile"
	Settings  = "settings"
	NotFound  = "not-found"
)

// MaxRedirects bounds how many redirects one navigation may follow.
const MaxRedirects = 8

var (
	ErrRedirectLoop = errors.New("too many redirects")
	ErrUnknownRoute = errors.New("unknown route name")
)

// Meta holds per-route access rules.
type Meta struct {
	RequiresAuth  bool
	RequiresGuest bool
}

// Route is one entry of the static route table. A route with Redirect set
// never renders; navigating to it continues at the redirect path.
type Route struct {
	Path      string
	Name      string
	Component string
	Redirect  string
	Meta      Meta
}

// Session is what the guard needs to know about the current user.
type Session interface {
	IsLoggedIn() bool
}

// Router resolves paths and tracks the current route.
type Router struct {
	session  Session
	routes   []Route
	byPath   map[string]Route
	byName   map[string]Route
	notFound Route

	mu      sync.Mutex
	current Route
	history []Route
}

// DefaultRoutes is the application's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Redirect: "/dashboard"},
		{Path: "/login", Name: Login, Component: "LoginView", Meta: Meta{RequiresGuest: true}},
		{Path: "/dashboard", Name: Dashboard, Component: "DashboardView", Meta: Meta{RequiresAuth: true}},
		{Path: "/profile", Name: Profile, Component: "ProfileView", Meta: Meta{RequiresAuth: true}},
		{Path: "/settings", Name: Settings, Component: "SettingsView", Meta: Meta{RequiresAuth: true}},
		{Path: "*", Name: NotFound, Component: "NotFoundView"},
	}
}

// New builds a router over routes. The route with path "*" is the catch-all;
// when none is given an empty not-found route is used.
func New(routes []Route, session Session) *Router {
	r := &Router{
		session:  session,
		routes:   routes,
		byPath:   make(map[string]Route, len(routes)),
		byName:   make(map[string]Route, len(routes)),
		notFound: Route{Path: "*", Name: NotFound},
	}
	for _, route := range routes {
		if route.Path == "*" {
			r.notFound = route
			continue
		}
		r.byPath[normalize(route.Path)] = route
		if route.Name != "" {
			r.byName[route.Name] = route
		}
	}
	r.byName[r.notFound.Name] = r.notFound
	return r
}

// Routes returns the static table.
func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

// Match returns the route for path without following redirects or running
// the guard. Unknown paths match the catch-all.
func (r *Router) Match(path string) Route {
	if route, ok := r.byPath[normalize(path)]; ok {
		return route
	}
	return r.notFound
}

// ByName looks a route up by name.
func (r *Router) ByName(name string) (Route, bool) {
	route, ok := r.byName[name]
	return route, ok
}

// Current is the last route navigation settled on. Before the first
// navigation it is the zero Route.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate resolves path, applies static redirects and the guard, and makes
// the resulting route current.
func (r *Router) Navigate(path string) (Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	to, err := r.resolve(r.Match(path), r.current)
	if err != nil {
		return Route{}, err
	}
	r.settle(to)
	return to, nil
}

// Push navigates to a route by name.
func (r *Router) Push(name string) (Route, error) {
	route, ok := r.byName[name]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	to, err := r.resolve(route, r.current)
	if err != nil {
		return Route{}, err
	}
	r.settle(to)
	return to, nil
}

// Back returns to the previous route, running the guard again. With no
// history it stays put.
func (r *Router) Back() (Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.history) == 0 {
		return r.current, nil
	}
	prev := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]

	to, err := r.resolve(prev, r.current)
	if err != nil {
		return Route{}, err
	}
	r.current = to
	return to, nil
}

func (r *Router) resolve(to, from Route) (Route, error) {
	for hops := 0; hops <= MaxRedirects; hops++ {
		if to.Redirect != "" {
			to = r.Match(to.Redirect)
			continue
		}

		decision := Guard(r.session, to, from)
		if decision.Proceed() {
			return to, nil
		}

		next, ok := r.byName[decision.Redirect]
		if !ok {
			return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, decision.Redirect)
		}
		to = next
	}
	return Route{}, ErrRedirectLoop
}

func (r *Router) settle(to Route) {
	if r.current.Name != "" && r.current.Path != to.Path {
		r.history = append(r.history, r.current)
	}
	r.current = to
}

// normalize drops query, fragment and trailing slashes.
func normalize(path string) string {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		path = "/"
	}
	return path
}
