// Package router is a stack navigator with two roots. The auth root hosts
// the login and setup flows; the main root hosts the signed-in app. The
// active root follows the authenticated flag, and flipping it discards the
// stack entirely.
package router

import (
	"fmt"
	"sync"

	"plania-client/internal/common/metrics"
)

type Route string

const (
	RouteLogin            Route = "Login"
	RouteRegister         Route = "Register"
	RouteForgotPassword   Route = "ForgotPassword"
	RouteVerificationCode Route = "VerificationCode"
	RouteBusinessConfig   Route = "BusinessConfig"
	RouteStaffSetup       Route = "StaffSetup"
	RouteBusinessHome     Route = "BusinessHome"
	RouteMainApp          Route = "MainApp"
)

// Entry is one stack frame: a route plus its navigation parameters.
type Entry struct {
	Route  Route
	Params map[string]string
}

var authRoutes = map[Route]bool{
	RouteLogin:            true,
	RouteRegister:         true,
	RouteForgotPassword:   true,
	RouteVerificationCode: true,
	RouteBusinessConfig:   true,
	RouteStaffSetup:       true,
	RouteBusinessHome:     true,
	RouteMainApp:          true,
}

var mainRoutes = map[Route]bool{
	RouteMainApp:      true,
	RouteBusinessHome: true,
}

// Router holds the navigation stack. All methods are safe for concurrent
// use; subscribers run outside the lock.
type Router struct {
	mu            sync.Mutex
	authenticated bool
	stack         []Entry
	subscribers   map[int]func(Entry)
	nextSubID     int
}

func New() *Router {
	return &Router{
		stack:       []Entry{{Route: RouteLogin}},
		subscribers: map[int]func(Entry){},
	}
}

func initialRoute(authenticated bool) Route {
	if authenticated {
		return RouteMainApp
	}
	return RouteLogin
}

func (r *Router) routes() map[Route]bool {
	if r.authenticated {
		return mainRoutes
	}
	return authRoutes
}

// Current returns the top of the stack.
func (r *Router) Current() Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stack[len(r.stack)-1]
}

// Depth returns the stack size.
func (r *Router) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}

// SetAuthenticated selects the root. A change remounts: the old stack is
// discarded and the new root starts at its initial route.
func (r *Router) SetAuthenticated(authenticated bool) {
	r.mu.Lock()
	if r.authenticated == authenticated {
		r.mu.Unlock()
		return
	}
	r.authenticated = authenticated
	r.stack = []Entry{{Route: initialRoute(authenticated)}}
	top := r.stack[0]
	r.mu.Unlock()

	metrics.FlowTransitionsTotal.WithLabelValues("router", "remount").Inc()
	r.notify(top)
}

// Navigate pushes a route onto the stack.
func (r *Router) Navigate(route Route, params map[string]string) error {
	r.mu.Lock()
	if !r.routes()[route] {
		r.mu.Unlock()
		return fmt.Errorf("route %q is not registered in the active navigator", route)
	}
	entry := Entry{Route: route, Params: params}
	r.stack = append(r.stack, entry)
	r.mu.Unlock()

	r.notify(entry)
	return nil
}

// GoBack pops the stack. It returns false on the initial route, where there
// is nothing to pop.
func (r *Router) GoBack() bool {
	r.mu.Lock()
	if len(r.stack) <= 1 {
		r.mu.Unlock()
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	top := r.stack[len(r.stack)-1]
	r.mu.Unlock()

	r.notify(top)
	return true
}

// Reset replaces the whole stack, so the new top has no back history. With
// no arguments the active root returns to its initial route.
func (r *Router) Reset(entries ...Entry) error {
	r.mu.Lock()
	if len(entries) == 0 {
		entries = []Entry{{Route: initialRoute(r.authenticated)}}
	}
	for _, e := range entries {
		if !r.routes()[e.Route] {
			r.mu.Unlock()
			return fmt.Errorf("route %q is not registered in the active navigator", e.Route)
		}
	}
	r.stack = append([]Entry(nil), entries...)
	top := r.stack[len(r.stack)-1]
	r.mu.Unlock()

	r.notify(top)
	return nil
}

// Subscribe registers a listener called with the new top entry on every
// transition. The returned function unsubscribes.
func (r *Router) Subscribe(fn func(Entry)) func() {
	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = fn
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.subscribers, id)
		r.mu.Unlock()
	}
}

func (r *Router) notify(top Entry) {
	r.mu.Lock()
	listeners := make([]func(Entry), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		listeners = append(listeners, fn)
	}
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(top)
	}
}
