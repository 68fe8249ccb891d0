package telegram

import (
	"context"
	"sort"
	"sync"

	"github.com/m3rciful/membot/core/logger"
	"github.com/m3rciful/membot/core/membership"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// TransitionHandler binds a handler to a membership transition.
// Old and New are query lists resolved against the closed status-group set;
// the handler fires when the old status matches Old and the new status
// matches New.
type TransitionHandler struct {
	Handler tele.HandlerFunc
	Old     []membership.Query
	New     []membership.Query
}

// Bound is a registered handler ready for dispatch.
type Bound struct {
	Name    string
	Filter  membership.Filter
	Handler tele.HandlerFunc
}

// Registry holds membership transition handlers for both update streams.
// Handlers are dispatched in registration order; the first match wins.
type Registry struct {
	mu      sync.RWMutex
	self    []Bound
	members []Bound
	names   map[string]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// RegisterSelf adds a handler for the bot's own membership transitions.
func (r *Registry) RegisterSelf(name string, h TransitionHandler) {
	r.register(membership.ScopeSelf, name, h)
}

// RegisterMember adds a handler for other participants' membership transitions.
func (r *Registry) RegisterMember(name string, h TransitionHandler) {
	r.register(membership.ScopeMember, name, h)
}

// register validates the registration and binds the filter. Invalid entries
// are skipped with a warning rather than failing startup; query tokens are
// drawn from a closed set, so a bad token is a wiring bug, not runtime input.
func (r *Registry) register(scope membership.Scope, name string, h TransitionHandler) {
	if r == nil || name == "" || h.Handler == nil {
		logger.Warn(context.Background(), "tg.wire", "register.transition.skip",
			slog.String("handler", name),
			slog.String("reason", "invalid"),
		)
		return
	}
	for _, q := range append(append([]membership.Query(nil), h.Old...), h.New...) {
		if !q.Valid() {
			logger.Warn(context.Background(), "tg.wire", "register.transition.skip",
				slog.String("handler", name),
				slog.String("reason", "unknown_query"),
				slog.String("query", string(q)),
			)
			return
		}
	}
	if len(h.Old) == 0 || len(h.New) == 0 {
		logger.Warn(context.Background(), "tg.wire", "register.transition.skip",
			slog.String("handler", name),
			slog.String("reason", "empty_query"),
		)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[name]; exists {
		logger.Warn(context.Background(), "tg.wire", "register.transition.duplicate",
			slog.String("handler", name),
		)
		return
	}
	r.names[name] = struct{}{}
	bound := Bound{
		Name:    name,
		Filter:  membership.ForScope(scope, h.Old, h.New),
		Handler: h.Handler,
	}
	if scope == membership.ScopeSelf {
		r.self = append(r.self, bound)
	} else {
		r.members = append(r.members, bound)
	}
}

// Handlers returns the dispatch list for a scope in registration order.
func (r *Registry) Handlers(scope membership.Scope) []Bound {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if scope == membership.ScopeSelf {
		return append([]Bound(nil), r.self...)
	}
	return append([]Bound(nil), r.members...)
}

// ListHandlers returns sorted handler names (for diagnostics).
func (r *Registry) ListHandlers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of registered handlers across both scopes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.self) + len(r.members)
}
