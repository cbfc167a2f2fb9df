// Package plugin defines the hook surface burrow plugins implement and the
// Set that dispatches host tool-call events to them.
package plugin

import (
	"context"
	"log/slog"

	"github.com/burrowtools/burrow/internal/logger"
)

// ToolCall is one intercepted tool invocation from the host. Args is the
// tool's untyped argument bag; plugins mutate it in place.
type ToolCall struct {
	SessionID string
	Tool      string
	Args      map[string]any
	Root      string
}

// Plugin is the minimal interface all plugins implement. Hook behavior is
// added through the optional interfaces below.
type Plugin interface {
	Name() string
}

// ToolInterceptor runs before a tool call executes and may mutate its
// arguments.
type ToolInterceptor interface {
	Plugin
	ToolBefore(ctx context.Context, call *ToolCall) error
}

// ToolObserver runs after a tool call finished. callErr is the host-reported
// error message, empty on success.
type ToolObserver interface {
	Plugin
	ToolAfter(ctx context.Context, call *ToolCall, callErr string) error
}

// SessionCloser is notified when the host ends a session.
type SessionCloser interface {
	Plugin
	SessionEnd(sessionID string)
}

// Set dispatches hook events to an ordered list of plugins. Plugin errors
// are logged and swallowed: a failing plugin must never block the
// underlying tool call (fail open).
type Set struct {
	plugins []Plugin
	log     *slog.Logger
}

// NewSet creates a Set with the given plugins in dispatch order.
func NewSet(plugins ...Plugin) *Set {
	return &Set{plugins: plugins, log: logger.ComponentLogger("plugin")}
}

// Names returns the plugin names in dispatch order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.plugins))
	for _, p := range s.plugins {
		names = append(names, p.Name())
	}
	return names
}

// Len returns the number of registered plugins.
func (s *Set) Len() int {
	return len(s.plugins)
}

// ToolBefore runs every ToolInterceptor against the call. Errors and panics
// are contained per plugin so the call always proceeds with whatever
// rewriting succeeded.
func (s *Set) ToolBefore(ctx context.Context, call *ToolCall) {
	for _, p := range s.plugins {
		interceptor, ok := p.(ToolInterceptor)
		if !ok {
			continue
		}
		s.runContained(p.Name(), "ToolBefore", func() error {
			return interceptor.ToolBefore(ctx, call)
		})
	}
}

// ToolAfter runs every ToolObserver against the finished call.
func (s *Set) ToolAfter(ctx context.Context, call *ToolCall, callErr string) {
	for _, p := range s.plugins {
		observer, ok := p.(ToolObserver)
		if !ok {
			continue
		}
		s.runContained(p.Name(), "ToolAfter", func() error {
			return observer.ToolAfter(ctx, call, callErr)
		})
	}
}

// SessionEnd notifies every SessionCloser that a session ended.
func (s *Set) SessionEnd(sessionID string) {
	for _, p := range s.plugins {
		closer, ok := p.(SessionCloser)
		if !ok {
			continue
		}
		name := p.Name()
		s.runContained(name, "SessionEnd", func() error {
			closer.SessionEnd(sessionID)
			return nil
		})
	}
}

// runContained invokes fn, converting errors and panics into log entries.
func (s *Set) runContained(name, hook string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("plugin panicked", "plugin", name, "hook", hook, "panic", r)
		}
	}()
	if err := fn(); err != nil {
		s.log.Warn("plugin hook failed", "plugin", name, "hook", hook, "error", err)
	}
}
