package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrDuplicateAction = errors.New("action already registered")
	ErrInvalidAction   = errors.New("action needs a name and a handler")
)

// UnknownActionError names the action that could not be resolved.
type UnknownActionError struct {
	Name string
}

func (e *UnknownActionError) Error() string { return fmt.Sprintf("unknown action %q", e.Name) }

func (e *UnknownActionError) Is(target error) bool { return target == ErrUnknownAction }

// Invocation is everything a handler gets. Credentials is nil for actions
// without a channel.
type Invocation struct {
	UserID      string
	SessionID   string
	Args        map[string]any
	Credentials map[string]string
}

type Handler func(ctx context.Context, inv Invocation) (any, error)

// Action binds a name to its handler. Channel is empty for actions that
// need no credentials.
type Action struct {
	Name    string
	Channel string
	Handler Handler
}

// Registry is the fixed table of dispatchable actions.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
}

func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]Action)}
}

func (r *Registry) Register(a Action) error {
	if a.Name == "" || a.Handler == nil {
		return ErrInvalidAction
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.actions[a.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAction, a.Name)
	}
	r.actions[a.Name] = a
	return nil
}

// MustRegister panics on error. Use it only while wiring at startup.
func (r *Registry) MustRegister(actions ...Action) {
	for _, a := range actions {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Lookup(name string) (Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[name]
	if !ok {
		return Action{}, &UnknownActionError{Name: name}
	}
	return a, nil
}

// Names returns the registered action names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for n := range r.actions {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
