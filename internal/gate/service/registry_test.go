package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func noop(context.Context, Invocation) (any, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(Action{Name: "b", Handler: noop}))
	require.NoError(t, r.Register(Action{Name: "a", Channel: "email", Handler: noop}))

	t.Run("lookup", func(t *testing.T) {
		a, err := r.Lookup("a")
		require.NoError(t, err)
		require.Equal(t, "email", a.Channel)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := r.Lookup("drop_tables")
		require.ErrorIs(t, err, ErrUnknownAction)

		var uae *UnknownActionError
		require.True(t, errors.As(err, &uae))
		require.Equal(t, "drop_tables", uae.Name)
	})

	t.Run("duplicate", func(t *testing.T) {
		require.ErrorIs(t, r.Register(Action{Name: "a", Handler: noop}), ErrDuplicateAction)
	})

	t.Run("invalid", func(t *testing.T) {
		require.ErrorIs(t, r.Register(Action{Name: "c"}), ErrInvalidAction)
		require.ErrorIs(t, r.Register(Action{Handler: noop}), ErrInvalidAction)
	})

	t.Run("names sorted", func(t *testing.T) {
		require.Equal(t, []string{"a", "b"}, r.Names())
	})
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	require.Panics(t, func() {
		r.MustRegister(Action{Name: "x", Handler: noop}, Action{Name: "x", Handler: noop})
	})
}
