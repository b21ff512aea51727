package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct{ N int }

func (pingCommand) Key() string { return "test.ping" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.other" }

func TestDispatchTyped(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[pingCommand, int](bus, "test.ping", HandlerFunc[pingCommand, int](func(_ context.Context, cmd pingCommand) (int, error) {
		return cmd.N * 2, nil
	}))

	got, err := Dispatch[pingCommand, int](context.Background(), bus, pingCommand{N: 21})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = Dispatch[pingCommand, string](context.Background(), bus, pingCommand{N: 1})
	assert.ErrorIs(t, err, ErrResultType)

	_, err = Dispatch[otherCommand, int](context.Background(), bus, otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)
	assert.Equal(t, []string{"test.ping"}, bus.Keys())
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	bus := NewInMemoryBus()
	h := HandlerFunc[pingCommand, int](func(context.Context, pingCommand) (int, error) { return 0, nil })
	RegisterHandler[pingCommand, int](bus, "test.ping", h)
	assert.Panics(t, func() { RegisterHandler[pingCommand, int](bus, "test.ping", h) })
}

func TestDispatchNilBus(t *testing.T) {
	_, err := Dispatch[pingCommand, int](context.Background(), nil, pingCommand{})
	assert.ErrorIs(t, err, ErrNilBus)
}
