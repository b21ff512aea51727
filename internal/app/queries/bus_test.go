package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoQuery struct {
	Term   string
	Viewer string
}

func (echoQuery) Key() string        { return "test.echo" }
func (q echoQuery) ViewerID() string { return q.Viewer }

type unknownQuery struct{}

func (unknownQuery) Key() string { return "test.unknown" }

func TestAskTyped(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[echoQuery, string](bus, "test.echo", HandlerFunc[echoQuery, string](func(_ context.Context, q echoQuery) (string, error) {
		return "echo:" + q.Term, nil
	}))

	got, err := Ask[echoQuery, string](context.Background(), bus, echoQuery{Term: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", got)

	_, err = Ask[echoQuery, int](context.Background(), bus, echoQuery{})
	assert.ErrorIs(t, err, ErrResultType)

	_, err = Ask[unknownQuery, string](context.Background(), bus, unknownQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = bus.Ask(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Equal(t, []string{"test.echo"}, bus.Keys())
}

func TestDescribeReportsViewer(t *testing.T) {
	key, viewer := Describe(echoQuery{Viewer: "ann@example.com"})
	assert.Equal(t, "test.echo", key)
	assert.Equal(t, "ann@example.com", viewer)

	key, viewer = Describe(unknownQuery{})
	assert.Equal(t, "test.unknown", key)
	assert.Empty(t, viewer)
}

func TestAskNilBus(t *testing.T) {
	_, err := Ask[echoQuery, string](context.Background(), nil, echoQuery{})
	assert.ErrorIs(t, err, ErrNilBus)
}
