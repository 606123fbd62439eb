package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type failing struct{ err error }

func (f failing) Publish(context.Context, string, Event) error { return f.err }

func TestMultiFansOutAndJoinsErrors(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	boom := errors.New("broker down")
	m := Multi{a, failing{boom}, b}

	err := m.Publish(context.Background(), TopicReviews, Event{Type: ReviewCreated, UserID: 3})
	require.ErrorIs(t, err, boom)
	require.Len(t, a.Events, 1)
	require.Len(t, b.Events, 1)
	require.Equal(t, []string{TopicReviews}, b.Topics)
	require.Equal(t, uint(3), b.Events[0].UserID)

	require.NoError(t, Multi{a, Noop{}}.Publish(context.Background(), TopicOrders, Event{Type: OrderStatusChanged}))
	require.Len(t, a.Events, 2)
}
