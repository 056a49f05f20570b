package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepEvent struct {
	Step int
}

func TestPublish_MatchingSubscriber(t *testing.T) {
	bus := NewEventPublisher(nil)

	var got []stepEvent
	bus.Subscribe(func(ev stepEvent) {
		got = append(got, ev)
	})

	bus.Publish(stepEvent{Step: 2})

	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Step)
}

func TestPublish_NoMatchDoesNotPanic(t *testing.T) {
	bus := NewEventPublisher(nil)
	bus.Subscribe(func(ev stepEvent) {})

	assert.NotPanics(t, func() {
		bus.Publish("unrelated")
	})
}

func TestPublish_RecoversFromHandlerPanic(t *testing.T) {
	bus := NewEventPublisher(nil)
	bus.Subscribe(func(ev stepEvent) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		bus.Publish(stepEvent{Step: 1})
	})
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventPublisher(nil)

	handler := func(ev stepEvent) {}
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	assert.Equal(t, 0, bus.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	handler := func(ev stepEvent) {}
	assert.True(t, MatchSignature(handler, []interface{}{stepEvent{}}))
	assert.False(t, MatchSignature(handler, []interface{}{"nope"}))
	assert.False(t, MatchSignature(handler, []interface{}{stepEvent{}, 1}))
	assert.False(t, MatchSignature("not a func", []interface{}{stepEvent{}}))
}
