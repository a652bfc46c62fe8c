package server

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscribeUnsubscribe(t *testing.T) {
	n := newNotifier()

	ch := n.subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.count())

	n.unsubscribe(ch)
	assert.Equal(t, 0, n.count())

	_, open := <-ch
	assert.False(t, open, "unsubscribe closes the channel")
}

func TestNotifier_BroadcastReachesEveryListener(t *testing.T) {
	n := newNotifier()
	ch1 := n.subscribe()
	ch2 := n.subscribe()
	defer n.unsubscribe(ch1)
	defer n.unsubscribe(ch2)

	n.broadcast()

	for i, ch := range []chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("listener %d did not receive broadcast", i)
		}
	}
}

func TestNotifier_BroadcastDoesNotBlockOnFullListener(t *testing.T) {
	n := newNotifier()
	ch := n.subscribe()
	defer n.unsubscribe(ch)

	ch <- struct{}{}

	done := make(chan struct{})
	go func() {
		n.broadcast()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("broadcast blocked on a full channel")
	}
	assert.Len(t, ch, 1, "pending ping is coalesced")
}

func TestNotifier_Concurrent(t *testing.T) {
	n := newNotifier()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.subscribe()
			n.broadcast()
			n.unsubscribe(ch)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, n.count())
}
