package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeBroadcastUnsubscribe(t *testing.T) {
	n := New()
	id1, ch1 := n.Subscribe()
	id2, ch2 := n.Subscribe()
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, n.Count())

	n.Broadcast()
	select {
	case <-ch1:
	default:
		t.Fatal("first listener did not receive the ping")
	}
	select {
	case <-ch2:
	default:
		t.Fatal("second listener did not receive the ping")
	}

	n.Unsubscribe(id1)
	assert.Equal(t, 1, n.Count())
	_, open := <-ch1
	assert.False(t, open, "unsubscribed channel is closed")
}

func TestBroadcastSkipsFullChannel(t *testing.T) {
	n := New()
	id, ch := n.Subscribe()
	defer n.Unsubscribe(id)

	n.Broadcast()
	n.Broadcast() // buffer already holds one ping, must not block

	<-ch
	select {
	case <-ch:
		t.Fatal("coalesced ping should have been dropped")
	default:
	}
}

func TestUnsubscribeUnknownID(t *testing.T) {
	n := New()
	n.Unsubscribe("nope") // must not panic
	assert.Zero(t, n.Count())
}
