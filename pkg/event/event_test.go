package event_test

import (
	"sync"
	"testing"

	"github.com/lekhanhduy0411/tiemlen/pkg/event"
)

func TestFireReachesAllListeners(t *testing.T) {
	defer event.Flush()

	var got []interface{}
	event.Listen("order.placed", func(p interface{}) { got = append(got, p) })
	event.Listen("order.placed", func(p interface{}) { got = append(got, p) })
	event.Listen("order.cancelled", func(p interface{}) {
		t.Error("unrelated listener must not fire")
	})

	event.Fire("order.placed", "payload")
	if len(got) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(got))
	}
	if got[0] != "payload" {
		t.Errorf("unexpected payload: %v", got[0])
	}
}

func TestFireWithoutListeners(t *testing.T) {
	defer event.Flush()
	event.Fire("nobody.cares", nil) // must not panic
}

func TestFireAsync(t *testing.T) {
	defer event.Flush()

	var wg sync.WaitGroup
	wg.Add(2)
	event.Listen("chat.message", func(interface{}) { wg.Done() })
	event.Listen("chat.message", func(interface{}) { wg.Done() })

	event.FireAsync("chat.message", nil)
	wg.Wait()
}

func TestFlush(t *testing.T) {
	event.Listen("order.placed", func(interface{}) {
		t.Error("flushed listener must not fire")
	})
	event.Flush()
	event.Fire("order.placed", nil)
}
