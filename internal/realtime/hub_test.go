package realtime

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
)

// decodeEvents splits a buffer of newline-delimited JSON into events.
func decodeEvents(t *testing.T, buf *bytes.Buffer) []Event {
	t.Helper()
	var out []Event
	dec := json.NewDecoder(strings.NewReader(buf.String()))
	for dec.More() {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		out = append(out, ev)
	}
	return out
}

func TestPublishReachesOnlySubscribedList(t *testing.T) {
	h := NewHub()
	var a, b bytes.Buffer
	subA := NewSubscriber(&a)
	subB := NewSubscriber(&b)

	h.Subscribe("list-a", subA)
	h.Subscribe("list-b", subB)

	h.Publish("list-a", EventUpdated)

	got := decodeEvents(t, &a)
	if len(got) != 1 || got[0].Status != "updated" {
		t.Errorf("subscriber of list-a got %v, want one updated event", got)
	}
	if b.Len() != 0 {
		t.Errorf("subscriber of list-b received %q, want nothing", b.String())
	}
}

func TestPublishDeletedEnvelope(t *testing.T) {
	h := NewHub()
	var buf bytes.Buffer
	sub := NewSubscriber(&buf)
	h.Subscribe("list-a", sub)

	h.Publish("list-a", EventDeleted)

	got := decodeEvents(t, &buf)
	if len(got) != 1 || got[0].Status != "deleted" {
		t.Errorf("got %v, want one deleted event", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	var buf bytes.Buffer
	sub := NewSubscriber(&buf)

	h.Subscribe("list-a", sub)
	h.Unsubscribe("list-a", sub)

	h.Publish("list-a", EventUpdated)
	if buf.Len() != 0 {
		t.Errorf("unsubscribed connection received %q", buf.String())
	}
	if n := h.SubscriberCount("list-a"); n != 0 {
		t.Errorf("SubscriberCount = %d after unsubscribe, want 0", n)
	}
}

func TestUnsubscribeUnknownIsNoop(t *testing.T) {
	h := NewHub()
	h.Unsubscribe("never-seen", NewSubscriber(&bytes.Buffer{}))
	if n := h.SubscriberCount("never-seen"); n != 0 {
		t.Errorf("SubscriberCount = %d, want 0", n)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("peer gone") }

func TestPublishDropsDeadSubscribers(t *testing.T) {
	h := NewHub()
	var live bytes.Buffer
	dead := NewSubscriber(failingWriter{})
	ok := NewSubscriber(&live)

	h.Subscribe("list-a", dead)
	h.Subscribe("list-a", ok)

	h.Publish("list-a", EventUpdated)

	if n := h.SubscriberCount("list-a"); n != 1 {
		t.Errorf("SubscriberCount = %d after failed write, want 1", n)
	}
	if got := decodeEvents(t, &live); len(got) != 1 {
		t.Errorf("healthy subscriber got %d events, want 1", len(got))
	}

	// A second publish must not touch the dropped subscriber again.
	h.Publish("list-a", EventUpdated)
	if got := decodeEvents(t, &live); len(got) != 2 {
		t.Errorf("healthy subscriber got %d events, want 2", len(got))
	}
}

func TestConcurrentPublishAndUnsubscribe(t *testing.T) {
	h := NewHub()
	const n = 32

	subs := make([]*Subscriber, n)
	bufs := make([]*bytes.Buffer, n)
	for i := range subs {
		bufs[i] = &bytes.Buffer{}
		subs[i] = NewSubscriber(bufs[i])
		h.Subscribe("list-a", subs[i])
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			h.Publish("list-a", EventUpdated)
		}
	}()
	go func() {
		defer wg.Done()
		for _, sub := range subs {
			h.Unsubscribe("list-a", sub)
		}
	}()
	wg.Wait()

	if got := h.SubscriberCount("list-a"); got != 0 {
		t.Errorf("SubscriberCount = %d after all unsubscribed, want 0", got)
	}
}
