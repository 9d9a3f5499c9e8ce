package hub

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/breach-party/backend/internal/session"
)

func testOptions() session.Options {
	deck := make([]string, 30)
	for i := range deck {
		deck[i] = fmt.Sprintf("WORD%d", i)
	}
	return session.Options{Deck: deck, DisconnectGrace: time.Hour}
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	h := NewHub(context.Background(), testOptions())
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateSession{ID: "s1", Name: "Lobby", HostID: "host", HostName: "Hosty", Reply: reply}
	s1 := <-reply

	h.Inbox() <- GetSession{ID: "s1", Reply: reply}
	s2 := <-reply

	if s1 == nil || s2 == nil || s1 != s2 {
		t.Fatalf("expected same session pointer")
	}
}

func TestHub_CreateIsIdempotent(t *testing.T) {
	h := NewHub(context.Background(), testOptions())
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateSession{ID: "s1", Name: "Lobby", HostID: "host", HostName: "Hosty", Reply: reply}
	s1 := <-reply
	h.Inbox() <- CreateSession{ID: "s1", Name: "Other", HostID: "other", HostName: "Other", Reply: reply}
	s2 := <-reply

	if s1 != s2 {
		t.Fatalf("second create for the same id must return the existing session")
	}
}

func TestHub_GetUnknownIsNil(t *testing.T) {
	h := NewHub(context.Background(), testOptions())
	reply := make(chan *session.Session, 1)

	h.Inbox() <- GetSession{ID: "nope", Reply: reply}
	if <-reply != nil {
		t.Fatalf("expected nil for unknown session")
	}
}

func TestHub_EmptySessionRemovesItself(t *testing.T) {
	h := NewHub(context.Background(), testOptions())
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateSession{ID: "s1", Name: "Lobby", HostID: "host", HostName: "Hosty", Reply: reply}
	sess := <-reply

	// The seeded host is the only participant; leaving empties the session.
	sess.Inbox() <- session.Intent{From: "host", Kind: session.IntentLeave}

	deadline := time.After(time.Second)
	for {
		h.Inbox() <- GetSession{ID: "s1", Reply: reply}
		if <-reply == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("emptied session never left the registry")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
