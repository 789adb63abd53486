package liveboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"bestball-lab/internal/draftorder"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func TestFeed_ReceivesPickEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		messages := []string{
			`{"overall": 1, "teamSlot": 1, "playerId": "alpha-qb-qb"}`,
			`{"overall": 0, "playerId": "dropped"}`,
			`not json`,
			`{"overall": 2, "teamSlot": 2, "playerId": "beta-rb-rb"}`,
		}
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}

		// Keep connection open until the client disconnects
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	feed, err := NewFeed(context.Background(), wsURL, nil)
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}
	defer feed.Close()

	var got []PickEvent
	timeout := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case e := <-feed.Events():
			got = append(got, e)
		case <-timeout:
			t.Fatalf("timed out, received %d events", len(got))
		}
	}

	if got[0].PlayerID != "alpha-qb-qb" || got[0].Overall != 1 {
		t.Errorf("unexpected first event: %+v", got[0])
	}
	if got[1].PlayerID != "beta-rb-rb" || got[1].TeamSlot != 2 {
		t.Errorf("unexpected second event: %+v", got[1])
	}
}

func TestFeed_CloseIsIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	feed, err := NewFeed(context.Background(), wsURL, nil)
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}

	if err := feed.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := feed.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestApply(t *testing.T) {
	board := draftorder.BuildBoard(3, 2, true)

	event := PickEvent{Overall: 4, TeamSlot: 3, PlayerID: "alpha-qb-qb"}
	if err := Apply(board, event); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if board.Slots[3].PlayerID != "alpha-qb-qb" {
		t.Errorf("slot not filled: %+v", board.Slots[3])
	}

	// Re-delivery of the same pick is a no-op.
	if err := Apply(board, event); err != nil {
		t.Errorf("duplicate delivery should be a no-op: %v", err)
	}

	// A different player on the same slot is a conflict.
	err := Apply(board, PickEvent{Overall: 4, PlayerID: "other"})
	if !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("expected ErrSlotOccupied, got %v", err)
	}

	err = Apply(board, PickEvent{Overall: 99, PlayerID: "x"})
	if !errors.Is(err, ErrBadOverall) {
		t.Errorf("expected ErrBadOverall, got %v", err)
	}
}
