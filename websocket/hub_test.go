package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification dispatches come from arbitrary request goroutines, so
// several of them can target the same connection at once. Gorilla permits
// one concurrent writer per connection; hammer SendToUser in parallel and
// check every message still arrives.
func TestSendToUserConcurrentWrites(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	userID := primitive.NewObjectID()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.register <- &Client{UserID: userID, Conn: conn}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		registered := len(hub.clients[userID]) > 0
		hub.mu.RUnlock()
		if registered {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	const writers = 8
	const perWriter = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				hub.SendToUser(userID, Notification{Type: "booking", Message: "update"})
			}
		}()
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for received := 0; received < writers*perWriter; received++ {
		var n Notification
		if err := conn.ReadJSON(&n); err != nil {
			t.Fatalf("read after %d messages: %v", received, err)
		}
	}
	wg.Wait()
}

func TestSendToUserNotConnected(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	if err := hub.SendToUser(primitive.NewObjectID(), Notification{Type: "system"}); err == nil {
		t.Error("expected an error for a user with no open connections")
	}
}
