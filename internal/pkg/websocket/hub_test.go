package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/tuitiondesk/internal/app/models"
)

func startFeed(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", NewHandler(hub, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastsToSubscribers(t *testing.T) {
	hub, url := startFeed(t)

	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	clock := "10:00"
	hub.PublishAnnouncement("announcement.created", &models.Announcement{ID: 9, Title: "Holiday", Date: "2024-08-15", Time: &clock})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if ev.Type != "announcement.created" || ev.Announcement == nil || ev.Announcement.ID != 9 {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	hub, url := startFeed(t)

	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHub_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.PublishAnnouncement("announcement.deleted", &models.Announcement{ID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with no running hub")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestHub_LogsSubscriberAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var out syncBuffer
	lgr := zerolog.New(&out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(lgr)
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", NewHandler(hub, lgr).HandleConnection)
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return strings.Contains(out.String(), "Client registered") })

	var entry map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if strings.Contains(line, "Client registered") {
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatal(err)
			}
		}
	}
	if addr, _ := entry["addr"].(string); !strings.HasPrefix(addr, "127.0.0.1:") {
		t.Fatalf("addr = %v", entry["addr"])
	}
	if _, ok := entry["userID"]; ok {
		t.Fatalf("feed subscribers are anonymous, got %v", entry)
	}
}
