package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/pulsechat/pulse/internal/chat"
	"github.com/pulsechat/pulse/internal/models"
)

type nopEmitter struct{}

func (nopEmitter) Emit(models.Event) {}

func newTestServer(t *testing.T) (*httptest.Server, *chat.Coordinator) {
	t.Helper()

	coord := chat.New(chat.Options{
		Rooms:       []string{"general", "sports", "tech"},
		DefaultRoom: "general",
		Logger:      zerolog.Nop(),
	})

	h := NewHandler(coord, nil)
	r := chi.NewRouter()
	r.Get("/api/messages", h.GetMessages)
	r.Get("/api/users", h.GetUsers)
	r.Get("/api/stats", h.GetStats)
	r.Get("/health", h.Health)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, coord
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestGetMessages_Paging(t *testing.T) {
	srv, coord := newTestServer(t)

	coord.Connect("a", nopEmitter{})
	coord.Join("a", "alice")
	coord.JoinRoom("a", "general")
	for i := 0; i < 25; i++ {
		coord.Send("a", models.SendMessagePayload{Message: fmt.Sprintf("msg-%02d", i), Room: "general"})
	}

	tests := []struct {
		name      string
		query     string
		wantLen   int
		wantFirst string
	}{
		{name: "page 0 returns the newest 20", query: "?room=general&page=0", wantLen: 20, wantFirst: "msg-05"},
		{name: "page 1 returns the remainder", query: "?room=general&page=1", wantLen: 5, wantFirst: "msg-00"},
		{name: "page beyond history is empty", query: "?room=general&page=2", wantLen: 0},
		{name: "room defaults to the configured default", query: "?page=0", wantLen: 20, wantFirst: "msg-05"},
		{name: "unknown room is empty", query: "?room=nowhere", wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msgs []models.Message
			if status := getJSON(t, srv.URL+"/api/messages"+tt.query, &msgs); status != http.StatusOK {
				t.Fatalf("status = %d, want 200", status)
			}
			if len(msgs) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(msgs), tt.wantLen)
			}
			if tt.wantLen > 0 && msgs[0].Body != tt.wantFirst {
				t.Errorf("first body = %q, want %q", msgs[0].Body, tt.wantFirst)
			}
		})
	}
}

func TestGetMessages_InvalidPage(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, query := range []string{"?page=abc", "?page=-1"} {
		resp, err := http.Get(srv.URL + "/api/messages" + query)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", query, resp.StatusCode)
		}
	}
}

func TestGetUsers(t *testing.T) {
	srv, coord := newTestServer(t)

	coord.Connect("a", nopEmitter{})
	coord.Join("a", "alice")
	coord.Connect("b", nopEmitter{})
	coord.Join("b", "bob")

	var users []models.Presence
	if status := getJSON(t, srv.URL+"/api/users", &users); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(users) != 2 {
		t.Fatalf("len = %d, want 2", len(users))
	}
	if users[0].Username != "alice" || users[1].Username != "bob" {
		t.Errorf("users = %+v, want alice then bob", users)
	}
}

func TestGetStats(t *testing.T) {
	srv, coord := newTestServer(t)

	coord.Connect("a", nopEmitter{})
	coord.Join("a", "alice")
	coord.JoinRoom("a", "general")
	coord.Send("a", models.SendMessagePayload{Message: "hi", Room: "general"})

	var stats chat.Stats
	if status := getJSON(t, srv.URL+"/api/stats", &stats); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if stats.Connections != 1 {
		t.Errorf("connections = %d, want 1", stats.Connections)
	}
	for _, room := range stats.Rooms {
		if room.Name == "general" {
			if room.Members != 1 || room.Messages != 1 {
				t.Errorf("general stats = %+v, want 1 member and 1 message", room)
			}
		}
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	var health HealthResponse
	if status := getJSON(t, srv.URL+"/health", &health); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
}
