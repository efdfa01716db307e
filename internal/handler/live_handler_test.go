package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/IBA-HOK/user-attendance-record/internal/model"
	"github.com/IBA-HOK/user-attendance-record/internal/service"
	ws "github.com/IBA-HOK/user-attendance-record/internal/websocket"
)

// emptyRosterStore satisfies the roster reader interfaces with no data,
// so every push resolves to the out-of-hours view.
type emptyRosterStore struct{}

func (emptyRosterStore) ListByWeekday(context.Context, int) ([]model.ClassSlot, error) {
	return nil, nil
}
func (emptyRosterStore) DetailsByDate(context.Context, string) ([]model.ScheduleDetail, error) {
	return nil, nil
}
func (emptyRosterStore) ListWithDefaultSlot(context.Context) ([]model.StudentDefault, error) {
	return nil, nil
}
func (emptyRosterStore) PresentUserIDs(context.Context, string, []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func newLiveTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := emptyRosterStore{}
	rosterService := service.NewRosterService(store, store, store, store, zerolog.Nop())

	// Unreachable Redis: Subscribe still returns a pub/sub whose channel
	// simply stays silent, which is all the stream loop needs here.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	h := NewLiveHandler(rdb, rosterService, zerolog.Nop(), nil)

	r := gin.New()
	r.GET("/ws/live", h.Stream)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { rdb.Close() })
	return srv
}

func dialLive(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStreamPushesViewOnConnect(t *testing.T) {
	srv := newLiveTestServer(t)
	conn := dialLive(t, srv)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev ws.RosterEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read initial push: %v", err)
	}
	if ev.Event != ws.EventRoster {
		t.Fatalf("event = %q, want %q", ev.Event, ws.EventRoster)
	}
	if ev.View == nil || ev.View.Message == "" {
		t.Errorf("expected out-of-hours view, got %+v", ev.View)
	}
}

// A client interleaving pings with refresh requests must get exactly one
// reply per message, with the connection surviving the whole burst: the
// pong and roster writes share one connection and may never overlap.
func TestStreamSerializesConcurrentReplies(t *testing.T) {
	srv := newLiveTestServer(t)
	conn := dialLive(t, srv)

	const burst = 200

	errc := make(chan error, 1)
	go func() {
		for i := 0; i < burst; i++ {
			action := ws.ActionPing
			if i%2 == 1 {
				action = ws.ActionRefresh
			}
			if err := conn.WriteJSON(ws.RequestEnvelope{Action: action}); err != nil {
				errc <- err
				return
			}
		}
		errc <- nil
	}()

	// Initial push plus one reply per burst message.
	pongs, rosters := 0, 0
	for i := 0; i < burst+1; i++ {
		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read reply %d: %v", i, err)
		}
		var ev struct {
			Event ws.Event `json:"event"`
		}
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decode reply %d: %v", i, err)
		}
		switch ev.Event {
		case ws.EventPong:
			pongs++
		case ws.EventRoster:
			rosters++
		default:
			t.Fatalf("unexpected event %q in reply %d", ev.Event, i)
		}
	}

	if err := <-errc; err != nil {
		t.Fatalf("write: %v", err)
	}
	if pongs != burst/2 {
		t.Errorf("pongs = %d, want %d", pongs, burst/2)
	}
	// Refresh replies plus the initial push.
	if rosters != burst/2+1 {
		t.Errorf("roster events = %d, want %d", rosters, burst/2+1)
	}
}

func TestStreamRejectsUnknownAction(t *testing.T) {
	srv := newLiveTestServer(t)
	conn := dialLive(t, srv)

	// Drain the initial push first.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("read initial push: %v", err)
	}

	if err := conn.WriteJSON(ws.RequestEnvelope{Action: "reboot"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var ev ws.ErrorEvent
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read error event: %v", err)
	}
	if ev.Event != ws.EventError {
		t.Errorf("event = %q, want %q", ev.Event, ws.EventError)
	}
}
