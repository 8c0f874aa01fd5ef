package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tspcolony/internal/model"
)

// Animation frames of a stored result over WebSocket. The server sends one
// "frame" message per step followed by "complete"; clients may send "ping".

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

const (
	defaultFrameInterval = 100 * time.Millisecond
	maxFrameInterval     = 2 * time.Second
)

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type framePayload struct {
	Index       int          `json:"index"`
	Total       int          `json:"total"`
	City        string       `json:"city,omitempty"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// FramesWSHandler streams detail.Steps. The pace is set by ?interval=<ms>.
func (s *Server) FramesWSHandler(w http.ResponseWriter, r *http.Request, detail model.ResultDetail) {
	interval := defaultFrameInterval
	if v := r.URL.Query().Get("interval"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid interval", "interval must be a non-negative number of milliseconds", r.URL.Path)
			return
		}
		interval = min(time.Duration(ms)*time.Millisecond, maxFrameInterval)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	var wmu sync.Mutex
	write := func(v any) error {
		wmu.Lock()
		defer wmu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(v)
	}

	// Read loop: answers pings and notices when the client goes away
	gone := make(chan struct{})
	conn.SetReadLimit(1 << 16)
	go func() {
		defer close(gone)
		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == "ping" {
				_ = write(wsMessage{Type: "pong"})
			}
		}
	}()

	total := len(detail.Steps)
	for i, st := range detail.Steps {
		pl := framePayload{Index: i, Total: total, Coordinates: st}
		if i < len(detail.Route) {
			pl.City = detail.Route[i]
		}
		payload, _ := json.Marshal(pl)
		if err := write(wsMessage{Type: "frame", ID: detail.ID, Payload: payload}); err != nil {
			return
		}
		if interval > 0 && i < total-1 {
			select {
			case <-gone:
				return
			case <-r.Context().Done():
				return
			case <-time.After(interval):
			}
		}
	}
	summary, _ := json.Marshal(map[string]any{"algorithm": detail.Algorithm, "distance": detail.Distance})
	_ = write(wsMessage{Type: "complete", ID: detail.ID, Payload: summary})
	wmu.Lock()
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	wmu.Unlock()
	select {
	case <-gone:
	case <-time.After(time.Second):
	}
}
