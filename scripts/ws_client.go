//go:build ignore

// Demo client: runs an ACO solve and prints the animation frames streamed
// over WebSocket. Usage: go run scripts/ws_client.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	body := strings.NewReader(`{"aco":{"ants":15,"iterations":100}}`)
	req, _ := http.NewRequest(http.MethodPost, base+"/v1/tsp/aco", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("solve: %s", resp.Status)
	}
	var solved struct {
		ID       string   `json:"id"`
		Route    []string `json:"route"`
		Distance float64  `json:"distance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&solved); err != nil {
		log.Fatal(err)
	}
	log.Printf("Result %s: %s (%.1f)", solved.ID, strings.Join(solved.Route, " -> "), solved.Distance)

	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/results/" + solved.ID + "/frames/ws", RawQuery: "interval=250"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()
	_ = c.SetReadDeadline(time.Now().Add(30 * time.Second))

	for {
		var m wsMessage
		if err := c.ReadJSON(&m); err != nil {
			log.Printf("read: %v", err)
			return
		}
		log.Printf("WS <- %s: %s", m.Type, string(m.Payload))
		if m.Type == "complete" {
			return
		}
	}
}
