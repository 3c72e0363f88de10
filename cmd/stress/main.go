// cmd/stress/main.go
//
// Load-test client: spins up N websocket players in one room and spams chat
// and drawing traffic at the server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

var (
	addr    = flag.String("addr", "ws://localhost:3003/ws", "websocket endpoint")
	clients = flag.Int("clients", 4, "number of simulated players")
	roomID  = flag.String("room", "", "existing room to join (empty = create one)")
	msgs    = flag.Int("messages", 100, "messages per client")
)

func main() {
	flag.Parse()

	room := *roomID
	if room == "" {
		var err error
		room, err = createRoom()
		if err != nil {
			log.Fatalf("create room: %v", err)
		}
		fmt.Println("created room:", room)
	}

	done := make(chan struct{})
	for i := 0; i < *clients; i++ {
		go func(name string) {
			defer func() { done <- struct{}{} }()
			connectAndSpam(room, name)
		}(fmt.Sprintf("player%d", i))
	}
	for i := 0; i < *clients; i++ {
		<-done
	}
}

func dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{Subprotocols: []string{"scrawl"}}
	conn, _, err := dialer.Dial(*addr, nil)
	return conn, err
}

// createRoom opens a throwaway connection, creates a room and reads the
// room-created acknowledgement to learn the code.
func createRoom() (string, error) {
	conn, err := dial()
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if err := send(conn, "create-room", map[string]string{"username": "stress-host"}); err != nil {
		return "", err
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return "", err
		}
		if msg.Type != "room-created" {
			continue
		}
		var data struct {
			RoomID string `json:"roomId"`
		}
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return "", err
		}
		return data.RoomID, nil
	}
	return "", fmt.Errorf("no room-created event within deadline")
}

func connectAndSpam(room, username string) {
	conn, err := dial()
	if err != nil {
		log.Printf("%s: dial error: %v", username, err)
		return
	}
	defer conn.Close()

	// Drain inbound traffic so the server's write queue never backs up.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := send(conn, "join-room", map[string]string{"username": username, "roomId": room}); err != nil {
		log.Printf("%s: join error: %v", username, err)
		return
	}
	fmt.Printf("%s joined %s\n", username, room)

	for i := 0; i < *msgs; i++ {
		var err error
		if rand.Intn(2) == 0 {
			err = send(conn, "send-message", map[string]interface{}{
				"roomId":   room,
				"username": username,
				"message":  fmt.Sprintf("hello %d from %s", i, username),
			})
		} else {
			err = send(conn, "drawing", map[string]interface{}{
				"roomId":   room,
				"tool":     "brush",
				"startX":   rand.Float64() * 800,
				"startY":   rand.Float64() * 600,
				"currentX": rand.Float64() * 800,
				"currentY": rand.Float64() * 600,
				"color":    "#000000",
				"width":    5,
			})
		}
		if err != nil {
			log.Printf("%s: write error: %v", username, err)
			return
		}
		time.Sleep(time.Duration(100+rand.Intn(900)) * time.Millisecond)
	}
	fmt.Printf("%s finished\n", username)
}

func send(conn *websocket.Conn, msgType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return conn.WriteJSON(wsMessage{Type: msgType, Data: payload})
}
