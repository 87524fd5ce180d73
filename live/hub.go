package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Update is the event pushed to every viewer subscribed to a place.
type Update struct {
	PlaceID         string    `json:"placeId"`
	CurrentWaitTime int       `json:"currentWaitTime"`
	CrowdLevel      string    `json:"crowdLevel,omitempty"`
	ConfidenceLevel string    `json:"confidenceLevel,omitempty"`
	LastUpdated     time.Time `json:"lastUpdated"`
	Type            string    `json:"type,omitempty"`
}

type Client struct {
	Conn *websocket.Conn
	Send chan []byte

	// rooms this client has joined; touched only by the hub loop
	rooms map[string]bool
}

type roomMsg struct {
	client *Client
	room   string
}

type broadcastMsg struct {
	Room string
	Data []byte
}

// Hub fans updates out to viewers, keyed by place id. A viewer holds one
// connection and may join any number of places on it. Subscriptions live
// in memory only; a reconnecting viewer must join its places again.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	join       chan roomMsg
	leave      chan roomMsg
	broadcast  chan broadcastMsg
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan roomMsg),
		leave:      make(chan roomMsg),
		broadcast:  make(chan broadcastMsg, 64),
		done:       make(chan struct{}),
	}
}

// Run owns all room state. Per-viewer ordering holds because this loop
// serializes every broadcast and each Send channel is FIFO.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			c.rooms = make(map[string]bool)
			h.clients[c] = true

		case c := <-h.unregister:
			h.dropClient(c)

		case m := <-h.join:
			if !h.clients[m.client] {
				break
			}
			if h.rooms[m.room] == nil {
				h.rooms[m.room] = make(map[*Client]bool)
			}
			h.rooms[m.room][m.client] = true
			m.client.rooms[m.room] = true

		case m := <-h.leave:
			if conns := h.rooms[m.room]; conns != nil {
				delete(conns, m.client)
				if len(conns) == 0 {
					delete(h.rooms, m.room)
				}
			}
			delete(m.client.rooms, m.room)

		case m := <-h.broadcast:
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					// slow client, drop it
					h.dropClient(c)
				}
			}

		case <-h.done:
			for c := range h.clients {
				close(c.Send)
				delete(h.clients, c)
			}
			h.rooms = make(map[string]map[*Client]bool)
			return
		}
	}
}

// dropClient removes the client from every room and closes its Send
// channel. A client can reach here twice (slow-drop from the broadcast
// loop, then the disconnect teardown); the clients map guarantees the
// close happens exactly once.
func (h *Hub) dropClient(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		if conns := h.rooms[room]; conns != nil {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	close(c.Send)
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Publish delivers an update to every viewer currently joined to the
// place. Delivery is best-effort; nothing is retained for viewers that
// join later.
func (h *Hub) Publish(u Update) {
	if h == nil {
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		log.Printf("live: marshal update: %v", err)
		return
	}
	select {
	case h.broadcast <- broadcastMsg{Room: u.PlaceID, Data: data}:
	case <-h.done:
	}
}
