package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Message is one group-chat message as relayed to every participant. Seq is
// assigned by the hub; clients can rely on it increasing by one per message.
type Message struct {
	Seq    int64     `json:"seq"`
	Sender string    `json:"sender"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
}

// Hub relays group-chat messages to every connected client. All fan-out goes
// through the single Run loop, so every client observes the same message
// order regardless of which connection a message arrived on.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	inbound    chan Message
	seq        int64
	logger     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan Message, 64),
		logger:     logger,
	}
}

// Run owns the client set and the sequence counter. It returns when ctx is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, c := range h.clients {
				close(c.send)
			}
			return
		case client := <-h.register:
			h.clients[client.id] = client
			h.logger.Debug().Str("client", client.id).Msg("chat client registered")
		case client := <-h.unregister:
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
		case msg := <-h.inbound:
			h.seq++
			msg.Seq = h.seq
			raw, err := json.Marshal(msg)
			if err != nil {
				h.logger.Error().Err(err).Msg("marshal chat message")
				continue
			}
			for id, c := range h.clients {
				select {
				case c.send <- raw:
				default:
					// Slow consumer: drop the connection rather than
					// reorder or block everyone else.
					delete(h.clients, id)
					close(c.send)
				}
			}
		}
	}
}

// Publish enqueues a message for ordered fan-out.
func (h *Hub) Publish(msg Message) {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	h.inbound <- msg
}
