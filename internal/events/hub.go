// Package events fans collection change notifications out to the
// websocket clients of the same owner. With Redis configured, changes are
// relayed between server instances over pub/sub so every open tab hears
// about every save. Events only tell clients to re-fetch; they carry no
// data and resolve no conflicts.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TypeCollectionChanged is the only event type.
const TypeCollectionChanged = "collection.changed"

const channelPrefix = "rvplanner:events:"

// Event is what clients receive.
type Event struct {
	Type       string    `json:"type"`
	Collection string    `json:"collection"`
	At         time.Time `json:"at"`
}

// envelope is the Redis wire form. Origin identifies the publishing hub so
// it can skip its own messages.
type envelope struct {
	Origin string `json:"origin"`
	Owner  string `json:"owner"`
	Event  Event  `json:"event"`
}

// Client is one connected websocket.
type Client struct {
	Owner string
	Send  chan []byte
}

// Hub tracks clients per owner.
type Hub struct {
	redis  *redis.Client
	origin string
	log    *slog.Logger

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewHub constructs a Hub. redisClient may be nil for a single instance.
func NewHub(redisClient *redis.Client, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		redis:   redisClient,
		origin:  uuid.NewString(),
		log:     log,
		clients: map[string]map[*Client]struct{}{},
	}
}

// Register adds a client for owner.
func (h *Hub) Register(owner string) *Client {
	c := &Client{Owner: owner, Send: make(chan []byte, 16)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[owner] == nil {
		h.clients[owner] = map[*Client]struct{}{}
	}
	h.clients[owner][c] = struct{}{}
	return c
}

// Unregister removes the client and closes its Send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.Owner]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.Owner)
	}
	close(c.Send)
}

// Clients returns how many clients owner has connected here.
func (h *Hub) Clients(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[owner])
}

// Publish tells owner's clients that collection changed, here and, with
// Redis, on every other instance.
func (h *Hub) Publish(ctx context.Context, owner, collection string) {
	ev := Event{Type: TypeCollectionChanged, Collection: collection, At: time.Now().UTC()}
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.ErrorContext(ctx, "encode event", "error", err)
		return
	}
	h.deliver(owner, payload)

	if h.redis == nil {
		return
	}
	msg, err := json.Marshal(envelope{Origin: h.origin, Owner: owner, Event: ev})
	if err != nil {
		h.log.ErrorContext(ctx, "encode event envelope", "error", err)
		return
	}
	if err := h.redis.Publish(ctx, channelPrefix+owner, msg).Err(); err != nil {
		h.log.WarnContext(ctx, "redis publish failed", "owner", owner, "error", err)
	}
}

// deliver never blocks: a client whose buffer is full misses the event
// and catches up on the next one.
func (h *Hub) deliver(owner string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[owner] {
		select {
		case c.Send <- payload:
		default:
		}
	}
}

// Run relays events published by other instances until ctx is done.
// Without Redis it just waits for ctx.
func (h *Hub) Run(ctx context.Context) error {
	if h.redis == nil {
		<-ctx.Done()
		return nil
	}

	sub := h.redis.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			h.relay(msg)
		}
	}
}

func (h *Hub) relay(msg *redis.Message) {
	var env envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		h.log.Warn("drop malformed event", "channel", msg.Channel, "error", err)
		return
	}
	if env.Origin == h.origin {
		return
	}
	owner := strings.TrimPrefix(msg.Channel, channelPrefix)
	if owner == "" || owner != env.Owner {
		return
	}
	payload, err := json.Marshal(env.Event)
	if err != nil {
		return
	}
	h.deliver(owner, payload)
}
