package stream

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AllCourses is the subscription key that receives events for every course.
const AllCourses = "*"

const (
	channelPrefix  = "courses:"
	channelSuffix  = ":events"
	channelPattern = channelPrefix + "*" + channelSuffix
)

type Event struct {
	Type     string    `json:"type"`
	CourseID string    `json:"course_id"`
	Title    string    `json:"title,omitempty"`
	At       time.Time `json:"at"`
}

// Hub fans course events out to websocket clients. With a redis client the
// events travel through redis pub/sub so every replica sees them.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
	pubsub  *redis.PubSub
	done    chan struct{}
}

type Client struct {
	CourseID string
	Send     chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		clients: map[string]map[*Client]struct{}{},
		done:    make(chan struct{}),
	}
	if redisClient == nil {
		close(h.done)
		return h
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	pubsub := redisClient.PSubscribe(ctx, channelPattern)
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("redis subscribe failed, course events stay local: %v", err)
		_ = pubsub.Close()
		close(h.done)
		return h
	}

	h.redis = redisClient
	h.pubsub = pubsub
	go h.relay()
	return h
}

func (h *Hub) Register(courseID string) *Client {
	client := &Client{
		CourseID: courseID,
		Send:     make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[courseID] == nil {
		h.clients[courseID] = map[*Client]struct{}{}
	}
	h.clients[courseID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if courseClients, ok := h.clients[client.CourseID]; ok {
		if _, registered := courseClients[client]; !registered {
			return
		}
		delete(courseClients, client)
		if len(courseClients) == 0 {
			delete(h.clients, client.CourseID)
		}
		close(client.Send)
	}
}

// Publish delivers ev to subscribers of its course and of AllCourses.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("course event encode error: %v", err)
		return
	}
	h.Broadcast(ev.CourseID, payload)
}

func (h *Hub) Broadcast(courseID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(courseID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(courseID, payload)
}

// Close stops the redis relay.
func (h *Hub) Close() {
	if h.pubsub != nil {
		_ = h.pubsub.Close()
	}
	<-h.done
}

func (h *Hub) deliver(courseID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	keys := []string{courseID}
	if courseID != AllCourses {
		keys = append(keys, AllCourses)
	}
	for _, key := range keys {
		for client := range h.clients[key] {
			select {
			case client.Send <- payload:
			default:
			}
		}
	}
}

func (h *Hub) relay() {
	defer close(h.done)

	for msg := range h.pubsub.Channel() {
		courseID, ok := courseIDFromChannel(msg.Channel)
		if !ok {
			continue
		}
		h.deliver(courseID, []byte(msg.Payload))
	}
}

func redisChannel(courseID string) string {
	return channelPrefix + courseID + channelSuffix
}

func courseIDFromChannel(ch string) (string, bool) {
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return "", false
	}
	id := ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
	return id, id != ""
}
