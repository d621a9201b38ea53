// Package realtime mendistribusikan perubahan baris database ke client websocket.
package realtime

import (
	"sync"

	"github.com/yeremiapane/sepatu-storefront/metrics"
	"github.com/yeremiapane/sepatu-storefront/utils"
)

// Event types
const (
	EventOrderUpdate      = "order_update"
	EventSubmissionUpdate = "submission_update"
	EventRedirect         = "redirect"
	EventCartUpdate       = "cart_update"
	EventFavoriteUpdate   = "favorite_update"
	EventRowChange        = "row_change"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Change adalah satu baris db_changes beserta snapshot barisnya. Version diambil dari
// id db_changes sehingga selalu naik untuk baris yang sama.
type Change struct {
	Table    string         `json:"table"`
	RecordID string         `json:"record_id"`
	Action   string         `json:"action"`
	Version  uint64         `json:"version"`
	Row      map[string]any `json:"row,omitempty"`
}

// Topic membentuk nama channel, misalnya "orders:42" atau "keranjang:<user_id>".
func Topic(table, key string) string {
	return table + ":" + key
}

const defaultBuffer = 32

// Hub menampung subscriber per topic. Publish tidak pernah menunggu subscriber yang lambat.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	buffer int
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*Subscription]struct{}),
		buffer: defaultBuffer,
	}
}

type Subscription struct {
	topic string
	ch    chan Message
	hub   *Hub
	once  sync.Once
}

// C menerima pesan sampai Close dipanggil.
func (s *Subscription) C() <-chan Message {
	return s.ch
}

func (s *Subscription) Topic() string {
	return s.topic
}

// Close aman dipanggil berkali-kali.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

func (h *Hub) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan Message, h.buffer),
		hub:   h,
	}

	h.mu.Lock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Subscription]struct{})
	}
	h.topics[topic][sub] = struct{}{}
	h.mu.Unlock()

	metrics.RealtimeSubscribers.Inc()
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.topics[sub.topic]
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.topics, sub.topic)
	}
	close(sub.ch)
	metrics.RealtimeSubscribers.Dec()
}

// Publish mengirim msg ke semua subscriber topic dan mengembalikan jumlah yang menerima.
func (h *Hub) Publish(topic string, msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.topics[topic] {
		select {
		case sub.ch <- msg:
			delivered++
		default:
			metrics.RealtimeDropped.Inc()
			utils.ErrorLogger.Warnf("realtime: buffer penuh, pesan %s untuk %s dibuang", msg.Event, topic)
		}
	}
	return delivered
}

// Subscribers dipakai untuk monitoring dan test.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
