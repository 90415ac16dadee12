package gateway

import (
	"sync"
	"time"

	"github.com/sboli/rcstrap/internal/model"
	"go.uber.org/zap"
)

// DefaultWindow bounds how long new-message and status events may be
// coalesced before fan-out. Consumers see at most this much added latency.
const DefaultWindow = 100 * time.Millisecond

const subscriberBuffer = 64

type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

type StatusEvent struct {
	MessageID string              `json:"messageId"`
	Phone     string              `json:"phone"`
	Status    model.MessageStatus `json:"status"`
}

type RevokedEvent struct {
	MessageID string `json:"messageId"`
	Phone     string `json:"phone"`
}

type AgentEvent struct {
	Phone     string `json:"phone"`
	EventType string `json:"eventType"`
	MessageID string `json:"messageId,omitempty"`
	EventID   string `json:"eventId,omitempty"`
}

type Subscriber struct {
	C chan Event
}

// Gateway fans state-change notifications out to connected real-time
// subscribers. High-frequency streams (new messages, status changes) are
// buffered for one window and coalesced; low-frequency control events are
// emitted immediately. Nothing is ever stored for disconnected observers:
// a window that closes with zero subscribers discards its buffer.
type Gateway struct {
	logger *zap.Logger
	window time.Duration

	mu            sync.Mutex
	subscribers   map[*Subscriber]struct{}
	pendingNew    []*model.Message
	pendingStatus []StatusEvent
	flushTimer    *time.Timer
}

func New(logger *zap.Logger, window time.Duration) *Gateway {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Gateway{
		logger:      logger,
		window:      window,
		subscribers: make(map[*Subscriber]struct{}),
	}
}

func (g *Gateway) Subscribe() *Subscriber {
	s := &Subscriber{C: make(chan Event, subscriberBuffer)}

	g.mu.Lock()
	g.subscribers[s] = struct{}{}
	count := len(g.subscribers)
	g.mu.Unlock()

	g.logger.Debug("Subscriber connected", zap.Int("subscribers", count))
	return s
}

func (g *Gateway) Unsubscribe(s *Subscriber) {
	g.mu.Lock()
	_, present := g.subscribers[s]
	delete(g.subscribers, s)
	count := len(g.subscribers)
	g.mu.Unlock()

	if present {
		close(s.C)
		g.logger.Debug("Subscriber disconnected", zap.Int("subscribers", count))
	}
}

func (g *Gateway) SubscriberCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subscribers)
}

// EmitMessageNew buffers a newly created message. At window close a single
// buffered message goes out as message:new; two or more coalesce into one
// message:batch event.
func (g *Gateway) EmitMessageNew(message *model.Message) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pendingNew = append(g.pendingNew, message)
	g.armFlushLocked()
}

// EmitMessageStatus buffers a status change. Status events share the window
// but are always flushed individually to keep per-message ordering legible.
func (g *Gateway) EmitMessageStatus(messageID, phone string, status model.MessageStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pendingStatus = append(g.pendingStatus, StatusEvent{
		MessageID: messageID,
		Phone:     phone,
		Status:    status,
	})
	g.armFlushLocked()
}

func (g *Gateway) EmitMessageRevoked(messageID, phone string) {
	g.emitNow(Event{Name: "message:revoked", Data: RevokedEvent{MessageID: messageID, Phone: phone}})
}

func (g *Gateway) EmitAgentEvent(event AgentEvent) {
	g.emitNow(Event{Name: "agent:event", Data: event})
}

func (g *Gateway) EmitConfigChanged(config any) {
	g.emitNow(Event{Name: "config:changed", Data: config})
}

// emitNow delivers a low-frequency event immediately. The subscriber-count
// probe short-circuits the work entirely when nobody is connected.
func (g *Gateway) emitNow(event Event) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.subscribers) == 0 {
		return
	}
	g.broadcastLocked(event)
}

func (g *Gateway) armFlushLocked() {
	if g.flushTimer != nil {
		return
	}
	g.flushTimer = time.AfterFunc(g.window, g.flush)
}

func (g *Gateway) flush() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.flushTimer = nil
	pendingNew := g.pendingNew
	pendingStatus := g.pendingStatus
	g.pendingNew = nil
	g.pendingStatus = nil

	// No history for disconnected observers.
	if len(g.subscribers) == 0 {
		return
	}

	switch {
	case len(pendingNew) == 1:
		g.broadcastLocked(Event{Name: "message:new", Data: pendingNew[0]})
	case len(pendingNew) > 1:
		g.broadcastLocked(Event{Name: "message:batch", Data: pendingNew})
	}

	for _, status := range pendingStatus {
		g.broadcastLocked(Event{Name: "message:status", Data: status})
	}
}

// broadcastLocked delivers without blocking: a subscriber that cannot keep
// up loses events rather than stalling the bus.
func (g *Gateway) broadcastLocked(event Event) {
	for s := range g.subscribers {
		select {
		case s.C <- event:
		default:
			g.logger.Warn("Dropping event for slow subscriber", zap.String("event", event.Name))
		}
	}
}
