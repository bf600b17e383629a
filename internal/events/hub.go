package events

import (
	"ClinicDashboard/internal/api/conversation"
	"ClinicDashboard/internal/api/schedule"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Snapshot is the combined view state handed to display clients. A published
// Snapshot is never mutated again.
type Snapshot struct {
	Version      uint64                `json:"version"`
	PublishedAt  time.Time             `json:"published_at"`
	Conversation conversation.Snapshot `json:"conversation"`
	Schedule     schedule.Snapshot     `json:"schedule"`
}

// Publisher mirrors encoded snapshots to an external channel.
type Publisher interface {
	PublishSnapshot(ctx context.Context, payload []byte) error
}

// Hub holds the latest snapshot and fans every new one out to subscribers.
// Slow subscribers only ever miss intermediate snapshots, never the newest.
type Hub struct {
	log     *logrus.Logger
	current atomic.Pointer[Snapshot]

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan *Snapshot
}

func NewHub(log *logrus.Logger) *Hub {
	h := &Hub{
		log:  log,
		subs: make(map[uint64]chan *Snapshot),
	}
	h.current.Store(&Snapshot{Schedule: schedule.Snapshot{Loading: true}})
	return h
}

func (h *Hub) Current() *Snapshot {
	return h.current.Load()
}

func (h *Hub) Publish(conv conversation.Snapshot, sched schedule.Snapshot, at time.Time) *Snapshot {
	snap := &Snapshot{
		Version:      h.Current().Version + 1,
		PublishedAt:  at,
		Conversation: conv,
		Schedule:     sched,
	}
	h.current.Store(snap)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		offer(ch, snap)
	}
	return snap
}

// Subscribe returns a channel that immediately holds the current snapshot
// and then receives each newer one. The returned func unsubscribes.
func (h *Hub) Subscribe() (<-chan *Snapshot, func()) {
	ch := make(chan *Snapshot, 1)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[id] = ch
	offer(ch, h.Current())
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Mirror forwards every snapshot to pub until ctx is done. Publish failures
// are logged and the next snapshot is tried as usual.
func (h *Hub) Mirror(ctx context.Context, pub Publisher) {
	ch, cancel := h.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-ch:
			payload, err := json.Marshal(snap)
			if err != nil {
				h.log.WithFields(logrus.Fields{
					"version": snap.Version,
					"error":   err.Error(),
				}).Error("Failed to encode snapshot for mirror")
				continue
			}
			if err := pub.PublishSnapshot(ctx, payload); err != nil {
				h.log.WithFields(logrus.Fields{
					"version": snap.Version,
					"error":   err.Error(),
				}).Warn("Failed to mirror snapshot")
			}
		}
	}
}

func offer(ch chan *Snapshot, snap *Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
