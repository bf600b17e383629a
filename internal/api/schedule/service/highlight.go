package scheduleService

import (
	"time"

	"github.com/sirupsen/logrus"
)

func (s *scheduleService) Expirations() <-chan Expiration {
	return s.expired
}

// IsHighlighted is true only while the window exists and its expiry instant
// has not been reached, even if the expiry timer has not been processed yet.
func (s *scheduleService) IsHighlighted(id string) bool {
	w, ok := s.windows[id]
	if !ok {
		return false
	}
	return s.clock.Now().Before(w.expiresAt)
}

// Expire removes the window named by e. Expirations for windows that were
// already closed or replaced are ignored.
func (s *scheduleService) Expire(e Expiration) bool {
	w, ok := s.windows[e.ID]
	if !ok || w.seq != e.Seq {
		return false
	}
	delete(s.windows, e.ID)
	s.metrics.HighlightsOpen.Set(float64(len(s.windows)))

	s.log.WithFields(logrus.Fields{
		"appointment_id": e.ID,
	}).Debug("Highlight window expired")
	return true
}

// Close cancels every pending highlight timer.
func (s *scheduleService) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.closing)
	for id := range s.windows {
		s.closeWindow(id)
	}
}

func (s *scheduleService) openWindow(id string) {
	if s.closed {
		return
	}
	if _, ok := s.windows[id]; ok {
		return
	}

	s.seq++
	e := Expiration{ID: id, Seq: s.seq}
	w := &window{
		seq:       e.Seq,
		expiresAt: s.clock.Now().Add(s.config.HighlightDuration),
	}
	w.timer = s.clock.AfterFunc(s.config.HighlightDuration, func() {
		select {
		case s.expired <- e:
		case <-s.closing:
		}
	})
	s.windows[id] = w
	s.metrics.HighlightsOpen.Set(float64(len(s.windows)))

	s.log.WithFields(logrus.Fields{
		"appointment_id": id,
		"expires_at":     w.expiresAt.Format(time.RFC3339Nano),
	}).Debug("Highlight window opened")
}

func (s *scheduleService) closeWindow(id string) {
	w, ok := s.windows[id]
	if !ok {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	delete(s.windows, id)
	s.metrics.HighlightsOpen.Set(float64(len(s.windows)))
}

func (s *scheduleService) activeHighlights() map[string]time.Time {
	now := s.clock.Now()
	out := make(map[string]time.Time, len(s.windows))
	for id, w := range s.windows {
		if now.Before(w.expiresAt) {
			out[id] = w.expiresAt
		}
	}
	return out
}
