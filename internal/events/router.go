package events

import (
	conversationService "ClinicDashboard/internal/api/conversation/service"
	scheduleService "ClinicDashboard/internal/api/schedule/service"
	"ClinicDashboard/pkg/clock"
	"ClinicDashboard/pkg/metrics"
	"context"
	"errors"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Source delivers raw frames and connectivity changes in transport order.
type Source interface {
	Frames() <-chan []byte
	Connectivity() <-chan bool
}

// Router is the single consumer of the push channel. Run owns the reducers:
// every mutation, whether from a frame, a connectivity change, a highlight
// expiry or a task passed to Do, happens on its goroutine one at a time.
type Router struct {
	log          *logrus.Logger
	source       Source
	decoder      *Decoder
	conversation conversationService.IConversationService
	schedule     scheduleService.IScheduleService
	hub          *Hub
	metrics      *metrics.Metrics
	clock        clock.Clock

	tasks   chan task
	started atomic.Bool
	stopped chan struct{}
}

type task struct {
	fn   func(conversationService.IConversationService, scheduleService.IScheduleService)
	done chan struct{}
}

type RouterOptions struct {
	Source       Source
	Decoder      *Decoder
	Conversation conversationService.IConversationService
	Schedule     scheduleService.IScheduleService
	Hub          *Hub
	Metrics      *metrics.Metrics
	Clock        clock.Clock
}

func NewRouter(log *logrus.Logger, opts RouterOptions) *Router {
	if opts.Decoder == nil {
		opts.Decoder = NewDecoder(nil)
	}
	if opts.Hub == nil {
		opts.Hub = NewHub(log)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Router{
		log:          log,
		source:       opts.Source,
		decoder:      opts.Decoder,
		conversation: opts.Conversation,
		schedule:     opts.Schedule,
		hub:          opts.Hub,
		metrics:      opts.Metrics,
		clock:        opts.Clock,
		tasks:        make(chan task),
		stopped:      make(chan struct{}),
	}
}

func (r *Router) Hub() *Hub {
	return r.hub
}

// Run consumes stimuli until ctx is cancelled. A router runs at most once;
// later calls return ErrRouterRunning.
func (r *Router) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return ErrRouterRunning
	}
	defer close(r.stopped)

	frames := r.source.Frames()
	connectivity := r.source.Connectivity()
	expirations := r.schedule.Expirations()

	r.publish()
	r.log.Info("Event router started")

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Event router stopped")
			return ctx.Err()

		case frame, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			if r.HandleFrame(frame) {
				r.publish()
			}

		case up, ok := <-connectivity:
			if !ok {
				connectivity = nil
				continue
			}
			r.conversation.SetConnected(up)
			r.publish()

		case e := <-expirations:
			if r.schedule.Expire(e) {
				r.publish()
			}

		case t := <-r.tasks:
			t.fn(r.conversation, r.schedule)
			r.publish()
			close(t.done)
		}
	}
}

// Do runs fn on the router goroutine and waits for it. The state fn leaves
// behind is published afterwards.
func (r *Router) Do(ctx context.Context, fn func(conversationService.IConversationService, scheduleService.IScheduleService)) error {
	t := task{fn: fn, done: make(chan struct{})}

	select {
	case r.tasks <- t:
	case <-r.stopped:
		return ErrRouterStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleFrame decodes and dispatches one frame, reporting whether any state
// changed. Bad frames are logged and dropped.
func (r *Router) HandleFrame(frame []byte) bool {
	ev, err := r.decoder.Decode(frame)
	if err != nil {
		r.metrics.FramesMalformedTotal.Inc()
		fields := logrus.Fields{
			"error": err.Error(),
			"size":  len(frame),
		}
		if errors.Is(err, ErrInvalidPayload) {
			r.log.WithFields(fields).Warn("Dropping frame with invalid payload")
		} else {
			r.log.WithFields(fields).Warn("Dropping malformed frame")
		}
		return false
	}
	return r.Dispatch(ev)
}

// Dispatch applies ev to the reducer that owns it.
func (r *Router) Dispatch(ev Event) bool {
	if _, unknown := ev.(Unknown); unknown {
		r.metrics.UnknownEventsTotal.Inc()
		r.log.WithFields(logrus.Fields{
			"type": string(ev.Type()),
		}).Warn("Ignoring unknown event type")
		return false
	}
	r.metrics.EventsTotal.WithLabelValues(string(ev.Type())).Inc()

	switch e := ev.(type) {
	case CallStarted:
		r.conversation.StartSession(e.CallID, e.CallerNumber)
		return true

	case CallEnded:
		if err := r.conversation.CheckCall(e.CallID); err != nil {
			r.logStale(ev, e.CallID, err)
			return false
		}
		r.conversation.EndSession()
		return true

	case TranscriptUser:
		if err := r.conversation.CheckCall(e.CallID); err != nil {
			r.logStale(ev, e.CallID, err)
			return false
		}
		r.conversation.MergeCallerTurn(e.Text, e.IsFinal)
		return true

	case TranscriptAgent:
		if err := r.conversation.CheckCall(e.CallID); err != nil {
			r.logStale(ev, e.CallID, err)
			return false
		}
		if e.IsFinal {
			r.conversation.MergeAssistantFinal(e.Text)
		} else {
			r.conversation.MergeAssistantPartial(e.Text)
		}
		return true

	case AppointmentCreated:
		r.schedule.Insert(e.Appointment)
		r.log.WithFields(logrus.Fields{
			"appointment_id": e.Appointment.ID,
			"doctor_id":      e.Appointment.DoctorID,
			"time":           e.Appointment.Time,
		}).Info("Appointment created")
		return true

	case AppointmentUpdated:
		return r.schedule.Replace(e.Appointment)

	case AppointmentDeleted:
		return r.schedule.Remove(e.AppointmentID)

	case ConnectionStatus:
		r.log.WithFields(logrus.Fields{
			"status":  e.Status,
			"message": e.Message,
		}).Info("Push channel status")

	case ServerError:
		r.log.WithFields(logrus.Fields{
			"code":    e.Code,
			"message": e.Message,
		}).Error("Push channel reported an error")

	case Pong:
		r.log.Debug("Heartbeat acknowledged")
	}
	return false
}

func (r *Router) logStale(ev Event, callID string, err error) {
	active, _ := r.conversation.Session()
	r.log.WithFields(logrus.Fields{
		"type":           string(ev.Type()),
		"call_id":        callID,
		"active_call_id": active.CallID,
		"error":          err.Error(),
	}).Warn("Dropping event for inactive call")
}

func (r *Router) publish() {
	r.hub.Publish(r.conversation.Snapshot(), r.schedule.Snapshot(), r.clock.Now())
}
