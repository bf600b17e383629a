package entity

import jsoniter "github.com/json-iterator/go"

type EventType string

const (
	EventConnectionStatus   EventType = "connection_status"
	EventCallStarted        EventType = "call_started"
	EventCallEnded          EventType = "call_ended"
	EventTranscriptUser     EventType = "transcript_user"
	EventTranscriptAgent    EventType = "transcript_agent"
	EventAppointmentCreated EventType = "appointment_created"
	EventAppointmentUpdated EventType = "appointment_updated"
	EventAppointmentDeleted EventType = "appointment_deleted"
	EventError              EventType = "error"
	EventPong               EventType = "pong"
)

// DashboardEvent is the push channel envelope. Data stays raw until the
// decoder has inspected Type.
type DashboardEvent struct {
	Type      EventType           `json:"type"`
	Timestamp string              `json:"timestamp"`
	Data      jsoniter.RawMessage `json:"data"`
}

type CallStartedData struct {
	CallID       string `json:"call_id"`
	CallerNumber string `json:"caller_number"`
}

type CallEndedData struct {
	CallID          string `json:"call_id"`
	DurationSeconds int    `json:"duration_seconds"`
}

type TranscriptData struct {
	CallID  string `json:"call_id"`
	Text    string `json:"text"`
	IsFinal bool   `json:"is_final"`
}

type AppointmentEventData struct {
	Appointment *Appointment `json:"appointment" validate:"required"`
}

type AppointmentDeletedData struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
}

type ConnectionStatusData struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Command is the only outbound frame shape on the push channel.
type Command struct {
	Command string `json:"command"`
}

var PingCommand = Command{Command: "ping"}
