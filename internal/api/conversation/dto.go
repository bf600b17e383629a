package conversation

import (
	"ClinicDashboard/internal/entity"
	"time"
)

type CallState struct {
	IsActive     bool       `json:"is_active"`
	CallID       string     `json:"call_id,omitempty"`
	CallerNumber string     `json:"caller_number,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
}

// Snapshot is the read-only view of the conversation published after every
// change. Turns is a copy and may be shared freely.
type Snapshot struct {
	Connected bool                    `json:"connected"`
	Call      CallState               `json:"call"`
	Turns     []entity.TranscriptTurn `json:"turns"`
}
