package entity

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleCaller    Role = "caller"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Finality uint8

const (
	Provisional Finality = 0
	Final       Finality = 1
)

var FinalityMap = map[Finality]string{
	Provisional: "provisional",
	Final:       "final",
}

func (f Finality) String() string {
	return FinalityMap[f]
}

func (f Finality) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Finality) UnmarshalText(text []byte) error {
	for k, v := range FinalityMap {
		if v == string(text) {
			*f = k
			return nil
		}
	}
	return fmt.Errorf("unknown finality %q", text)
}

type TranscriptTurn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Finality  Finality  `json:"finality"`
}

func (t TranscriptTurn) IsFinal() bool {
	return t.Finality == Final
}

type CallSession struct {
	CallID       string    `json:"call_id"`
	CallerNumber string    `json:"caller_number"`
	StartedAt    time.Time `json:"started_at"`
}
