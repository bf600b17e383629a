package conversationService

import (
	"ClinicDashboard/internal/api/conversation"
	"ClinicDashboard/internal/entity"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

const (
	callStartedText = "New call connected"
	callEndedFormat = "Call ended (%d seconds)"
)

// StartSession replaces any current call and discards its transcript before
// announcing the new one.
func (s *conversationService) StartSession(callID, callerNumber string) {
	now := s.clock.Now()

	if s.session != nil {
		s.log.WithFields(logrus.Fields{
			"previous_call_id": s.session.CallID,
			"call_id":          callID,
		}).Debug("Call started while another was active, replacing it")
	}

	s.session = &entity.CallSession{
		CallID:       callID,
		CallerNumber: callerNumber,
		StartedAt:    now,
	}
	s.turns = nil
	s.appendTurn(entity.RoleSystem, callStartedText, entity.Final)

	s.log.WithFields(logrus.Fields{
		"call_id":       callID,
		"caller_number": callerNumber,
	}).Info("Call session started")
}

func (s *conversationService) EndSession() {
	if s.session == nil {
		s.log.Debug("Call ended with no active session, ignoring")
		return
	}

	elapsed := s.clock.Now().Sub(s.session.StartedAt).Seconds()
	seconds := int(math.Round(elapsed))
	if seconds < 0 {
		seconds = 0
	}
	s.appendTurn(entity.RoleSystem, fmt.Sprintf(callEndedFormat, seconds), entity.Final)

	s.log.WithFields(logrus.Fields{
		"call_id":          s.session.CallID,
		"duration_seconds": seconds,
	}).Info("Call session ended")

	s.session = nil
}

// CheckCall rejects transcript updates tagged with a call other than the
// active one. Untagged updates, or updates while no call is active, pass.
func (s *conversationService) CheckCall(callID string) error {
	if s.session == nil || callID == "" || s.session.CallID == "" {
		return nil
	}
	if callID != s.session.CallID {
		return conversation.ErrStaleTranscript
	}
	return nil
}

// MergeCallerTurn supersedes a trailing provisional caller turn in place, or
// starts a new caller turn. Speech recognition re-sends the full corrected
// hypothesis, so text is replaced rather than appended.
func (s *conversationService) MergeCallerTurn(text string, isFinal bool) {
	finality := entity.Provisional
	if isFinal {
		finality = entity.Final
	}

	if n := len(s.turns); n > 0 {
		last := &s.turns[n-1]
		if last.Role == entity.RoleCaller && !last.IsFinal() {
			last.Text = text
			last.Finality = finality
			return
		}
	}

	s.appendTurn(entity.RoleCaller, text, finality)
}

// MergeAssistantFinal appends a complete assistant utterance as a new turn.
func (s *conversationService) MergeAssistantFinal(text string) {
	s.appendTurn(entity.RoleAssistant, text, entity.Final)
}

// MergeAssistantPartial grows the latest assistant turn while it is still
// provisional; generation streams deltas, so fragments are concatenated.
func (s *conversationService) MergeAssistantPartial(text string) {
	if i := s.lastIndexOf(entity.RoleAssistant); i >= 0 && !s.turns[i].IsFinal() {
		s.turns[i].Text += text
		return
	}

	s.appendTurn(entity.RoleAssistant, text, entity.Provisional)
}

func (s *conversationService) SetConnected(connected bool) {
	s.connected = connected
}

func (s *conversationService) Session() (entity.CallSession, bool) {
	if s.session == nil {
		return entity.CallSession{}, false
	}
	return *s.session, true
}

func (s *conversationService) Turns() []entity.TranscriptTurn {
	out := make([]entity.TranscriptTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *conversationService) Snapshot() conversation.Snapshot {
	snap := conversation.Snapshot{
		Connected: s.connected,
		Turns:     s.Turns(),
	}
	if s.session != nil {
		startedAt := s.session.StartedAt
		snap.Call = conversation.CallState{
			IsActive:     true,
			CallID:       s.session.CallID,
			CallerNumber: s.session.CallerNumber,
			StartedAt:    &startedAt,
		}
	}
	return snap
}

// appendTurn adds a turn at the tail. An older provisional turn of the same
// role can no longer be merged into, so it is sealed as final.
func (s *conversationService) appendTurn(role entity.Role, text string, finality entity.Finality) {
	if role != entity.RoleSystem {
		if i := s.lastIndexOf(role); i >= 0 && !s.turns[i].IsFinal() {
			s.turns[i].Finality = entity.Final
		}
	}

	now := s.clock.Now()
	s.turns = append(s.turns, entity.TranscriptTurn{
		ID:        s.nextID(),
		Role:      role,
		Text:      text,
		CreatedAt: now,
		Finality:  finality,
	})
}

func (s *conversationService) lastIndexOf(role entity.Role) int {
	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Role == role {
			return i
		}
	}
	return -1
}

func (s *conversationService) nextID() string {
	s.seq++
	id, err := s.utils.NewULIDFromTimestamp(s.clock.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Failed to generate turn ULID, using sequence id")
		return fmt.Sprintf("turn-%d", s.seq)
	}
	return id
}
