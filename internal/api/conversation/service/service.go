package conversationService

import (
	"ClinicDashboard/internal/api/conversation"
	"ClinicDashboard/internal/entity"
	"ClinicDashboard/pkg/clock"
	"ClinicDashboard/pkg/utils"

	"github.com/sirupsen/logrus"
)

// IConversationService owns the active call and its transcript. It is not
// safe for concurrent use; the event router is its only writer.
type IConversationService interface {
	StartSession(callID, callerNumber string)
	EndSession()
	CheckCall(callID string) error
	MergeCallerTurn(text string, isFinal bool)
	MergeAssistantFinal(text string)
	MergeAssistantPartial(text string)
	SetConnected(connected bool)
	Session() (entity.CallSession, bool)
	Turns() []entity.TranscriptTurn
	Snapshot() conversation.Snapshot
}

type conversationService struct {
	log       *logrus.Logger
	clock     clock.Clock
	utils     utils.IUtils
	connected bool
	session   *entity.CallSession
	turns     []entity.TranscriptTurn
	seq       uint64
}

func NewConversationService(log *logrus.Logger, clk clock.Clock, u utils.IUtils) IConversationService {
	if clk == nil {
		clk = clock.New()
	}
	if u == nil {
		u = utils.New()
	}
	return &conversationService{
		log:   log,
		clock: clk,
		utils: u,
	}
}
