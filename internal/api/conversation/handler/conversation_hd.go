package conversationHandler

import (
	"ClinicDashboard/internal/api/conversation"
	"ClinicDashboard/pkg/handlerUtil"

	"github.com/gofiber/fiber/v2"
)

func (h *ConversationHandler) GetConversation(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)
	snap := h.hub.Current()

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
		"version":      snap.Version,
		"conversation": snap.Conversation,
	})
}

func (h *ConversationHandler) GetActiveCall(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	call := h.hub.Current().Conversation.Call
	if !call.IsActive {
		return errHandler.Handle(ctx, requestID, conversation.ErrNoActiveCall, ctx.Path(), "get_active_call")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, call)
}
