package events

import "ClinicDashboard/pkg/response"

var (
	ErrMalformedFrame = response.NewError(400, "malformed push frame")
	ErrInvalidPayload = response.NewError(422, "event payload does not match its type")
	ErrRouterStopped  = response.NewError(503, "event router is not running")
	ErrRouterRunning  = response.NewError(409, "event router already started")
)
