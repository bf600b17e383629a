package conversation

import "ClinicDashboard/pkg/response"

var (
	ErrStaleTranscript = response.NewError(409, "transcript belongs to a call that is not active")
	ErrNoActiveCall    = response.NewError(404, "no active call")
)
