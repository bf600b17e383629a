package dashboard

import "ClinicDashboard/internal/entity"

type ConnectionResponse struct {
	Connection  entity.ConnectionStatus `json:"connection"`
	Subscribers int                     `json:"subscribers"`
}
