package entity

type WorkingHours struct {
	Start               string `json:"start"`
	End                 string `json:"end"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
}

var DefaultWorkingHours = WorkingHours{
	Start:               "08:00",
	End:                 "18:00",
	SlotDurationMinutes: 30,
}

type Clinic struct {
	Name              string       `json:"name"`
	Phone             string       `json:"phone"`
	Address           string       `json:"address"`
	GreetingTemplates []string     `json:"greeting_templates"`
	WorkingHours      WorkingHours `json:"working_hours"`
}

// Hours returns the clinic working hours, falling back to the defaults for
// any field left unset.
func (c Clinic) Hours() WorkingHours {
	h := c.WorkingHours
	if h.Start == "" {
		h.Start = DefaultWorkingHours.Start
	}
	if h.End == "" {
		h.End = DefaultWorkingHours.End
	}
	if h.SlotDurationMinutes <= 0 {
		h.SlotDurationMinutes = DefaultWorkingHours.SlotDurationMinutes
	}
	return h
}

type Doctor struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Specialization    string   `json:"specialization"`
	AvailableServices []string `json:"available_services"`
}

type Service struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Price           int    `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
	Description     string `json:"description"`
}

// ClinicConfig is the payload of the configuration fetch used to seed the
// schedule at startup.
type ClinicConfig struct {
	Clinic       Clinic        `json:"clinic"`
	Doctors      []Doctor      `json:"doctors"`
	Services     []Service     `json:"services"`
	Appointments []Appointment `json:"appointments"`
	Today        string        `json:"today"`
}
