package events

import (
	"ClinicDashboard/internal/entity"
	"fmt"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is one decoded push frame. The concrete type tells the router which
// reducer operation applies.
type Event interface {
	Type() entity.EventType
}

type CallStarted struct{ entity.CallStartedData }

type CallEnded struct{ entity.CallEndedData }

type TranscriptUser struct{ entity.TranscriptData }

type TranscriptAgent struct{ entity.TranscriptData }

type AppointmentCreated struct{ Appointment entity.Appointment }

type AppointmentUpdated struct{ Appointment entity.Appointment }

type AppointmentDeleted struct{ AppointmentID string }

type ConnectionStatus struct{ entity.ConnectionStatusData }

type ServerError struct{ entity.ErrorData }

type Pong struct{}

// Unknown carries a discriminant this build does not understand.
type Unknown struct{ Kind entity.EventType }

func (CallStarted) Type() entity.EventType        { return entity.EventCallStarted }
func (CallEnded) Type() entity.EventType          { return entity.EventCallEnded }
func (TranscriptUser) Type() entity.EventType     { return entity.EventTranscriptUser }
func (TranscriptAgent) Type() entity.EventType    { return entity.EventTranscriptAgent }
func (AppointmentCreated) Type() entity.EventType { return entity.EventAppointmentCreated }
func (AppointmentUpdated) Type() entity.EventType { return entity.EventAppointmentUpdated }
func (AppointmentDeleted) Type() entity.EventType { return entity.EventAppointmentDeleted }
func (ConnectionStatus) Type() entity.EventType   { return entity.EventConnectionStatus }
func (ServerError) Type() entity.EventType        { return entity.EventError }
func (Pong) Type() entity.EventType               { return entity.EventPong }
func (u Unknown) Type() entity.EventType          { return u.Kind }

type Decoder struct {
	validator *validator.Validate
}

func NewDecoder(v *validator.Validate) *Decoder {
	if v == nil {
		v = validator.New()
	}
	return &Decoder{validator: v}
}

// Decode parses one text frame. Frames that are not a JSON envelope with a
// type fail with ErrMalformedFrame; a known type whose data does not fit its
// shape fails with ErrInvalidPayload. An unrecognised type is not an error.
func (d *Decoder) Decode(frame []byte) (Event, error) {
	var envelope entity.DashboardEvent
	if err := json.Unmarshal(frame, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	}

	switch envelope.Type {
	case entity.EventCallStarted:
		var data entity.CallStartedData
		if err := d.payload(envelope, &data); err != nil {
			return nil, err
		}
		return CallStarted{data}, nil

	case entity.EventCallEnded:
		var data entity.CallEndedData
		if err := d.payload(envelope, &data); err != nil {
			return nil, err
		}
		return CallEnded{data}, nil

	case entity.EventTranscriptUser, entity.EventTranscriptAgent:
		var data entity.TranscriptData
		if err := d.payload(envelope, &data); err != nil {
			return nil, err
		}
		if envelope.Type == entity.EventTranscriptUser {
			return TranscriptUser{data}, nil
		}
		return TranscriptAgent{data}, nil

	case entity.EventAppointmentCreated, entity.EventAppointmentUpdated:
		var data entity.AppointmentEventData
		if err := d.payload(envelope, &data); err != nil {
			return nil, err
		}
		if envelope.Type == entity.EventAppointmentCreated {
			return AppointmentCreated{Appointment: *data.Appointment}, nil
		}
		return AppointmentUpdated{Appointment: *data.Appointment}, nil

	case entity.EventAppointmentDeleted:
		var data entity.AppointmentDeletedData
		if err := d.payload(envelope, &data); err != nil {
			return nil, err
		}
		return AppointmentDeleted{AppointmentID: data.AppointmentID}, nil

	case entity.EventConnectionStatus:
		var data entity.ConnectionStatusData
		if err := d.payload(envelope, &data); err != nil {
			return nil, err
		}
		return ConnectionStatus{data}, nil

	case entity.EventError:
		var data entity.ErrorData
		if err := d.payload(envelope, &data); err != nil {
			return nil, err
		}
		return ServerError{data}, nil

	case entity.EventPong:
		return Pong{}, nil
	}

	return Unknown{Kind: envelope.Type}, nil
}

func (d *Decoder) payload(envelope entity.DashboardEvent, out interface{}) error {
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%w: %s: missing data", ErrInvalidPayload, envelope.Type)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, envelope.Type, err)
	}
	if err := d.validator.Struct(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, envelope.Type, err)
	}
	return nil
}
