package entity

import "fmt"

type ConnectionState uint8

const (
	Disconnected ConnectionState = 0
	Connecting   ConnectionState = 1
	Connected    ConnectionState = 2
)

var ConnectionStateMap = map[ConnectionState]string{
	Disconnected: "disconnected",
	Connecting:   "connecting",
	Connected:    "connected",
}

func (s ConnectionState) String() string {
	return ConnectionStateMap[s]
}

func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ConnectionState) UnmarshalText(text []byte) error {
	for k, v := range ConnectionStateMap {
		if v == string(text) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown connection state %q", text)
}

type ConnectionStatus struct {
	State          ConnectionState `json:"state"`
	RetryCount     int             `json:"retry_count"`
	MaxRetries     int             `json:"max_retries"`
	ReconnectDelay string          `json:"reconnect_delay"`
	Endpoint       string          `json:"endpoint"`
	Stopped        bool            `json:"stopped"`
}
