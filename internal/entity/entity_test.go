package entity

import (
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatedInstant(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{"rfc3339 with zone", "2026-10-17T09:00:00+03:00", time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC), true},
		{"naive is utc", "2026-10-17T09:00:00.250", time.Date(2026, 10, 17, 9, 0, 0, 250e6, time.UTC), true},
		{"space separated", "2026-10-17 09:00:00", time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC), true},
		{"empty", "  ", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Appointment{CreatedAt: tc.raw}.CreatedInstant()
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, tc.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestEnumsEncodeAsNames(t *testing.T) {
	json := jsoniter.ConfigCompatibleWithStandardLibrary

	out, err := json.Marshal(TranscriptTurn{Role: RoleCaller, Finality: Final})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"final"`)

	out, err = json.Marshal(ConnectionStatus{State: Connecting})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"connecting"`)

	var state ConnectionState
	require.NoError(t, state.UnmarshalText([]byte("connected")))
	assert.Equal(t, Connected, state)
	assert.Error(t, state.UnmarshalText([]byte("half-open")))

	var f Finality
	require.NoError(t, f.UnmarshalText([]byte("provisional")))
	assert.Equal(t, Provisional, f)
	assert.Error(t, f.UnmarshalText([]byte("maybe")))
}
