package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func TestManualFiresTimersInDeadlineOrder(t *testing.T) {
	clk := NewManual(epoch)
	var fired []string

	clk.AfterFunc(3*time.Second, func() { fired = append(fired, "c") })
	clk.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	clk.AfterFunc(2*time.Second, func() { fired = append(fired, "b1") })
	clk.AfterFunc(2*time.Second, func() { fired = append(fired, "b2") })
	require.Equal(t, 4, clk.Pending())

	clk.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b1", "b2"}, fired)
	assert.Equal(t, epoch.Add(2*time.Second), clk.Now())

	clk.Advance(time.Second)
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, fired)
	assert.Zero(t, clk.Pending())
}

func TestManualTimerSeesItsOwnDeadline(t *testing.T) {
	clk := NewManual(epoch)
	var at time.Time
	clk.AfterFunc(1500*time.Millisecond, func() { at = clk.Now() })

	clk.Advance(10 * time.Second)
	assert.Equal(t, epoch.Add(1500*time.Millisecond), at)
	assert.Equal(t, epoch.Add(10*time.Second), clk.Now())
}

func TestManualTimerScheduledFromCallback(t *testing.T) {
	clk := NewManual(epoch)
	count := 0
	var again func()
	again = func() {
		count++
		if count < 3 {
			clk.AfterFunc(time.Second, again)
		}
	}
	clk.AfterFunc(time.Second, again)

	clk.Advance(5 * time.Second)
	assert.Equal(t, 3, count)
}

func TestManualStop(t *testing.T) {
	clk := NewManual(epoch)
	fired := false
	timer := clk.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	clk.Advance(time.Minute)
	assert.False(t, fired)
}

func TestManualTicker(t *testing.T) {
	clk := NewManual(epoch)
	ticker := clk.NewTicker(30 * time.Second)

	clk.Advance(29 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("ticked early")
	default:
	}

	clk.Advance(time.Second)
	select {
	case at := <-ticker.C():
		assert.Equal(t, epoch.Add(30*time.Second), at)
	default:
		t.Fatal("tick not delivered")
	}

	ticker.Stop()
	clk.Advance(time.Minute)
	select {
	case <-ticker.C():
		t.Fatal("ticked after stop")
	default:
	}
}

func TestRealClockAfterFunc(t *testing.T) {
	clk := New()
	done := make(chan struct{})
	clk.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real timer never fired")
	}
}
