package schedule

import (
	"ClinicDashboard/internal/entity"
	"fmt"
	"strings"
	"time"
)

const slotLayout = "15:04"

// CanonicalTime normalises a time of day to zero-padded HH:MM so slot and
// appointment times join by exact match. Accepts "9:00", "09:00" and
// "09:00:00".
func CanonicalTime(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{slotLayout, "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(slotLayout), true
		}
	}
	return raw, false
}

// GenerateTimeSlots returns the start time of every slot in [start, end).
func GenerateTimeSlots(start, end string, durationMinutes int) ([]string, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration %d", ErrInvalidWorkingHours, durationMinutes)
	}
	from, err := minutesOfDay(start)
	if err != nil {
		return nil, err
	}
	to, err := minutesOfDay(end)
	if err != nil {
		return nil, err
	}

	slots := make([]string, 0, max(0, (to-from)/durationMinutes+1))
	for m := from; m < to; m += durationMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots, nil
}

func minutesOfDay(raw string) (int, error) {
	canonical, ok := CanonicalTime(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWorkingHours, raw)
	}
	t, _ := time.Parse(slotLayout, canonical)
	return t.Hour()*60 + t.Minute(), nil
}

// BuildSlotGrid left-joins the day's slots against appointments by start
// time. Appointments outside the grid are not represented.
func BuildSlotGrid(hours entity.WorkingHours, appointments []entity.Appointment, isNew func(id string) bool) ([]TimeSlot, error) {
	times, err := GenerateTimeSlots(hours.Start, hours.End, hours.SlotDurationMinutes)
	if err != nil {
		return nil, err
	}

	byTime := make(map[string]entity.Appointment, len(appointments))
	for _, apt := range appointments {
		key, _ := CanonicalTime(apt.Time)
		byTime[key] = apt
	}

	grid := make([]TimeSlot, 0, len(times))
	for _, slotTime := range times {
		slot := TimeSlot{Time: slotTime, IsAvailable: true}
		if apt, ok := byTime[slotTime]; ok {
			apt := apt
			slot.Appointment = &apt
			slot.IsAvailable = false
			if isNew != nil {
				slot.IsNew = isNew(apt.ID)
			}
		}
		grid = append(grid, slot)
	}
	return grid, nil
}
