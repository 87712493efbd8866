// Package schedule lists delivery time slots a customer can book.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Interval is distance between two slots
const Interval = 30 * time.Minute

// kitchen hours
const (
	openHour    = 10
	closeHour   = 21
	closeMinute = 30
)

var ErrUnknownSlot = errors.New("slot is not available")

// Day is delivery date with its bookable slots
type Day struct {
	Date  time.Time
	Slots []time.Time
}

// Available returns the slots left today, or tomorrow's slots once the
// kitchen has closed. Today's first slot is the next half hour after now.
func Available(now time.Time) Day {
	today := clock(now, 0, 0)
	closing := clock(now, closeHour, closeMinute)

	if now.Before(closing) {
		start := nextSlot(now)
		if start.Before(closing) {
			return Day{Date: today, Slots: between(start, closing)}
		}
	}

	tomorrow := today.AddDate(0, 0, 1)
	return Day{
		Date:  tomorrow,
		Slots: between(clock(tomorrow, openHour, 30), clock(tomorrow, closeHour, closeMinute)),
	}
}

// Find returns the slot of day labelled "15:04"
func (d Day) Find(label string) (time.Time, error) {
	for _, slot := range d.Slots {
		if slot.Format("15:04") == label {
			return slot, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownSlot, label)
}

func nextSlot(now time.Time) time.Time {
	switch {
	case now.Hour() < openHour:
		return clock(now, openHour, 0)
	case now.Minute() < 30:
		return clock(now, now.Hour(), 30)
	default:
		return clock(now, now.Hour()+1, 0)
	}
}

// between returns slots in [from, to)
func between(from, to time.Time) []time.Time {
	var slots []time.Time
	for t := from; t.Before(to); t = t.Add(Interval) {
		slots = append(slots, t)
	}
	return slots
}

func clock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
