/**
 * @description
 * Payment calendar generator: turns a pay cadence and a set of recurring
 * obligation due dates into independent debit (paycheck) and payment (bill)
 * event sequences. The generator never attempts to pair the two sequences;
 * the caller correlates them by date proximity for display.
 */

package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/autopayplan/planner-service/internal/domain"
)

// Cadence is the paycheck interval.
type Cadence string

const (
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
)

// Days returns the cadence interval in days.
func (c Cadence) Days() (int, error) {
	switch c {
	case CadenceWeekly:
		return 7, nil
	case CadenceBiweekly:
		return 14, nil
	default:
		return 0, fmt.Errorf("%w: unknown pay cadence %q", ErrInvalidInput, string(c))
	}
}

// ScheduledObligation is one recurring monthly bill: its next due date and
// expected amount. DueDay carries the nominal day of month so a clamped first
// occurrence (a 31st landing in February) can return to the real day in
// longer months; zero means recur on DueDate's own day.
type ScheduledObligation struct {
	ID      uuid.UUID
	Name    string
	DueDate time.Time
	DueDay  int
	Amount  float64
}

// GenerateCalendar produces every debit event at the cadence interval from the
// anchor date, and every monthly recurrence of each obligation's due date,
// within [anchor, until). Events come back sorted by date, debits before
// payments on the same day.
func GenerateCalendar(cadence Cadence, anchor time.Time, obligations []ScheduledObligation, until time.Time) ([]domain.PaymentEvent, error) {
	interval, err := cadence.Days()
	if err != nil {
		return nil, err
	}
	if !until.After(anchor) {
		return nil, fmt.Errorf("%w: calendar horizon must end after the anchor date", ErrInvalidInput)
	}

	events := []domain.PaymentEvent{}
	for t := anchor; t.Before(until); t = t.AddDate(0, 0, interval) {
		events = append(events, domain.PaymentEvent{
			Date: t,
			Kind: domain.EventDebit,
		})
	}

	for _, ob := range obligations {
		for cycle := 0; ; cycle++ {
			due := addMonthsClamped(ob.DueDate, cycle)
			if ob.DueDay > 0 {
				// Re-derive from the nominal day so a clamped occurrence does
				// not pin every later month to the clamped day.
				due = clampToMonth(due.Year(), due.Month(), ob.DueDay, due.Location())
			}
			if !due.Before(until) {
				break
			}
			if due.Before(anchor) {
				continue
			}
			events = append(events, domain.PaymentEvent{
				Date:         due,
				Kind:         domain.EventPayment,
				ObligationID: ob.ID,
				Name:         ob.Name,
				Amount:       ob.Amount,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Kind == domain.EventDebit && events[j].Kind == domain.EventPayment
	})
	return events, nil
}

// NextDueDate returns the first occurrence of a monthly due day on or after
// the given date, clamping the day to months that are too short for it.
func NextDueDate(from time.Time, dueDay int) time.Time {
	candidate := clampToMonth(from.Year(), from.Month(), dueDay, from.Location())
	if candidate.Before(from) {
		candidate = addMonthsClamped(candidate, 1)
		// Re-derive from the original due day so a clamped February date can
		// return to the 31st in March.
		candidate = clampToMonth(candidate.Year(), candidate.Month(), dueDay, from.Location())
	}
	return candidate
}

func clampToMonth(year int, month time.Month, day int, loc *time.Location) time.Time {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// addMonthsClamped advances a date by whole calendar months, clamping days
// 29–31 to the last valid day of shorter months instead of letting the date
// normalize into the following month.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
