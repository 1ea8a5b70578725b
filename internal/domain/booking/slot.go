package booking

import (
	"errors"
	"time"
)

var (
	ErrUnknownSessionType = errors.New("unknown session type")
	ErrInvalidDate        = errors.New("invalid date")
)

// SessionType is one of the two rental windows offered per day.
// A daily rental physically extends into the following morning before
// the bike comes back, which is why slot contention crosses dates.
type SessionType string

const (
	SessionMorning SessionType = "morning"
	SessionDaily   SessionType = "daily"
)

func ParseSessionType(s string) (SessionType, error) {
	switch SessionType(s) {
	case SessionMorning, SessionDaily:
		return SessionType(s), nil
	}
	return "", ErrUnknownSessionType
}

const dateLayout = "2006-01-02"

// Date is a calendar day, comparable and usable as a map key.
type Date struct {
	year  int
	month time.Month
	day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{year: year, month: month, day: day}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Slot is one contested booking window: a (date, session) pair.
type Slot struct {
	date    Date
	session SessionType
}

func NewSlot(date Date, session SessionType) (Slot, error) {
	if date.IsZero() {
		return Slot{}, ErrInvalidDate
	}
	if _, err := ParseSessionType(string(session)); err != nil {
		return Slot{}, err
	}
	return Slot{date: date, session: session}, nil
}

func (s Slot) Date() Date           { return s.date }
func (s Slot) Session() SessionType { return s.session }

func (s Slot) String() string {
	return s.date.String() + "/" + string(s.session)
}

// Contending returns the slots whose bookings count against this
// slot's capacity:
//
//   - the slot itself,
//   - the other session on the same date (a daily rental consumes the
//     morning window and vice versa),
//   - the previous day's daily session, whose bikes are still out when
//     this date begins.
//
// The result is side-effect free and deterministic; slot validity is
// established at construction.
func (s Slot) Contending() []Slot {
	other := SessionDaily
	if s.session == SessionDaily {
		other = SessionMorning
	}
	return []Slot{
		s,
		{date: s.date, session: other},
		{date: s.date.AddDays(-1), session: SessionDaily},
	}
}
