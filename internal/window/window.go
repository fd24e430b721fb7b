package window

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // CI images often ship without a zoneinfo database
)

const (
	DefaultTimezone = "Europe/Berlin"

	minutesPerDay  = 24 * 60
	minutesPerWeek = 7 * minutesPerDay
)

// Point is a weekday and time of day, minute resolution
type Point struct {
	Day    time.Weekday
	Minute int // minutes since midnight
}

// Span is a recurring weekly interval; Start is inclusive, End exclusive.
// A span whose End precedes its Start wraps over the end of the week.
type Span struct {
	Start Point
	End   Point
}

// Gate tests instants against a set of spans in a fixed timezone
type Gate struct {
	loc   *time.Location
	spans []Span
}

// DefaultSpans returns Mon 10:00 - Tue 12:00 and Wed 10:00 - Thu 12:00
func DefaultSpans() []Span {
	return []Span{
		{Start: Point{time.Monday, 10 * 60}, End: Point{time.Tuesday, 12 * 60}},
		{Start: Point{time.Wednesday, 10 * 60}, End: Point{time.Thursday, 12 * 60}},
	}
}

// New creates a Gate for the named IANA timezone
func New(timezone string, spans []Span) (*Gate, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	if len(spans) == 0 {
		return nil, fmt.Errorf("at least one window span is required")
	}
	cp := make([]Span, len(spans))
	copy(cp, spans)
	return &Gate{loc: loc, spans: cp}, nil
}

// Default creates the Europe/Berlin gate with the default spans
func Default() *Gate {
	g, err := New(DefaultTimezone, DefaultSpans())
	if err != nil {
		// tzdata is embedded, so this only fails on a broken build
		panic(err)
	}
	return g
}

// IsOpen reports whether now, converted to the gate's timezone, falls in any span
func (g *Gate) IsOpen(now time.Time) bool {
	local := now.In(g.loc)
	m := minuteOfWeek(local.Weekday(), local.Hour()*60+local.Minute())
	for _, s := range g.spans {
		if s.contains(m) {
			return true
		}
	}
	return false
}

// Location returns the timezone spans are evaluated in
func (g *Gate) Location() *time.Location {
	return g.loc
}

// Spans returns a copy of the configured spans
func (g *Gate) Spans() []Span {
	cp := make([]Span, len(g.spans))
	copy(cp, g.spans)
	return cp
}

func (s Span) contains(m int) bool {
	start := s.Start.minuteOfWeek()
	end := s.End.minuteOfWeek()
	switch {
	case start < end:
		return m >= start && m < end
	case start > end:
		return m >= start || m < end
	default:
		return false
	}
}

// String formats the span as "Mon 10:00 - Tue 12:00"
func (s Span) String() string {
	return s.Start.String() + " - " + s.End.String()
}

func (p Point) minuteOfWeek() int {
	return minuteOfWeek(p.Day, p.Minute)
}

// String formats the point as "Mon 10:00"
func (p Point) String() string {
	return fmt.Sprintf("%s %02d:%02d", p.Day.String()[:3], p.Minute/60, p.Minute%60)
}

func minuteOfWeek(day time.Weekday, minute int) int {
	return (int(day)*minutesPerDay + minute) % minutesPerWeek
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParsePoint parses "Mon 10:00" (full or abbreviated English weekday, 24h clock)
func ParsePoint(text string) (Point, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Point{}, fmt.Errorf("invalid window point %q: want \"<weekday> HH:MM\"", text)
	}

	day, ok := weekdays[strings.ToLower(fields[0])]
	if !ok {
		return Point{}, fmt.Errorf("invalid weekday %q in window point %q", fields[0], text)
	}

	clock, err := time.Parse("15:04", fields[1])
	if err != nil {
		return Point{}, fmt.Errorf("invalid time %q in window point %q: %w", fields[1], text, err)
	}

	return Point{Day: day, Minute: clock.Hour()*60 + clock.Minute()}, nil
}

// ParseSpan parses a start and end point into a Span
func ParseSpan(start, end string) (Span, error) {
	s, err := ParsePoint(start)
	if err != nil {
		return Span{}, err
	}
	e, err := ParsePoint(end)
	if err != nil {
		return Span{}, err
	}
	if s == e {
		return Span{}, fmt.Errorf("window span %q - %q is empty", start, end)
	}
	return Span{Start: s, End: e}, nil
}
