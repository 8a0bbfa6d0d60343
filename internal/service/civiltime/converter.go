package civiltime

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

const DefaultTimezone = "Europe/Warsaw"

// Converter maps between absolute instants and local (day-of-week, minute-of-day)
// pairs in one fixed IANA zone.
type Converter struct {
	loc *time.Location
}

func NewConverter(loc *time.Location) *Converter {
	if loc == nil {
		loc = time.UTC
	}
	return &Converter{loc: loc}
}

// LoadConverter resolves an IANA zone name such as "Europe/Warsaw".
func LoadConverter(name string) (*Converter, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return NewConverter(loc), nil
}

func (c *Converter) Location() *time.Location {
	return c.loc
}

// LocalParts holds the local civil representation of an instant.
type LocalParts struct {
	DayOfWeek   int // 0=Sunday
	MinuteOfDay int
	Date        string
}

func (c *Converter) ToLocalParts(t time.Time) LocalParts {
	lt := t.In(c.loc)
	return LocalParts{
		DayOfWeek:   int(lt.Weekday()),
		MinuteOfDay: lt.Hour()*60 + lt.Minute(),
		Date:        lt.Format("2006-01-02"),
	}
}

// ToAbsolute builds the UTC instant for a wall-clock minute on the given weekday
// of the week starting at weekStart. Sunday is the last day of that week.
// Minutes past the end of the day roll over into the next day.
func (c *Converter) ToAbsolute(weekStart time.Time, dayOfWeek, minuteOfDay int) time.Time {
	offset := dayOfWeek - 1
	if dayOfWeek == 0 {
		offset = 6
	}

	y, m, d := weekStart.In(c.loc).Date()
	return time.Date(y, m, d+offset, 0, minuteOfDay, 0, 0, c.loc).UTC()
}

// WeekStart returns local Monday 00:00 of the week containing t.
func (c *Converter) WeekStart(t time.Time) time.Time {
	lt := t.In(c.loc)
	back := (int(lt.Weekday()) + 6) % 7
	y, m, d := lt.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, c.loc)
}

// NextWeekStart returns local Monday 00:00 of the week after the one containing t.
func (c *Converter) NextWeekStart(t time.Time) time.Time {
	ws := c.WeekStart(t)
	y, m, d := ws.Date()
	return time.Date(y, m, d+7, 0, 0, 0, 0, c.loc)
}

// WeekEnd returns the exclusive end of the week starting at weekStart.
func (c *Converter) WeekEnd(weekStart time.Time) time.Time {
	y, m, d := weekStart.In(c.loc).Date()
	return time.Date(y, m, d+7, 0, 0, 0, 0, c.loc)
}

// ParseWeek parses a week key in the converter's zone.
func (c *Converter) ParseWeek(key string) (time.Time, error) {
	return domain.ParseWeekKey(key, c.loc)
}

// InWindow reports whether minuteOfDay lies in [start, end].
func InWindow(minuteOfDay, start, end int) bool {
	return minuteOfDay >= start && minuteOfDay <= end
}
