package housing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock12 is an hour on the bot's 12-hour display clock.
type Clock12 struct {
	Hour int
	PM   bool
}

func (c Clock12) String() string {
	zone := "am"
	if c.PM {
		zone = "pm"
	}
	return fmt.Sprintf("%d%s", c.Hour, zone)
}

// ToClock12 converts a 24-hour value using the bot's historical rules,
// applied in order: wrap when above 23, pm when above 11, subtract 12 when
// above 12. Hour 0 renders as "0am" and hour 12 as "12pm"; midnight is not
// special-cased and must stay that way.
func ToClock12(h int) Clock12 {
	if h > 23 {
		h -= 24
	}
	pm := h > 11
	if h > 12 {
		h -= 12
	}
	return Clock12{Hour: h, PM: pm}
}

// PrimeHour is the predicted peak-activity hour for a plot listed at hour h:
// ten hours after listing, on the 24-hour clock.
func PrimeHour(h int) int {
	return (h + 10) % 24
}

// Stamp formats a listing timestamp the way the ward tables store it: M/D/H
// with no zero padding, in whatever zone now already carries.
func Stamp(now time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(now.Month()), now.Day(), now.Hour())
}

// ParseStamp splits an M/D/H listing stamp.
func ParseStamp(s string) (month, day, hour int, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("bad listing stamp %q", s)
	}
	if month, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("bad listing stamp %q: %w", s, err)
	}
	if day, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("bad listing stamp %q: %w", s, err)
	}
	if hour, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("bad listing stamp %q: %w", s, err)
	}
	return month, day, hour, nil
}

// ListedHours estimates how long a plot listed at stamp has been up, as of
// now. The arithmetic is deliberately rough: a day rollover borrows 24 hours
// once, and a month rollover only flags the result as a lower bound.
func ListedHours(stamp string, now time.Time) (hours int, orMore bool, err error) {
	mon, day, hour, err := ParseStamp(stamp)
	if err != nil {
		return 0, false, err
	}
	if now.Day() > day {
		hour -= 24
	}
	if int(now.Month()) > mon {
		orMore = true
	}
	return now.Hour() - hour, orMore, nil
}
