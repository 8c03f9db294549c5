package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const EndOfDay = 24 * 60

var ErrBadTime = errors.New("time must be HH:MM")

// ToMinutes turns a 24-hour "HH:MM" string into minutes since midnight.
// "24:00" is accepted as the end of the day (1440).
func ToMinutes(hhmm string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok || !digits(h, 1, 2) || !digits(m, 2, 2) {
		return 0, ErrBadTime
	}
	if h == "24" && m == "00" {
		return EndOfDay, nil
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours > 23 {
		return 0, ErrBadTime
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes > 59 {
		return 0, ErrBadTime
	}
	return hours*60 + minutes, nil
}

// FormatMinutes is the inverse of ToMinutes.
func FormatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ValidDay reports whether d is a week day index, 0 = Sunday.
func ValidDay(d int) bool {
	return d >= 0 && d <= 6
}

func digits(s string, lo, hi int) bool {
	if len(s) < lo || len(s) > hi {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
