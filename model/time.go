package model

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedTime is returned by ParseTime when its input does not match
// H:MM:SS or HH:MM:SS, or when the minute/second fields are out of range.
var ErrMalformedTime = errors.New("malformed time")

// Time is a total-ordered point in the service day, given as a count of
// seconds past the reference midnight. It may exceed 86400 to denote a
// time on the following day, as GTFS stop_times do for overnight trips.
//
// Infinite is a distinct value greater than every Finite time. Keeping it
// as its own state (rather than encoding it as a sentinel integer) keeps
// comparisons and addition total and explicit.
type Time struct {
	seconds  uint64
	infinite bool
}

// Infinite compares greater than any Finite time.
var Infinite = Time{infinite: true}

// Finite constructs a time from a count of seconds past midnight.
func Finite(seconds uint64) Time {
	return Time{seconds: seconds}
}

// IsInfinite reports whether t is the Infinite value.
func (t Time) IsInfinite() bool {
	return t.infinite
}

// Seconds returns the underlying second count and true, or (0, false) if t
// is Infinite.
func (t Time) Seconds() (uint64, bool) {
	if t.infinite {
		return 0, false
	}
	return t.seconds, true
}

// Compare returns -1, 0 or 1 as t is less than, equal to, or greater than
// other. Infinite equals Infinite and is greater than every Finite value.
func (t Time) Compare(other Time) int {
	switch {
	case t.infinite && other.infinite:
		return 0
	case t.infinite:
		return 1
	case other.infinite:
		return -1
	case t.seconds < other.seconds:
		return -1
	case t.seconds > other.seconds:
		return 1
	default:
		return 0
	}
}

// Less reports whether t sorts strictly before other.
func (t Time) Less(other Time) bool {
	return t.Compare(other) < 0
}

// LessOrEqual reports whether t sorts before or equal to other.
func (t Time) LessOrEqual(other Time) bool {
	return t.Compare(other) <= 0
}

// Add returns t + other, saturating at Infinite if either operand is
// Infinite.
func (t Time) Add(other Time) Time {
	if t.infinite || other.infinite {
		return Infinite
	}
	return Finite(t.seconds + other.seconds)
}

// String formats t as H:MM:SS (or "infinite"). Hours are not zero-padded
// and may exceed 24.
func (t Time) String() string {
	if t.infinite {
		return "infinite"
	}
	hours := t.seconds / 3600
	minutes := (t.seconds % 3600) / 60
	seconds := t.seconds % 60
	return strconv.FormatUint(hours, 10) + ":" + pad2(minutes) + ":" + pad2(seconds)
}

func pad2(v uint64) string {
	s := strconv.FormatUint(v, 10)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// ParseTime parses a GTFS-style "H:MM:SS" or "HH:MM:SS" timestamp. The hour
// field accepts any number of digits (trips may run arbitrarily far past
// midnight); the minute and second fields must each be exactly two digits
// and in [0, 59].
func ParseTime(s string) (Time, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Time{}, errors.Wrapf(ErrMalformedTime, "expected H:MM:SS, got %q", s)
	}

	hourPart, minutePart, secondPart := parts[0], parts[1], parts[2]

	if len(hourPart) == 0 {
		return Time{}, errors.Wrapf(ErrMalformedTime, "empty hour field in %q", s)
	}
	if len(minutePart) != 2 {
		return Time{}, errors.Wrapf(ErrMalformedTime, "minute field must be 2 digits, got %q", s)
	}
	if len(secondPart) != 2 {
		return Time{}, errors.Wrapf(ErrMalformedTime, "second field must be 2 digits, got %q", s)
	}

	hours, err := strconv.ParseUint(hourPart, 10, 64)
	if err != nil {
		return Time{}, errors.Wrapf(ErrMalformedTime, "non-numeric hour in %q", s)
	}
	minutes, err := strconv.ParseUint(minutePart, 10, 64)
	if err != nil || minutes > 59 {
		return Time{}, errors.Wrapf(ErrMalformedTime, "invalid minute in %q", s)
	}
	seconds, err := strconv.ParseUint(secondPart, 10, 64)
	if err != nil || seconds > 59 {
		return Time{}, errors.Wrapf(ErrMalformedTime, "invalid second in %q", s)
	}

	return Finite(hours*3600 + minutes*60 + seconds), nil
}
