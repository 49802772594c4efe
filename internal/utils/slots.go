package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadSlotDate = errors.New("invalid slot date, expected day_month_year")
	ErrBadSlotTime = errors.New("invalid slot time, expected hh:mm AM/PM")
)

const slotTimeLayout = "03:04 PM"

// ParseSlotDate parses a slot date key of the form "day_month_year" with no
// zero padding, e.g. "5_6_2025". Matching on slot keys is exact string
// equality, so padded components are rejected rather than normalized.
func ParseSlotDate(s string) (time.Time, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return time.Time{}, ErrBadSlotDate
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || strconv.Itoa(n) != p {
			return time.Time{}, ErrBadSlotDate
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 || day < 1 || year < 1 {
		return time.Time{}, ErrBadSlotDate
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31_4 becomes 1_5); reject it
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, ErrBadSlotDate
	}
	return t, nil
}

// FormatSlotDate is the inverse of ParseSlotDate:
// FormatSlotDate(ParseSlotDate(x)) == x for every valid key x.
func FormatSlotDate(t time.Time) string {
	return fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month()), t.Year())
}

// ValidateSlotTime checks that s is an "hh:mm AM/PM" time string in its
// canonical form, e.g. "10:00 AM". Slot times compare by exact string
// equality on the write and read paths, so the canonical form is required.
func ValidateSlotTime(s string) error {
	t, err := time.Parse(slotTimeLayout, s)
	if err != nil {
		return ErrBadSlotTime
	}
	if t.Format(slotTimeLayout) != s {
		return ErrBadSlotTime
	}
	return nil
}
