package hotel

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// MaxGuests is the policy maximum of adults plus children for one room.
// Enforced here, centrally, rather than per form.
const MaxGuests = 4

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD. Zero times render empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// Today returns the current calendar date at midnight UTC.
func Today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NightsBetween returns the calendar-day difference between checkIn and
// checkOut, rounded up. Positive whenever checkIn < checkOut.
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// ComputeTotal is pricePerNight times the nights of the stay, or 0 when
// either date is absent.
func ComputeTotal(pricePerNight float64, stay Stay) float64 {
	if stay.CheckIn.IsZero() || stay.CheckOut.IsZero() {
		return 0
	}
	return pricePerNight * float64(NightsBetween(stay.CheckIn, stay.CheckOut))
}

// ValidateStay checks every invariant independently and returns a map from
// field name to error message; an empty map means the stay may be
// submitted. A check-out error never suppresses a check-in error.
func ValidateStay(stay Stay, today time.Time) map[string]string {
	errs := make(map[string]string)

	if stay.CheckIn.IsZero() {
		errs["checkInDate"] = "check-in date is required"
	} else if stay.CheckIn.Before(today) {
		errs["checkInDate"] = "check-in date cannot be in the past"
	}

	if stay.CheckOut.IsZero() {
		errs["checkOutDate"] = "check-out date is required"
	} else if !stay.CheckIn.IsZero() && !stay.CheckOut.After(stay.CheckIn) {
		errs["checkOutDate"] = "check-out date must be after check-in date"
	}

	if stay.NumAdults < 1 {
		errs["numOfAdults"] = "at least one adult is required"
	}
	if stay.NumChildren < 0 {
		errs["numOfChildren"] = "number of children cannot be negative"
	}
	if stay.TotalGuests() > MaxGuests {
		errs["totalNumOfGuest"] = fmt.Sprintf("a room sleeps at most %d guests", MaxGuests)
	}

	return errs
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

// IsValidEmail does a light sanity check; the backend has the final say.
func IsValidEmail(email string) bool { return emailRe.MatchString(email) }

// IsValidPhone accepts digits with common separators, 10 chars minimum.
func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone) && len(phone) >= 10
}

// IsValidPassword enforces the backend's minimum length.
func IsValidPassword(password string) bool { return len(password) >= 6 }
