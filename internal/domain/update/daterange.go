package update

import (
	"strings"
	"time"

	"github.com/maerl/reporting/internal/domain/errs"
)

// DateRange bounds update dates inclusively at day granularity. A zero bound
// is open.
type DateRange struct {
	From time.Time `json:"from,omitzero"`
	To   time.Time `json:"to,omitzero"`
}

// ParseDateRange parses ISO from/to dates. Empty strings leave the bound open.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	var err error
	if r.From, err = parseDay("from", from); err != nil {
		return DateRange{}, err
	}
	if r.To, err = parseDay("to", to); err != nil {
		return DateRange{}, err
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return DateRange{}, errs.Invalid("to")
	}
	return r, nil
}

func parseDay(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(ExportDateLayout, value)
	if err != nil {
		return time.Time{}, errs.Invalid(field)
	}
	return t, nil
}

// Contains reports whether t falls on a day within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := day(t)
	if !r.From.IsZero() && d.Before(day(r.From)) {
		return false
	}
	if !r.To.IsZero() && d.After(day(r.To)) {
		return false
	}
	return true
}

// IsOpen reports whether neither bound is set.
func (r DateRange) IsOpen() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// FromString and ToString render the bounds as ISO dates, or "".
func (r DateRange) FromString() string { return isoOrEmpty(r.From) }
func (r DateRange) ToString() string   { return isoOrEmpty(r.To) }

func isoOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ExportDateLayout)
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
