package store

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
	dayLayout,
}

// nullTime scans DATE and TIMESTAMP columns from either dialect. SQLite hands
// them back as text, Postgres as time.Time.
type nullTime struct {
	Time  time.Time
	Valid bool
}

func (t *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = nullTime{}
		return nil
	case time.Time:
		*t = nullTime{Time: v.UTC(), Valid: true}
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
}

func (t *nullTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = nullTime{Time: parsed.UTC(), Valid: true}
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as time", s)
}

// day truncates the scanned value to a UTC calendar day.
func (t nullTime) day() time.Time {
	if !t.Valid {
		return time.Time{}
	}
	y, m, d := t.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func int64Ptr(v int64, valid bool) *int64 {
	if !valid {
		return nil
	}
	return &v
}
