package common

import (
	"encoding/json"
	"fmt"
	"time"

	"fieldwork.com/console/utils"
)

type DateOnly struct {
	time.Time
}

func NewDateOnly(t time.Time) DateOnly {
	return DateOnly{Time: utils.StartOfDay(t)}
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	// b is a quoted string like `"2025-10-29"`
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if s == nil || *s == "" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(utils.DateLayout, *s)
	if err != nil {
		return fmt.Errorf("invalid date format: %v", err)
	}

	d.Time = t
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format(utils.DateLayout))
}

func (d DateOnly) String() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Format(utils.DateLayout)
}

// Timestamp accepts either a plain date or a full ISO timestamp.
// Floating is set when the value carried no zone offset: its wall clock
// belongs to whoever reads it, not to UTC.
type Timestamp struct {
	time.Time
	Floating bool
}

const floatingLayout = "2006-01-02T15:04:05"

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*ts = Timestamp{}
		return nil
	}
	t, zoned, err := utils.ParseISOTimeZoned(*s)
	if err != nil {
		return err
	}
	*ts = Timestamp{Time: *t, Floating: !zoned}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Time.IsZero() {
		return json.Marshal("")
	}
	if ts.Floating {
		if ts.Equal(utils.StartOfDay(ts.Time)) {
			return json.Marshal(ts.Format(utils.DateLayout))
		}
		return json.Marshal(ts.Format(floatingLayout))
	}
	return json.Marshal(ts.Format(time.RFC3339))
}
