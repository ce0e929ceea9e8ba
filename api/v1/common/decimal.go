package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Decimal accepts both JSON numbers and decimal strings ("5000.00"),
// since the backend serializes money fields as strings.
type Decimal float64

func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*d = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid decimal %q: %w", s, err)
		}
		*d = Decimal(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*d = Decimal(f)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(d))
}

func (d Decimal) Float64() float64 {
	return float64(d)
}
