package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalAcceptsStringAndNumber(t *testing.T) {
	var v struct {
		A Decimal `json:"a"`
		B Decimal `json:"b"`
		C Decimal `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"5000.50","b":1200,"c":null}`), &v))
	assert.Equal(t, 5000.5, v.A.Float64())
	assert.Equal(t, 1200.0, v.B.Float64())
	assert.Equal(t, 0.0, v.C.Float64())

	assert.Error(t, json.Unmarshal([]byte(`{"a":"lots"}`), &v))
}

func TestDateOnlyRoundTrip(t *testing.T) {
	var d DateOnly
	require.NoError(t, json.Unmarshal([]byte(`"2026-10-17"`), &d))
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), d.Time)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-10-17"`, string(out))

	var empty DateOnly
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`"17/10/2026"`), &d))
}

func TestTimestampAcceptsDateAndDateTime(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2026-10-17T07:45:00Z"`), &ts))
	assert.Equal(t, 7, ts.Hour())
	assert.False(t, ts.Floating)

	require.NoError(t, json.Unmarshal([]byte(`"2026-10-17"`), &ts))
	assert.Equal(t, 17, ts.Day())
	assert.True(t, ts.Floating)
}

func TestTimestampWithoutOffsetKeepsWallClock(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-09T23:30:00"`), &ts))
	assert.True(t, ts.Floating)
	assert.Equal(t, 9, ts.Day())
	assert.Equal(t, 23, ts.Hour())

	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-09T23:30:00"`, string(b))

	require.NoError(t, json.Unmarshal([]byte(`"2024-05-09"`), &ts))
	b, err = json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-09"`, string(b))
}
