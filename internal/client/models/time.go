package models

import (
	"encoding/json"
	"time"
)

// Timestamp decodes RFC 3339 strings (with or without fractional seconds)
// and unix milliseconds. Anything else decodes to the zero time rather
// than failing the whole document.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	t.Time = time.Time{}
	switch value := v.(type) {
	case string:
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, value); err == nil {
				t.Time = parsed
				return nil
			}
		}
	case float64:
		t.Time = time.UnixMilli(int64(value)).UTC()
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
