package models

import (
	"encoding/json"
	"strings"
)

// Tags is the canonical list form of a post's tag field.
type Tags []string

// ParseTags splits a comma-separated string, trims every segment and drops
// empty ones. The result is never nil.
func ParseTags(s string) Tags {
	out := Tags{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// String joins the tags for display and form pre-filling.
func (t Tags) String() string {
	return strings.Join(t, ", ")
}

// UnmarshalJSON accepts a list of strings, a single string or a
// comma-joined string, and null. Every element goes through ParseTags so
// "a,b" inside a list still yields two tags.
func (t *Tags) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	out := Tags{}
	switch value := v.(type) {
	case string:
		out = ParseTags(value)
	case []any:
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, ParseTags(s)...)
			}
		}
	}
	*t = out
	return nil
}

func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
