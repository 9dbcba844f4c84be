// Package envelope unwraps the content API's inconsistent response shapes.
//
// The same payload may arrive bare, under "data", under "DATA" or under a
// resource-specific key. Instead of ad hoc conditionals each call site
// lists the extraction strategies it accepts, in order, and the first one
// that yields something decodable wins.
package envelope

import (
	"bytes"
	"encoding/json"
)

// Strategy locates a candidate payload inside a response document.
type Strategy struct {
	Name    string
	Extract func(doc []byte) (json.RawMessage, bool)
}

// Self yields the whole document.
func Self() Strategy {
	return Strategy{
		Name: "self",
		Extract: func(doc []byte) (json.RawMessage, bool) {
			doc = bytes.TrimSpace(doc)
			if len(doc) == 0 || bytes.Equal(doc, []byte("null")) {
				return nil, false
			}
			return doc, true
		},
	}
}

// Field yields the value at the given object path, e.g. Field("data", "user").
// Missing keys, non-object parents and null values do not match.
func Field(path ...string) Strategy {
	name := "self"
	if len(path) > 0 {
		name = path[0]
		for _, p := range path[1:] {
			name += "." + p
		}
	}

	return Strategy{
		Name: name,
		Extract: func(doc []byte) (json.RawMessage, bool) {
			cur := json.RawMessage(doc)
			for _, key := range path {
				var obj map[string]json.RawMessage
				if err := json.Unmarshal(cur, &obj); err != nil {
					return nil, false
				}
				next, ok := obj[key]
				if !ok {
					return nil, false
				}
				cur = next
			}
			return Self().Extract(cur)
		},
	}
}

// ListStrategies is the fixed precedence for list responses: bare array,
// then "data", then "DATA", then the resource key ("posts", "users").
func ListStrategies(resourceKey string) []Strategy {
	return []Strategy{Self(), Field("data"), Field("DATA"), Field(resourceKey)}
}

// Decode tries each strategy in order and returns the first candidate that
// unmarshals into T.
func Decode[T any](doc []byte, strategies ...Strategy) (T, bool) {
	for _, s := range strategies {
		raw, ok := s.Extract(doc)
		if !ok {
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// List decodes a list response using ListStrategies(resourceKey). A
// document matching no strategy yields an empty, non-nil slice; shape
// mismatches are never reported as errors.
func List[T any](doc []byte, resourceKey string) []T {
	items, ok := Decode[[]T](doc, ListStrategies(resourceKey)...)
	if !ok || items == nil {
		return []T{}
	}
	return items
}
