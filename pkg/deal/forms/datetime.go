// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package forms

import (
	"strings"
	"time"
)

// LocalInputLayout is the datetime-local picker representation.
const LocalInputLayout = "2006-01-02T15:04"

// ToLocalInput renders t in loc at minute precision.
func ToLocalInput(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(LocalInputLayout)
}

// ISOToLocalInput converts a backend timestamp to picker form. It returns ""
// for empty or unparsable input.
func ISOToLocalInput(iso string, loc *time.Location) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", LocalInputLayout} {
		if t, err := time.Parse(layout, iso); err == nil {
			return ToLocalInput(t, loc)
		}
	}
	return ""
}

// LocalInputToISO interprets a picker value in loc and returns it as a UTC
// RFC 3339 timestamp. ok is false for empty or unparsable input.
func LocalInputToISO(value string, loc *time.Location) (iso string, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	t, err := time.ParseInLocation(LocalInputLayout, value, loc)
	if err != nil {
		// Pickers may include seconds.
		t, err = time.ParseInLocation("2006-01-02T15:04:05", value, loc)
		if err != nil {
			return "", false
		}
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z"), true
}
