// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"encoding/json"
	"fmt"
)

// Attributes models the open JSON objects attached to listings
// (`constraints`) and requests (`dates`). Known keys are typed; anything
// else is kept verbatim in Extra so it survives a round trip.
type Attributes struct {
	Lang  string
	Geo   []string
	From  string
	To    string
	Extra map[string]json.RawMessage
}

var knownAttributeKeys = map[string]bool{"lang": true, "geo": true, "from": true, "to": true}

// Empty reports whether no key would be emitted.
func (a *Attributes) Empty() bool {
	return a == nil || (a.Lang == "" && len(a.Geo) == 0 && a.From == "" && a.To == "" && len(a.Extra) == 0)
}

func (a Attributes) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+4)
	for k, v := range a.Extra {
		if !knownAttributeKeys[k] {
			out[k] = v
		}
	}
	if a.Lang != "" {
		out["lang"] = a.Lang
	}
	if len(a.Geo) > 0 {
		out["geo"] = a.Geo
	}
	if a.From != "" {
		out["from"] = a.From
	}
	if a.To != "" {
		out["to"] = a.To
	}
	return json.Marshal(out)
}

func (a *Attributes) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("attributes must be a JSON object: %w", err)
	}

	*a = Attributes{}
	for k, v := range raw {
		var err error
		switch k {
		case "lang":
			err = unmarshalOptional(v, &a.Lang)
		case "geo":
			err = unmarshalOptional(v, &a.Geo)
		case "from":
			err = unmarshalOptional(v, &a.From)
		case "to":
			err = unmarshalOptional(v, &a.To)
		default:
			if a.Extra == nil {
				a.Extra = make(map[string]json.RawMessage)
			}
			a.Extra[k] = v
		}
		if err != nil {
			return fmt.Errorf("attribute %q: %w", k, err)
		}
	}
	return nil
}

func unmarshalOptional(data json.RawMessage, v any) error {
	if string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, v)
}
