package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultTemperature is used when the caller omits the field or sends
// something that cannot be parsed as a number.
const DefaultTemperature = 0.35

// ChatRequest is the wire format of POST /chat. Field names match the
// original frontend contract and are kept localized.
type ChatRequest struct {
	Message     string      `json:"mesaj"`
	History     [][]string  `json:"gecmis"`
	Temperature Temperature `json:"temperature"`
}

// ChatResponse is the single-field body returned for every /chat outcome.
type ChatResponse struct {
	Answer string `json:"cevap"`
}

// Turn is one (user, model) exchange of the caller-supplied history.
type Turn struct {
	User  string
	Model string
}

// Turns rebuilds the model-facing history from the raw [user, bot] pairs.
// Pairs where either side is empty are silently dropped; order is preserved.
func (r *ChatRequest) Turns() []Turn {
	var turns []Turn
	for _, pair := range r.History {
		if len(pair) < 2 {
			continue
		}
		if pair[0] == "" || pair[1] == "" {
			continue
		}
		turns = append(turns, Turn{User: pair[0], Model: pair[1]})
	}
	return turns
}

// Temperature tolerates whatever the frontend sends: a JSON number, a
// numeric string, or garbage. Invalid input never rejects the request; it
// degrades to DefaultTemperature when clamped.
type Temperature struct {
	value float64
	valid bool
}

func (t *Temperature) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.valid = false
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		t.value, t.valid = f, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			t.value, t.valid = f, true
			return nil
		}
	}
	t.valid = false
	return nil
}

// Clamp maps the value into [0, 1], falling back to the default for
// absent or unparseable input.
func (t Temperature) Clamp() float32 {
	if !t.valid {
		return DefaultTemperature
	}
	v := t.value
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return float32(v)
}
