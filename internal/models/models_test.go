package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperatureClamp(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float32
	}{
		{"below range", `{"temperature": -1}`, 0.0},
		{"non-numeric string", `{"temperature": "abc"}`, 0.35},
		{"in range", `{"temperature": 0.5}`, 0.5},
		{"above range", `{"temperature": 2}`, 1.0},
		{"numeric string", `{"temperature": "0.7"}`, 0.7},
		{"absent", `{}`, 0.35},
		{"null", `{"temperature": null}`, 0.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ChatRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.InDelta(t, tt.want, req.Temperature.Clamp(), 1e-6)
		})
	}
}

func TestTurnsDropsIncompletePairs(t *testing.T) {
	body := `{"mesaj":"soru","gecmis":[["hi","hello"],["","ignored"],["bye","goodbye"]]}`
	var req ChatRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	turns := req.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, Turn{User: "hi", Model: "hello"}, turns[0])
	assert.Equal(t, Turn{User: "bye", Model: "goodbye"}, turns[1])
}

func TestTurnsEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		history [][]string
		want    int
	}{
		{"nil history", nil, 0},
		{"empty pair", [][]string{{}}, 0},
		{"single element pair", [][]string{{"only-user"}}, 0},
		{"bot side empty", [][]string{{"u", ""}}, 0},
		{"all complete", [][]string{{"a", "b"}, {"c", "d"}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ChatRequest{History: tt.history}
			assert.Len(t, req.Turns(), tt.want)
		})
	}
}
