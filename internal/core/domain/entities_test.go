package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHours_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain number", `12.5`, 12.5},
		{"integer", `40`, 40},
		{"quoted number", `"12.5"`, 12.5},
		{"quoted with spaces", `" 8 "`, 8},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
		{"garbage", `"abc"`, 0},
		{"negative zeroed", `-3`, 0},
		{"negative string zeroed", `"-3"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h Hours
			err := json.Unmarshal([]byte(tt.input), &h)
			require.NoError(t, err, "hour parsing never fails a request")
			assert.Equal(t, tt.want, float64(h))
		})
	}
}

func TestHours_MarshalJSON(t *testing.T) {
	payload, err := json.Marshal(Hours(12.5))
	require.NoError(t, err)
	assert.Equal(t, "12.5", string(payload))
}
