package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabel(t *testing.T) {
	l, ok := ParseLabel("  eMeRgEnCy ")
	assert.True(t, ok)
	assert.Equal(t, LabelEmergency, l)

	l, ok = ParseLabel("moonshot")
	assert.False(t, ok)
	assert.Equal(t, DefaultLabel, l)
}

func TestLabelJSONRoundTrip(t *testing.T) {
	for _, l := range AllLabels {
		b, err := json.Marshal(l)
		require.NoError(t, err)

		var got Label
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, l, got, string(b))
		assert.NotEmpty(t, got.Hint().Color)
	}
}

func TestConfigurationErrorMatchesSentinel(t *testing.T) {
	err := error(UnknownSignal("Nope"))
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), `"Nope"`)

	assert.ErrorIs(t, Unavailable("scrape", errors.New("boom")), ErrSourceUnavailable)
}
