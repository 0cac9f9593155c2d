package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_Decode(t *testing.T) {
	cases := map[string]Quantity{
		`{"stock": 5}`:      5,
		`{"stock": "7"}`:    7,
		`{"stock": "12ab"}`: 12,
		`{"stock": "abc"}`:  0,
		`{"stock": ""}`:     0,
		`{"stock": null}`:   0,
		`{}`:                0,
		`{"stock": "-3"}`:   0,
		`{"stock": -4}`:     0,

		`{"stock": "99999999999999999999999"}`: MaxQuantity,
		`{"stock": 1e300}`:                     MaxQuantity,
	}
	for in, want := range cases {
		var m Medication
		require.NoError(t, json.Unmarshal([]byte(in), &m), in)
		assert.Equal(t, want, m.Stock, in)
	}
}

func TestQuantity_AddSaturates(t *testing.T) {
	assert.Equal(t, Quantity(8), Quantity(5).Add(3))
	assert.Equal(t, Quantity(5), Quantity(5).Add(-3))
	assert.Equal(t, MaxQuantity, MaxQuantity.Add(5))
	assert.Equal(t, MaxQuantity, (MaxQuantity - 1).Add(2))
}

func TestNewID(t *testing.T) {
	a, b := NewID(PrefixPatient), NewID(PrefixPatient)
	assert.True(t, strings.HasPrefix(a, "p_"))
	assert.NotEqual(t, a, b)
}

func TestPatient_Collides(t *testing.T) {
	p := Patient{Name: "Sara Ali", Phone: "0555"}
	assert.True(t, p.Collides(Patient{Name: "sara ali", Phone: "0666"}))
	assert.True(t, p.Collides(Patient{Name: "Other", Phone: "0555"}))
	assert.False(t, p.Collides(Patient{Name: "Other", Phone: "0666"}))
}

func TestPatient_Matches(t *testing.T) {
	p := Patient{Name: "Sara Ali", Phone: "0555123"}
	assert.True(t, p.Matches("sara"))
	assert.True(t, p.Matches("5512"))
	assert.False(t, p.Matches("omar"))
}

func TestParseDateTime(t *testing.T) {
	loc := time.FixedZone("AST", 3*3600)
	got, err := ParseDateTime("2025-01-05T10:30", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 5, 10, 30, 0, 0, loc), got)

	got, err = ParseDateTime("2025-01-05T10:30:00Z", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 1, 5, 10, 30, 0, 0, time.UTC)))

	_, err = ParseDateTime("tomorrow", loc)
	assert.Error(t, err)
}
