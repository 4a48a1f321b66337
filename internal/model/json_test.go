package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMapRoundTrip(t *testing.T) {
	m := JSONMap{"salary": "85000", "status": "active"}

	value, err := m.Value()
	require.NoError(t, err)

	var got JSONMap
	require.NoError(t, got.Scan(value))
	assert.Equal(t, m, got)
}

func TestJSONMapNil(t *testing.T) {
	var m JSONMap
	value, err := m.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	var got JSONMap
	require.NoError(t, got.Scan(nil))
	assert.Nil(t, got)
}

func TestJSONMapScanString(t *testing.T) {
	// Some drivers hand JSON columns back as strings.
	var got JSONMap
	require.NoError(t, got.Scan(`{"min":3}`))
	assert.Equal(t, float64(3), got["min"])

	assert.Error(t, got.Scan(42))
}

func TestStringListRoundTrip(t *testing.T) {
	l := StringList{"Engineering", "Sales"}

	value, err := l.Value()
	require.NoError(t, err)

	var got StringList
	require.NoError(t, got.Scan(value))
	assert.Equal(t, l, got)
}

func TestFullAddressSkipsEmptySecondLine(t *testing.T) {
	e := Employee{
		AddressLine1: "1 Main St",
		City:         "Springfield",
		State:        "IL",
		PostalCode:   "62701",
		Country:      "United States",
	}
	assert.Equal(t, "1 Main St, Springfield, IL, 62701, United States", e.FullAddress())

	suite := "Suite 4"
	e.AddressLine2 = &suite
	assert.Equal(t, "1 Main St, Suite 4, Springfield, IL, 62701, United States", e.FullAddress())
}
