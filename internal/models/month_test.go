package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthAdd(t *testing.T) {
	tests := []struct {
		name     string
		start    Month
		n        int
		expected Month
	}{
		{"same year", Month{2024, time.March}, 2, Month{2024, time.May}},
		{"year rollover", Month{2024, time.November}, 3, Month{2025, time.February}},
		{"multiple years", Month{2024, time.January}, 25, Month{2026, time.February}},
		{"backwards", Month{2024, time.February}, -3, Month{2023, time.November}},
		{"zero", Month{2024, time.June}, 0, Month{2024, time.June}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.start.Add(tc.n))
		})
	}
}

func TestMonthSub(t *testing.T) {
	a := Month{2025, time.February}
	b := Month{2024, time.November}
	assert.Equal(t, 3, a.Sub(b))
	assert.Equal(t, -3, b.Sub(a))
	assert.Equal(t, 0, a.Sub(a))
}

func TestMonthBefore(t *testing.T) {
	assert.True(t, Month{2024, time.December}.Before(Month{2025, time.January}))
	assert.False(t, Month{2025, time.January}.Before(Month{2024, time.December}))
	assert.False(t, Month{2024, time.June}.Before(Month{2024, time.June}))
}

func TestMonthSeasonal(t *testing.T) {
	// December and the wrap into January must land close together on the
	// cycle, unlike their raw ordinals.
	dsin, dcos := Month{2024, time.December}.Seasonal()
	jsin, jcos := Month{2025, time.January}.Seasonal()
	dist := math.Hypot(dsin-jsin, dcos-jcos)
	assert.Less(t, dist, 0.6)

	// June (month 6) sits at angle pi.
	sin, cos := Month{2024, time.June}.Seasonal()
	assert.InDelta(t, 0.0, sin, 1e-9)
	assert.InDelta(t, -1.0, cos, 1e-9)
}

func TestMonthString(t *testing.T) {
	assert.Equal(t, "2024-03", Month{2024, time.March}.String())
	assert.Equal(t, "2024-12", Month{2024, time.December}.String())
}

func TestMonthOf(t *testing.T) {
	m := MonthOf(time.Date(2024, 7, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, Month{2024, time.July}, m)
}
