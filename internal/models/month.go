package models

import (
	"fmt"
	"math"
	"time"
)

// Month identifies one calendar month.
type Month struct {
	Year  int        `json:"year" yaml:"year"`
	Month time.Month `json:"month" yaml:"month"`
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// index maps the month onto a continuous scale for arithmetic.
func (m Month) index() int {
	return m.Year*12 + int(m.Month) - 1
}

// Add returns the month n calendar months after m (n may be negative).
func (m Month) Add(n int) Month {
	i := m.index() + n
	return Month{Year: i / 12, Month: time.Month(i%12 + 1)}
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	return m.Add(1)
}

// Sub returns the number of calendar months from other to m.
func (m Month) Sub(other Month) int {
	return m.index() - other.index()
}

// Before reports whether m precedes other.
func (m Month) Before(other Month) bool {
	return m.index() < other.index()
}

// Seasonal returns the cyclic sine/cosine encoding of the calendar month
// number, avoiding the December-to-January discontinuity of a raw ordinal.
func (m Month) Seasonal() (sin, cos float64) {
	angle := 2 * math.Pi * float64(m.Month) / 12
	return math.Sin(angle), math.Cos(angle)
}

// String returns the month in YYYY-MM form.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
