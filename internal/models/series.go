package models

// MonthlySeries holds one category's monthly expense totals, reindexed onto
// the contiguous month range spanned by the whole dataset. Months without
// transactions carry a zero total rather than being skipped, so lag features
// never misalign.
type MonthlySeries struct {
	Category string
	Start    Month
	Totals   []float64
	// ObservedMonths counts the distinct calendar months in which the
	// category actually had expense transactions, before zero filling.
	ObservedMonths int
}

// Len returns the number of months in the series.
func (s *MonthlySeries) Len() int {
	return len(s.Totals)
}

// MonthAt returns the calendar month of index i.
func (s *MonthlySeries) MonthAt(i int) Month {
	return s.Start.Add(i)
}

// LastMonth returns the final calendar month of the series.
func (s *MonthlySeries) LastMonth() Month {
	return s.Start.Add(len(s.Totals) - 1)
}

// Tail returns the last n totals, or all of them when fewer exist.
func (s *MonthlySeries) Tail(n int) []float64 {
	if n >= len(s.Totals) {
		return s.Totals
	}
	return s.Totals[len(s.Totals)-n:]
}
