package insulin

import "fmt"

// Table bounds in mg/dL that every correction table must cover
const (
	TableFloor   = 0
	TableCeiling = 999
)

// StandardCorrectionTable is used for the first and the other meals of the day.
// Adjacent rows sometimes share a boundary value (70); the lower row owns it.
var StandardCorrectionTable = CorrectionTable{
	{Min: 0, Max: 70, Correction: -0.5},
	{Min: 70, Max: 100, Correction: -0.5},
	{Min: 101, Max: 120, Correction: 0},
	{Min: 121, Max: 138, Correction: 0.5},
	{Min: 139, Max: 155, Correction: 1},
	{Min: 156, Max: 173, Correction: 1.5},
	{Min: 174, Max: 190, Correction: 2},
	{Min: 191, Max: 208, Correction: 2.5},
	{Min: 209, Max: 225, Correction: 3},
	{Min: 226, Max: 243, Correction: 3.5},
	{Min: 244, Max: 260, Correction: 4},
	{Min: 261, Max: 278, Correction: 4.5},
	{Min: 279, Max: 295, Correction: 5},
	{Min: 296, Max: 313, Correction: 5.5},
	{Min: 314, Max: 330, Correction: 6},
	{Min: 331, Max: 348, Correction: 6.5},
	{Min: 349, Max: 365, Correction: 7},
	{Min: 366, Max: 383, Correction: 7.5},
	{Min: 384, Max: 400, Correction: 8},
	{Min: 401, Max: 999, Correction: 8.5},
}

// BedtimeCorrectionTable is the conservative overnight table: a wider
// no-correction band and smaller steps above it.
var BedtimeCorrectionTable = CorrectionTable{
	{Min: 0, Max: 70, Correction: -0.5},
	{Min: 70, Max: 100, Correction: -0.5},
	{Min: 101, Max: 150, Correction: 0},
	{Min: 151, Max: 175, Correction: 0.5},
	{Min: 176, Max: 200, Correction: 1},
	{Min: 201, Max: 225, Correction: 1.5},
	{Min: 226, Max: 250, Correction: 2},
	{Min: 251, Max: 275, Correction: 2.5},
	{Min: 276, Max: 300, Correction: 3},
	{Min: 301, Max: 325, Correction: 3.5},
	{Min: 326, Max: 350, Correction: 4},
	{Min: 351, Max: 375, Correction: 4.5},
	{Min: 376, Max: 400, Correction: 5},
	{Min: 401, Max: 999, Correction: 5.5},
}

// Lookup returns the first row containing bgMgdl
func (t CorrectionTable) Lookup(bgMgdl float64) (CorrectionRange, bool) {
	for _, r := range t {
		if r.Contains(bgMgdl) {
			return r, true
		}
	}
	return CorrectionRange{}, false
}

// CheckCoverage verifies that every integer value in [lo, hi] is matched by
// some row, that rows are declared in ascending order, and that corrections
// never decrease as the ranges go up.
func (t CorrectionTable) CheckCoverage(lo, hi int) error {
	if len(t) == 0 {
		return fmt.Errorf("correction table is empty")
	}

	for i, r := range t {
		if r.Min > r.Max {
			return fmt.Errorf("row %d: min %d is greater than max %d", i, r.Min, r.Max)
		}
		if i == 0 {
			continue
		}
		prev := t[i-1]
		if r.Min > prev.Max+1 {
			return fmt.Errorf("gap between %d and %d mg/dL", prev.Max, r.Min)
		}
		if r.Min < prev.Min || r.Max <= prev.Max {
			return fmt.Errorf("row %d (%d to %d) is out of order", i, r.Min, r.Max)
		}
		if r.Correction < prev.Correction {
			return fmt.Errorf("row %d: correction %v is lower than previous %v", i, r.Correction, prev.Correction)
		}
	}

	if t[0].Min > lo {
		return fmt.Errorf("table starts at %d mg/dL, expected %d", t[0].Min, lo)
	}
	if last := t[len(t)-1]; last.Max < hi {
		return fmt.Errorf("table ends at %d mg/dL, expected %d", last.Max, hi)
	}

	return nil
}
