package services

import "netflix-dashboard/models"

// FilterByYear returns the titles whose year_added lies in [lo, hi], in
// their original order. Titles without a year_added are always dropped.
// lo and hi may be given in either order.
func FilterByYear(table models.Table, lo, hi int) models.Table {
	r := models.YearRange{From: lo, To: hi}.Normalize()

	out := make(models.Table, 0, len(table))
	for _, t := range table {
		if t.HasYearAdded() && r.Contains(t.YearAdded) {
			out = append(out, t)
		}
	}
	return out
}
