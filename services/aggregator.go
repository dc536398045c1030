package services

import (
	"cmp"
	"slices"

	"netflix-dashboard/models"
)

// DefaultTopK is the number of entries kept by the top-N aggregates.
const DefaultTopK = 10

// groupCount counts titles per key, keeping keys in first-encountered
// order. Titles for which key reports false are left out.
func groupCount[K comparable](table models.Table, key func(*models.Title) (K, bool)) []models.Bucket[K] {
	pos := make(map[K]int)
	out := make([]models.Bucket[K], 0)

	for _, t := range table {
		k, ok := key(t)
		if !ok {
			continue
		}
		if i, seen := pos[k]; seen {
			out[i].Count++
			continue
		}
		pos[k] = len(out)
		out = append(out, models.Bucket[K]{Key: k, Count: 1})
	}
	return out
}

// byCountDesc orders buckets by count, highest first. Equal counts keep
// their first-encountered order.
func byCountDesc[K comparable](buckets []models.Bucket[K]) []models.Bucket[K] {
	slices.SortStableFunc(buckets, func(a, b models.Bucket[K]) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return buckets
}

func topK[K comparable](buckets []models.Bucket[K], k int) []models.Bucket[K] {
	buckets = byCountDesc(buckets)
	if k < 0 {
		k = 0
	}
	if len(buckets) > k {
		buckets = buckets[:k]
	}
	return buckets
}

func byYearAsc(buckets []models.Bucket[int]) []models.Bucket[int] {
	slices.SortFunc(buckets, func(a, b models.Bucket[int]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return buckets
}

func nonEmpty(s string) (string, bool) {
	return s, s != ""
}

// CountByType counts titles per kind, highest first. Both the headline
// metrics and the type chart read from this result.
func CountByType(table models.Table) []models.Bucket[models.TitleType] {
	return byCountDesc(groupCount(table, func(t *models.Title) (models.TitleType, bool) {
		return t.Type, t.Type != ""
	}))
}

// CountByYearAdded counts titles per year_added, oldest first. Callers
// pass the full catalogue so the trend shows the complete history
// regardless of the selected range.
func CountByYearAdded(table models.Table) []models.Bucket[int] {
	return byYearAsc(groupCount(table, func(t *models.Title) (int, bool) {
		return t.YearAdded, t.HasYearAdded()
	}))
}

// TopCountries returns at most k countries by title count.
func TopCountries(table models.Table, k int) []models.Bucket[string] {
	return topK(groupCount(table, func(t *models.Title) (string, bool) {
		return nonEmpty(t.Country)
	}), k)
}

// TopGenres returns at most k main genres by title count.
func TopGenres(table models.Table, k int) []models.Bucket[string] {
	return topK(groupCount(table, func(t *models.Title) (string, bool) {
		return nonEmpty(t.MainGenre)
	}), k)
}

// TopRatings returns at most k rating codes by title count.
func TopRatings(table models.Table, k int) []models.Bucket[string] {
	return topK(groupCount(table, func(t *models.Title) (string, bool) {
		return nonEmpty(t.Rating)
	}), k)
}

// ReleaseYearDistribution counts titles per release year, oldest first.
func ReleaseYearDistribution(table models.Table) []models.Bucket[int] {
	return byYearAsc(groupCount(table, func(t *models.Title) (int, bool) {
		return t.ReleaseYear, t.ReleaseYear > 0
	}))
}

// YearBounds returns the earliest and latest year_added in table. It
// reports false when no title has one.
func YearBounds(table models.Table) (models.YearRange, bool) {
	var r models.YearRange
	found := false
	for _, t := range table {
		if !t.HasYearAdded() {
			continue
		}
		if !found {
			r = models.YearRange{From: t.YearAdded, To: t.YearAdded}
			found = true
			continue
		}
		r.From = min(r.From, t.YearAdded)
		r.To = max(r.To, t.YearAdded)
	}
	return r, found
}

// MetricsFor derives the headline numbers for table from its type counts.
func MetricsFor(table models.Table, types []models.Bucket[models.TitleType]) models.Metrics {
	m := models.Metrics{Total: len(table)}
	for _, b := range types {
		switch b.Key {
		case models.Movie:
			m.Movies = b.Count
		case models.TVShow:
			m.TVShows = b.Count
		}
	}
	return m
}
