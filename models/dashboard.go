package models

// Bucket is one (key, count) pair of an aggregate, ready for rendering.
type Bucket[K comparable] struct {
	Key   K   `json:"key"`
	Count int `json:"count"`
}

// YearRange is an inclusive range of years.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Normalize returns the range with From <= To.
func (r YearRange) Normalize() YearRange {
	if r.From > r.To {
		return YearRange{From: r.To, To: r.From}
	}
	return r
}

// Contains reports whether year lies within the (normalized) range.
func (r YearRange) Contains(year int) bool {
	n := r.Normalize()
	return year >= n.From && year <= n.To
}

// Metrics are the headline numbers shown above the charts.
type Metrics struct {
	Total   int `json:"total"`
	Movies  int `json:"movies"`
	TVShows int `json:"tv_shows"`
}

// Dashboard holds everything the presenter needs to draw one view.
type Dashboard struct {
	Range        YearRange           `json:"range"`
	Bounds       *YearRange          `json:"bounds,omitempty"`
	Metrics      Metrics             `json:"metrics"`
	Types        []Bucket[TitleType] `json:"types"`
	YearlyTrend  []Bucket[int]       `json:"yearly_trend"`
	TopCountries []Bucket[string]    `json:"top_countries"`
	TopGenres    []Bucket[string]    `json:"top_genres"`
	TopRatings   []Bucket[string]    `json:"top_ratings"`
	ReleaseYears []Bucket[int]       `json:"release_years"`
}
