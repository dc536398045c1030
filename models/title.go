package models

import "time"

// TitleType is the kind of catalogue entry.
type TitleType string

const (
	Movie  TitleType = "Movie"
	TVShow TitleType = "TV Show"
)

// ParseTitleType maps the source text onto a TitleType. Anything other
// than the two known kinds yields "" (unknown).
func ParseTitleType(raw string) TitleType {
	switch TitleType(raw) {
	case Movie:
		return Movie
	case TVShow, "TVShow":
		return TVShow
	}
	return ""
}

// Title is one catalogue entry. Optional text fields use "" for absent,
// YearAdded uses 0 when DateAdded is unknown.
//
// The loader fills the source fields; DateAdded, YearAdded and MainGenre
// are derived by the enricher.
type Title struct {
	Type         TitleType
	Country      string
	DateAddedRaw string
	ListedIn     []string
	Rating       string
	ReleaseYear  int

	DateAdded *time.Time
	YearAdded int
	MainGenre string
}

// HasYearAdded reports whether the title carries a parsed year_added.
func (t *Title) HasYearAdded() bool {
	return t.YearAdded != 0
}

// Table is an ordered sequence of titles in source order. Stages never
// mutate a Table they receive; they build a new one.
type Table []*Title

// LoadResult is what a title source hands back: the table plus how many
// source rows were dropped because they could not be coerced.
type LoadResult struct {
	Titles  Table
	Skipped int
}
