package services

import (
	"testing"
	"time"

	"netflix-dashboard/models"
	"netflix-dashboard/utils"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"September 25, 2021", "2021-09-25", true},
		{" August 4, 2017", "2017-08-04", true},
		{"Sep 9,  2019", "2019-09-09", true},
		{"2020-01-15", "2020-01-15", true},
		{"12/31/2018", "2018-12-31", true},
		{"2016-05-01T10:00:00Z", "2016-05-01", true},
		{"2021-09-25 10:00", "2021-09-25", true},
		{"Sept 25, 2021", "2021-09-25", true},
		{"25 September 2021 10:00", "2021-09-25", true},
		{"25 September 2021", "2021-09-25", true},
		{"", "", false},
		{"   ", "", false},
		{"soon", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.raw)
		if ok != tt.wantOK {
			t.Errorf("ParseDate(%q) ok = %v; want %v", tt.raw, ok, tt.wantOK)
			continue
		}
		if ok && got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDate(%q) = %s; want %s", tt.raw, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestMainGenre(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{" Drama ", "Action"}, "Drama"},
		{[]string{"Comedy"}, "Comedy"},
		{nil, ""},
		{[]string{"", "Action"}, ""},
	}

	for _, tt := range tests {
		if got := MainGenre(tt.in); got != tt.want {
			t.Errorf("MainGenre(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnrichDerivesFields(t *testing.T) {
	table := Enrich(models.Table{
		newTestTitle(models.Movie, "US", "September 25, 2021", " Drama ,Action", "PG", 2020),
	})

	got := table[0]
	if got.YearAdded != 2021 {
		t.Errorf("YearAdded: got %d, want 2021", got.YearAdded)
	}
	if got.DateAdded == nil || !got.DateAdded.Equal(time.Date(2021, 9, 25, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DateAdded: got %v", got.DateAdded)
	}
	if got.MainGenre != "Drama" {
		t.Errorf("MainGenre: got %q, want %q", got.MainGenre, "Drama")
	}
}

func TestEnrichEmptyDateHasNoYear(t *testing.T) {
	table := Enrich(models.Table{newTestTitle(models.Movie, "US", "", "Drama", "PG", 2020)})

	if table[0].HasYearAdded() || table[0].DateAdded != nil {
		t.Errorf("empty date_added should leave year_added null, got %+v", table[0])
	}
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	orig := newTestTitle(models.Movie, "US", "January 1, 2020", "Drama", "PG", 2019)
	input := models.Table{orig}

	out := Enrich(input)
	if out[0] == orig {
		t.Fatal("Enrich should return new titles")
	}
	if orig.YearAdded != 0 || orig.MainGenre != "" || orig.DateAdded != nil {
		t.Errorf("input title was mutated: %+v", orig)
	}

	out[0].ListedIn[0] = "Changed"
	if orig.ListedIn[0] != "Drama" {
		t.Error("output shares ListedIn storage with input")
	}
}

func TestEnrichIsDeterministic(t *testing.T) {
	input := models.Table{newTestTitle(models.TVShow, "UK", "May 2, 2019", "Crime, Drama", "TV-14", 2018)}

	a, b := Enrich(input), Enrich(input)
	if a[0].YearAdded != b[0].YearAdded || a[0].MainGenre != b[0].MainGenre || !a[0].DateAdded.Equal(*b[0].DateAdded) {
		t.Errorf("Enrich is not deterministic: %+v vs %+v", a[0], b[0])
	}
}

func TestEnricherMethodMatchesFunction(t *testing.T) {
	input := models.Table{newTestTitle(models.Movie, "US", "bad date", "Drama", "PG", 2019)}
	out := NewEnricher(utils.NewNopLogger()).Enrich(input)
	if len(out) != 1 || out[0].HasYearAdded() || out[0].MainGenre != "Drama" {
		t.Errorf("Enricher.Enrich: got %+v", out[0])
	}
}
