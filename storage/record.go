package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"netflix-dashboard/models"
)

// RequiredColumns lists the source columns every title source must carry.
var RequiredColumns = []string{"type", "country", "date_added", "listed_in", "rating", "release_year"}

var errBadReleaseYear = errors.New("unparseable release_year")

// columnIndex maps a normalised column name to its position in a row.
type columnIndex map[string]int

// indexHeader resolves the required columns in a header row. Names are
// matched case-insensitively; a leading UTF-8 BOM is ignored.
func indexHeader(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		name := normaliseColumn(h)
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	if missing := missingColumns(idx); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return idx, nil
}

func normaliseColumn(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

func missingColumns(idx columnIndex) []string {
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// width is the minimum row length that covers every required column.
func (idx columnIndex) width() int {
	w := 0
	for _, col := range RequiredColumns {
		if i := idx[col] + 1; i > w {
			w = i
		}
	}
	return w
}

// rawRow is one source row with only the required fields, still as text.
type rawRow struct {
	Type        string
	Country     string
	DateAdded   string
	ListedIn    string
	Rating      string
	ReleaseYear string
}

func (idx columnIndex) row(fields []string) rawRow {
	return rawRow{
		Type:        fields[idx["type"]],
		Country:     fields[idx["country"]],
		DateAdded:   fields[idx["date_added"]],
		ListedIn:    fields[idx["listed_in"]],
		Rating:      fields[idx["rating"]],
		ReleaseYear: fields[idx["release_year"]],
	}
}

// buildTitle coerces a raw row into a Title. Only an unusable
// release_year rejects the row; every other field degrades to absent.
func buildTitle(r rawRow) (*models.Title, error) {
	year, err := parseYear(r.ReleaseYear)
	if err != nil {
		return nil, err
	}
	return &models.Title{
		Type:         models.ParseTitleType(strings.TrimSpace(r.Type)),
		Country:      strings.TrimSpace(r.Country),
		DateAddedRaw: r.DateAdded,
		ListedIn:     SplitLabels(r.ListedIn),
		Rating:       strings.TrimSpace(r.Rating),
		ReleaseYear:  year,
	}, nil
}

// parseYear accepts "2019" as well as the float rendering "2019.0" some
// exporters produce.
func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %q", errBadReleaseYear, raw)
	}
	return int(f), nil
}

// SplitLabels splits a comma-separated category list, trimming each label.
// Position is preserved, so an empty leading label stays "".
func SplitLabels(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
