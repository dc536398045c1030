package services

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"netflix-dashboard/models"
	"netflix-dashboard/utils"
)

// fallbackLayouts catch renderings dateparse rejects, mostly day-first
// text dates with a time of day.
var fallbackLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 January 2006 15:04",
	"2 Jan 2006 15:04",
	"2006-01-02 15:04",
}

// ParseDate parses a date_added value on a best-effort basis. Unparseable
// or empty text reports false. Values without a zone are read as UTC.
func ParseDate(raw string) (time.Time, bool) {
	s := normaliseText(raw)
	if s == "" {
		return time.Time{}, false
	}
	s = strings.Replace(s, "Sept ", "Sep ", 1)

	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t, true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MainGenre returns the first category label, trimmed, or "" when there is none.
func MainGenre(listedIn []string) string {
	if len(listedIn) == 0 {
		return ""
	}
	return strings.TrimSpace(listedIn[0])
}

// Enrich returns a new table whose titles carry DateAdded, YearAdded and
// MainGenre. The input table and its titles are left untouched.
func Enrich(table models.Table) models.Table {
	out, _ := enrich(table)
	return out
}

func enrich(table models.Table) (models.Table, int) {
	out := make(models.Table, len(table))
	unparsed := 0

	for i, t := range table {
		c := *t
		c.ListedIn = slices.Clone(t.ListedIn)
		c.DateAdded = nil
		c.YearAdded = 0

		if d, ok := ParseDate(t.DateAddedRaw); ok {
			c.DateAdded = &d
			c.YearAdded = d.Year()
		} else if strings.TrimSpace(t.DateAddedRaw) != "" {
			unparsed++
		}
		c.MainGenre = MainGenre(t.ListedIn)

		out[i] = &c
	}
	return out, unparsed
}

// Enricher wraps Enrich with logging.
type Enricher struct {
	logger *utils.Logger
}

// NewEnricher creates an Enricher with the given logger.
func NewEnricher(logger *utils.Logger) *Enricher {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Enricher{logger: logger}
}

func (e *Enricher) Enrich(table models.Table) models.Table {
	out, unparsed := enrich(table)
	if unparsed > 0 {
		e.logger.Debug("[enricher] %d date_added value(s) could not be parsed", unparsed)
	}
	e.logger.Info("[enricher] Enriched %d titles", len(out))
	return out
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
