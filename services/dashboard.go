package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"netflix-dashboard/models"
	"netflix-dashboard/utils"
)

// DashboardService turns the base table and a selected range into the
// data behind every chart. It keeps no state between calls.
type DashboardService struct {
	logger *utils.Logger
	topK   int
}

func NewDashboardService(logger *utils.Logger, topK int) *DashboardService {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &DashboardService{logger: logger, topK: topK}
}

// Build filters base to r and runs every aggregate over the result.
// The yearly trend is the one exception: it is always computed over base.
func (s *DashboardService) Build(base models.Table, r models.YearRange) *models.Dashboard {
	r = r.Normalize()
	filtered := FilterByYear(base, r.From, r.To)
	types := CountByType(filtered)

	d := &models.Dashboard{
		Range:        r,
		Metrics:      MetricsFor(filtered, types),
		Types:        types,
		YearlyTrend:  CountByYearAdded(base),
		TopCountries: TopCountries(filtered, s.topK),
		TopGenres:    TopGenres(filtered, s.topK),
		TopRatings:   TopRatings(filtered, s.topK),
		ReleaseYears: ReleaseYearDistribution(filtered),
	}
	if b, ok := YearBounds(base); ok {
		d.Bounds = &b
	}

	s.logger.Debug("[dashboard] Built view %d-%d: %d of %d titles",
		r.From, r.To, len(filtered), len(base))
	return d
}

const barWidth = 30

// Print writes a text rendering of the dashboard to w.
func (s *DashboardService) Print(w io.Writer, d *models.Dashboard) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;31m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;31m  NETFLIX CONTENT DASHBOARD  (added %d-%d)\033[0m\n", d.Range.From, d.Range.To)
	fmt.Fprintf(w, "\033[1;31m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total titles : \033[1m%s\033[0m\n", humanize.Comma(int64(d.Metrics.Total)))
	fmt.Fprintf(w, "  Movies       : \033[1m%s\033[0m\n", humanize.Comma(int64(d.Metrics.Movies)))
	fmt.Fprintf(w, "  TV shows     : \033[1m%s\033[0m\n", humanize.Comma(int64(d.Metrics.TVShows)))
	if d.Bounds != nil {
		fmt.Fprintf(w, "  Catalogue    : added %d-%d\n", d.Bounds.From, d.Bounds.To)
	}
	fmt.Fprintln(w)

	printBuckets(w, "Content Type", d.Types, thin)
	printBuckets(w, "Titles Added per Year (all years)", d.YearlyTrend, thin)
	printBuckets(w, fmt.Sprintf("Top %d Countries", s.topK), d.TopCountries, thin)
	printBuckets(w, fmt.Sprintf("Top %d Genres", s.topK), d.TopGenres, thin)
	printBuckets(w, fmt.Sprintf("Top %d Ratings", s.topK), d.TopRatings, thin)
	printBuckets(w, "Release Years", d.ReleaseYears, thin)

	fmt.Fprintf(w, "\033[1;31m%s\033[0m\n\n", sep)
}

func printBuckets[K comparable](w io.Writer, heading string, buckets []models.Bucket[K], thin string) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", heading)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(buckets) == 0 {
		fmt.Fprintf(w, "  No data\n\n")
		return
	}

	peak := 0
	for _, b := range buckets {
		peak = max(peak, b.Count)
	}
	for _, b := range buckets {
		label := truncate(fmt.Sprint(b.Key), 28)
		fmt.Fprintf(w, "  %-30s %s (%d)\n", label, bar(b.Count, peak), b.Count)
	}
	fmt.Fprintln(w)
}

// bar scales count against peak to at most barWidth blocks; any non-zero
// count gets at least one.
func bar(count, peak int) string {
	if count <= 0 || peak <= 0 {
		return ""
	}
	n := count * barWidth / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
