package services

import (
	"bytes"
	"strings"
	"testing"

	"netflix-dashboard/models"
	"netflix-dashboard/utils"
)

func newTestDashboardService() *DashboardService {
	return NewDashboardService(utils.NewNopLogger(), DefaultTopK)
}

func TestBuildScenario(t *testing.T) {
	d := newTestDashboardService().Build(scenarioTable(), models.YearRange{From: 2019, To: 2021})

	if d.Metrics != (models.Metrics{Total: 1, Movies: 0, TVShows: 1}) {
		t.Errorf("Metrics: got %+v", d.Metrics)
	}
	if len(d.Types) != 1 || d.Types[0].Key != models.TVShow {
		t.Errorf("Types: got %+v", d.Types)
	}
	if len(d.ReleaseYears) != 1 || d.ReleaseYears[0].Key != 2019 {
		t.Errorf("ReleaseYears: got %+v", d.ReleaseYears)
	}
}

func TestBuildTrendIgnoresSelectedRange(t *testing.T) {
	base := sampleTable()
	d := newTestDashboardService().Build(base, models.YearRange{From: 2021, To: 2021})

	total := 0
	for _, b := range d.YearlyTrend {
		total += b.Count
	}
	if total != 6 {
		t.Errorf("YearlyTrend should cover every dated title: got %d, want 6", total)
	}
	if d.Metrics.Total != 3 {
		t.Errorf("Metrics.Total should follow the range: got %d, want 3", d.Metrics.Total)
	}
}

func TestBuildNormalizesRangeAndBounds(t *testing.T) {
	d := newTestDashboardService().Build(sampleTable(), models.YearRange{From: 2021, To: 2016})

	if d.Range != (models.YearRange{From: 2016, To: 2021}) {
		t.Errorf("Range: got %+v", d.Range)
	}
	if d.Bounds == nil || *d.Bounds != (models.YearRange{From: 2016, To: 2021}) {
		t.Errorf("Bounds: got %+v", d.Bounds)
	}
}

func TestBuildMetricsMatchTypeChart(t *testing.T) {
	d := newTestDashboardService().Build(sampleTable(), models.YearRange{From: 2000, To: 2030})

	for _, b := range d.Types {
		switch b.Key {
		case models.Movie:
			if b.Count != d.Metrics.Movies {
				t.Errorf("movie slice %d != metric %d", b.Count, d.Metrics.Movies)
			}
		case models.TVShow:
			if b.Count != d.Metrics.TVShows {
				t.Errorf("tv slice %d != metric %d", b.Count, d.Metrics.TVShows)
			}
		}
	}
}

func TestNewDashboardServiceDefaultsTopK(t *testing.T) {
	s := NewDashboardService(utils.NewNopLogger(), 0)
	if s.topK != DefaultTopK {
		t.Errorf("topK: got %d, want %d", s.topK, DefaultTopK)
	}
}

func TestNilLoggerDefaultsToNop(t *testing.T) {
	d := NewDashboardService(nil, DefaultTopK).Build(scenarioTable(), models.YearRange{From: 2019, To: 2021})
	if d.Metrics.Total != 1 {
		t.Errorf("Metrics.Total: got %d, want 1", d.Metrics.Total)
	}

	out := NewEnricher(nil).Enrich(models.Table{newTestTitle(models.Movie, "US", "May 2, 2019", "Drama", "PG", 2018)})
	if len(out) != 1 || out[0].YearAdded != 2019 {
		t.Errorf("Enricher with nil logger: got %+v", out)
	}
}

func TestPrint(t *testing.T) {
	s := newTestDashboardService()
	d := s.Build(sampleTable(), models.YearRange{From: 2015, To: 2021})

	var buf bytes.Buffer
	s.Print(&buf, d)
	out := buf.String()

	for _, want := range []string{"2015-2021", "Top 10 Countries", "United States", "Dramas", "TV-MA", "Release Years"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print output missing %q", want)
		}
	}
}

func TestPrintEmpty(t *testing.T) {
	s := newTestDashboardService()
	var buf bytes.Buffer
	s.Print(&buf, s.Build(nil, models.YearRange{From: 2015, To: 2021}))
	if !strings.Contains(buf.String(), "No data") {
		t.Error("empty dashboard should print placeholders")
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		count, peak int
		want        int
	}{
		{10, 10, barWidth},
		{1, 1000, 1},
		{0, 10, 0},
		{5, 10, barWidth / 2},
	}
	for _, tt := range tests {
		if got := strings.Count(bar(tt.count, tt.peak), "█"); got != tt.want {
			t.Errorf("bar(%d, %d) = %d blocks; want %d", tt.count, tt.peak, got, tt.want)
		}
	}
}
