package config

import (
	"testing"

	"netflix-dashboard/models"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"DATA_SOURCE", "CSV_INPUT_PATH", "YEAR_FROM", "YEAR_TO", "TOP_K", "SNAPSHOT_RANGES"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.DataSource != SourceCSV {
		t.Errorf("DataSource: got %q, want %q", cfg.DataSource, SourceCSV)
	}
	if cfg.CSVInputPath != "./netflix_titles.csv" {
		t.Errorf("CSVInputPath: got %q", cfg.CSVInputPath)
	}
	if cfg.DefaultRange() != (models.YearRange{From: 2015, To: 2021}) {
		t.Errorf("DefaultRange: got %+v", cfg.DefaultRange())
	}
	if cfg.TopK != 10 {
		t.Errorf("TopK: got %d, want 10", cfg.TopK)
	}
	if len(cfg.SnapshotRanges) != 1 || cfg.SnapshotRanges[0] != (models.YearRange{From: 2015, To: 2021}) {
		t.Errorf("SnapshotRanges: got %+v", cfg.SnapshotRanges)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATA_SOURCE", "Postgres")
	t.Setenv("YEAR_FROM", "2021")
	t.Setenv("YEAR_TO", "2010")
	t.Setenv("TOP_K", "5")
	t.Setenv("MAX_RETRIES", "not-a-number")
	t.Setenv("SNAPSHOT_RANGES", "2010-2012, 2020")

	cfg := FromEnv()
	if cfg.DataSource != SourcePostgres {
		t.Errorf("DataSource: got %q", cfg.DataSource)
	}
	if cfg.DefaultRange() != (models.YearRange{From: 2010, To: 2021}) {
		t.Errorf("DefaultRange should be normalized: got %+v", cfg.DefaultRange())
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK: got %d", cfg.TopK)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("invalid int should fall back: got %d", cfg.MaxRetries)
	}
	want := []models.YearRange{{From: 2010, To: 2012}, {From: 2020, To: 2020}}
	if len(cfg.SnapshotRanges) != 2 || cfg.SnapshotRanges[0] != want[0] || cfg.SnapshotRanges[1] != want[1] {
		t.Errorf("SnapshotRanges: got %+v, want %+v", cfg.SnapshotRanges, want)
	}
}

func TestHTTPAddrCanBeDisabled(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	if addr := FromEnv().HTTPAddr; addr != "" {
		t.Errorf("explicit empty HTTP_ADDR should disable the server, got %q", addr)
	}
}

func TestParseRanges(t *testing.T) {
	tests := []struct {
		in      string
		want    []models.YearRange
		wantErr bool
	}{
		{"2015-2021", []models.YearRange{{From: 2015, To: 2021}}, false},
		{"2021-2015", []models.YearRange{{From: 2015, To: 2021}}, false},
		{"2019, 2016-2017", []models.YearRange{{From: 2019, To: 2019}, {From: 2016, To: 2017}}, false},
		{"abc", nil, true},
		{"2015-x", nil, true},
		{" , ", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseRanges(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRanges(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseRanges(%q) = %+v; want %+v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseRanges(%q)[%d] = %+v; want %+v", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "n", PostgresSSLMode: "require",
	}
	want := "host=db port=5433 user=u password=p dbname=n sslmode=require"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q; want %q", got, want)
	}
}
