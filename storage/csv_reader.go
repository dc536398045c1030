package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"netflix-dashboard/models"
	"netflix-dashboard/utils"
)

// CSVReader loads titles from a delimited text file with a header row.
type CSVReader struct {
	path   string
	logger *utils.Logger
}

// NewCSVReader creates a reader for the file at path. Nothing is opened
// until Load is called.
func NewCSVReader(path string, logger *utils.Logger) *CSVReader {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &CSVReader{path: path, logger: logger}
}

// LoadCSV reads the file at path into a table.
func LoadCSV(path string) (*models.LoadResult, error) {
	return NewCSVReader(path, nil).Load(context.Background())
}

// Load opens the file and reads every row. Rows that cannot be coerced are
// skipped and counted in the result, one per source line they covered.
func (c *CSVReader) Load(ctx context.Context) (*models.LoadResult, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", ErrDataUnavailable, c.path, err)
	}
	defer f.Close()

	result, err := ReadTitles(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("csv %q: %w", c.path, err)
	}

	if result.Skipped > 0 {
		c.logger.Warn("[loader] Skipped %d unparseable row(s) in %s", result.Skipped, c.path)
	}
	c.logger.Info("[loader] Loaded %d titles from %s", len(result.Titles), c.path)
	return result, nil
}

// Close is a no-op; the file is closed at the end of every Load.
func (c *CSVReader) Close() error {
	return nil
}

// ReadTitles parses CSV content from r. The first row must be a header
// naming every column in RequiredColumns, in any order.
func ReadTitles(ctx context.Context, r io.Reader) (*models.LoadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", ErrSchemaMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrDataUnavailable, err)
	}

	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}
	width := idx.width()

	result := &models.LoadResult{Titles: make(models.Table, 0, 1024)}
	for line := 0; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				result.Skipped += max(pe.Line-pe.StartLine+1, 1)
				continue
			}
			return nil, fmt.Errorf("%w: read row: %w", ErrDataUnavailable, err)
		}

		if len(fields) < width {
			result.Skipped += recordSpan(fields)
			continue
		}

		title, err := buildTitle(idx.row(fields))
		if err != nil {
			result.Skipped += recordSpan(fields)
			continue
		}
		result.Titles = append(result.Titles, title)
	}

	return result, nil
}

// recordSpan counts the source lines a rejected record covered. An
// unterminated quote makes the reader fold every following line into one
// field, and each of those lines was meant to be its own row.
func recordSpan(fields []string) int {
	n := 1
	for _, f := range fields {
		n += strings.Count(f, "\n")
	}
	if len(fields) > 0 && strings.HasSuffix(fields[len(fields)-1], "\n") {
		n--
	}
	return max(n, 1)
}
