package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"

	"netflix-dashboard/models"
	"netflix-dashboard/utils"
)

var tableNameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresReader loads titles from a PostgreSQL table holding the same
// columns as the CSV export plus a serial "id" giving insertion order.
// It never writes.
type PostgresReader struct {
	db     *sql.DB
	schema string
	table  string
	logger *utils.Logger
}

// NewPostgresReader opens a connection to PostgreSQL and waits for it to
// answer before returning.
func NewPostgresReader(ctx context.Context, dsn, table string, logger *utils.Logger) (*PostgresReader, error) {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	schema, name, err := splitTableName(table)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: postgres open: %w", ErrDataUnavailable, err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		logger.Debug("[postgres] Ping failed (attempt %d/10): %v", i+1, err)
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("%w: postgres ping: %w", ErrDataUnavailable, ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: postgres ping failed after retries: %w", ErrDataUnavailable, err)
	}

	return &PostgresReader{db: db, schema: schema, table: name, logger: logger}, nil
}

// splitTableName validates an optionally schema-qualified table name.
func splitTableName(table string) (schema, name string, err error) {
	if !tableNameRegexp.MatchString(table) {
		return "", "", fmt.Errorf("postgres: invalid table name %q", table)
	}
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:], nil
	}
	return "", table, nil
}

func (pr *PostgresReader) quotedTable() string {
	if pr.schema == "" {
		return pq.QuoteIdentifier(pr.table)
	}
	return pq.QuoteIdentifier(pr.schema) + "." + pq.QuoteIdentifier(pr.table)
}

// rowScanner is the part of *sql.Rows the loaders use.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// checkSchema verifies the table exists and carries every required column.
func (pr *PostgresReader) checkSchema(ctx context.Context) error {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = $1
		  AND table_schema = COALESCE(NULLIF($2, ''), current_schema())
	`
	rows, err := pr.db.QueryContext(ctx, query, pr.table, pr.schema)
	if err != nil {
		return fmt.Errorf("%w: postgres columns: %w", ErrDataUnavailable, err)
	}
	defer rows.Close()

	return verifyColumns(rows, pr.quotedTable())
}

// verifyColumns reads column names from rows and reports a missing table
// as ErrDataUnavailable and missing columns as ErrSchemaMismatch.
func verifyColumns(rows rowScanner, table string) error {
	idx := make(columnIndex)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("%w: postgres scan column: %w", ErrDataUnavailable, err)
		}
		idx[normaliseColumn(name)] = len(idx)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: postgres columns: %w", ErrDataUnavailable, err)
	}

	if len(idx) == 0 {
		return fmt.Errorf("%w: table %s not found", ErrDataUnavailable, table)
	}
	missing := missingColumns(idx)
	if _, ok := idx["id"]; !ok {
		missing = append(missing, "id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: table %s missing column(s) %s",
			ErrSchemaMismatch, table, strings.Join(missing, ", "))
	}
	return nil
}

func (pr *PostgresReader) selectQuery() string {
	return fmt.Sprintf(`
		SELECT type::text, country::text, date_added::text,
		       listed_in::text, rating::text, release_year::text
		FROM %s
		ORDER BY id
	`, pr.quotedTable())
}

// Load reads every row in id order, applying the same coercion as the CSV
// loader.
func (pr *PostgresReader) Load(ctx context.Context) (*models.LoadResult, error) {
	if err := pr.checkSchema(ctx); err != nil {
		return nil, err
	}

	rows, err := pr.db.QueryContext(ctx, pr.selectQuery())
	if err != nil {
		return nil, fmt.Errorf("%w: postgres fetch titles: %w", ErrDataUnavailable, err)
	}
	defer rows.Close()

	result, err := scanTitles(rows)
	if err != nil {
		return nil, err
	}

	if result.Skipped > 0 {
		pr.logger.Warn("[loader] Skipped %d unparseable row(s) in %s", result.Skipped, pr.quotedTable())
	}
	pr.logger.Info("[loader] Loaded %d titles from %s", len(result.Titles), pr.quotedTable())
	return result, nil
}

// scanTitles coerces the rows of selectQuery in the order they arrive.
// NULL columns become absent values; a NULL release_year skips the row.
func scanTitles(rows rowScanner) (*models.LoadResult, error) {
	result := &models.LoadResult{}
	for rows.Next() {
		var typ, country, dateAdded, listedIn, rating, releaseYear sql.NullString
		if err := rows.Scan(&typ, &country, &dateAdded, &listedIn, &rating, &releaseYear); err != nil {
			return nil, fmt.Errorf("%w: postgres scan row: %w", ErrDataUnavailable, err)
		}

		title, err := buildTitle(rawRow{
			Type:        typ.String,
			Country:     country.String,
			DateAdded:   dateAdded.String,
			ListedIn:    listedIn.String,
			Rating:      rating.String,
			ReleaseYear: releaseYear.String,
		})
		if err != nil {
			result.Skipped++
			continue
		}
		result.Titles = append(result.Titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: postgres rows: %w", ErrDataUnavailable, err)
	}
	return result, nil
}

func (pr *PostgresReader) Close() error {
	return pr.db.Close()
}
