package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Placeholder fills every cell of the fallback row.
const Placeholder = "N/A"

// FallbackColumns are the column names reported when the table cannot be read.
var FallbackColumns = []string{"id", "name", "email", "phone", "address"}

// Snapshot is the full contents of the customers table at one point in time.
// Each row is aligned positionally with Columns.
//
// When the table cannot be read, Snapshot holds FallbackColumns and a single
// row of Placeholder values, Degraded is true and Err holds the cause. Callers
// render it like real data; Degraded lets them tell the two apart.
type Snapshot struct {
	Columns  []string
	Rows     [][]string
	Degraded bool
	Err      error
}

// Fallback returns the degraded snapshot for cause.
func Fallback(cause error) Snapshot {
	row := make([]string, len(FallbackColumns))
	for i := range row {
		row[i] = Placeholder
	}
	return Snapshot{
		Columns:  append([]string(nil), FallbackColumns...),
		Rows:     [][]string{row},
		Degraded: true,
		Err:      fmt.Errorf("%w: %w", ErrRead, cause),
	}
}

// FetchAll returns every row in ascending ID order. It never fails: read
// errors are logged and converted into the Fallback snapshot.
func (s *Store) FetchAll(ctx context.Context) Snapshot {
	if s == nil || s.db == nil {
		return Fallback(ErrClosed)
	}
	snap, err := s.fetchAll(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("fetch failed, showing placeholder row")
		return Fallback(err)
	}
	return snap
}

func (s *Store) fetchAll(ctx context.Context) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, selectCustomers)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Columns: cols, Rows: [][]string{}}
	cells := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return Snapshot{}, err
		}
		row := make([]string, len(cols))
		for i, c := range cells {
			// NULL renders as an empty cell.
			row[i] = c.String
		}
		snap.Rows = append(snap.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
