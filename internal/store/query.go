package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on top of the ent SQL builder and the
// global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func sqlite() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// insertEvent appends a row to table with the shared sequence/timestamp
// prefix followed by the given columns.
func (r *eventRepo) insertEvent(ctx context.Context, table string, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite().Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seqNum, toMillis(time.Now())}, vals...)...).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// applyOpts adds QueryOpts filters and pagination to a selector.
func applyOpts(s *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.After > 0 {
		s.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		s.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		s.Where(entsql.GTE("timestamp", toMillis(opts.From)))
	}
	if !opts.To.IsZero() {
		s.Where(entsql.LTE("timestamp", toMillis(opts.To)))
	}
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}
	return s
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
