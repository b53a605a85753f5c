package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	sqlitelib "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/louisbranch/greenhouse/internal/garden/event"
	"github.com/louisbranch/greenhouse/internal/garden/journal"
	apperrors "github.com/louisbranch/greenhouse/internal/platform/errors"
)

// Append implements journal.Store.
func (s *Store) Append(ctx context.Context, evt event.Event, expectedSeq uint64) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	validated, err := s.registry.ValidateForAppend(evt)
	if err != nil {
		return event.Event{}, err
	}
	evt = validated
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC().Truncate(time.Millisecond)
	}
	evt.Seq = expectedSeq + 1

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO plant_events (plant_id, seq, event_type, timestamp_ms, payload_json)
		 VALUES (?, ?, ?, ?, ?)`,
		evt.PlantID, int64(evt.Seq), string(evt.Type), toMillis(evt.Timestamp), evt.PayloadJSON,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return event.Event{}, apperrors.WithMetadata(apperrors.CodeSeqConflict, journal.ErrSeqConflict.Message, map[string]string{
				"plant_id": evt.PlantID,
				"expected": strconv.FormatUint(expectedSeq, 10),
			})
		}
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}

	globalSeq, err := result.LastInsertId()
	if err != nil {
		return event.Event{}, fmt.Errorf("read global seq: %w", err)
	}
	evt.GlobalSeq = uint64(globalSeq)
	return evt, nil
}

// ListEvents implements journal.Store.
func (s *Store) ListEvents(ctx context.Context, plantID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT global_seq, plant_id, seq, event_type, timestamp_ms, payload_json
		 FROM plant_events
		 WHERE plant_id = ? AND seq > ?
		 ORDER BY seq ASC
		 LIMIT ?`,
		plantID, int64(afterSeq), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListAllEvents implements journal.Store.
func (s *Store) ListAllEvents(ctx context.Context, afterGlobalSeq uint64, limit int) ([]event.Event, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT global_seq, plant_id, seq, event_type, timestamp_ms, payload_json
		 FROM plant_events
		 WHERE global_seq > ?
		 ORDER BY global_seq ASC
		 LIMIT ?`,
		int64(afterGlobalSeq), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list all events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// LatestSeq implements journal.Store.
func (s *Store) LatestSeq(ctx context.Context, plantID string) (uint64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(seq) FROM plant_events WHERE plant_id = ?`, plantID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("latest seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return uint64(seq.Int64), nil
}

func scanEvents(rows *sql.Rows) ([]event.Event, error) {
	var events []event.Event
	for rows.Next() {
		var (
			evt         event.Event
			globalSeq   int64
			seq         int64
			eventType   string
			timestampMS int64
		)
		if err := rows.Scan(&globalSeq, &evt.PlantID, &seq, &eventType, &timestampMS, &evt.PayloadJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.GlobalSeq = uint64(globalSeq)
		evt.Seq = uint64(seq)
		evt.Type = event.Type(eventType)
		evt.Timestamp = fromMillis(timestampMS)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlitelib.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
