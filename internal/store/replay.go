package store

import (
	"context"
	"fmt"
)

// ReplayAll returns every persisted update record in seq order, for
// reconstructing a session by re-enqueuing each one against a fresh Engine.
func (s *Store) ReplayAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, trace_id, property_name, phase, timestamp, frame_id, payload, received_at
		FROM updates ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("replay all: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Seq, &r.TraceID, &r.PropertyName, &r.Phase, &r.Timestamp, &r.FrameID, &r.Payload, &r.ReceivedAt); err != nil {
			return nil, fmt.Errorf("replay all: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("replay all: %w", err)
	}
	return out, nil
}

// ReplayProperty returns the persisted update history for a single
// property, in seq order, for per-property trace inspection.
func (s *Store) ReplayProperty(ctx context.Context, propertyName string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, trace_id, property_name, phase, timestamp, frame_id, payload, received_at
		FROM updates WHERE property_name = ? ORDER BY seq ASC
	`, propertyName)
	if err != nil {
		return nil, fmt.Errorf("replay property: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Seq, &r.TraceID, &r.PropertyName, &r.Phase, &r.Timestamp, &r.FrameID, &r.Payload, &r.ReceivedAt); err != nil {
			return nil, fmt.Errorf("replay property: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("replay property: %w", err)
	}
	return out, nil
}
