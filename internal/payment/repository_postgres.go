package payment

import (
	"database/sql"
	"encoding/json"
	"time"
)

// recordTTL matches the processor's retention window: status records are
// readable for 30 days, then treated as gone.
const recordTTL = 30 * 24 * time.Hour

// PostgresRepository persists status records in a single KV table,
// preserving the order:{orderId} key layout.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(orderID string) (StatusRecord, error) {
	var raw []byte
	err := r.db.QueryRow(
		`SELECT record FROM order_status WHERE order_key = $1 AND expires_at > now()`,
		"order:"+orderID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return StatusRecord{}, ErrNotFound
	}
	if err != nil {
		return StatusRecord{}, err
	}

	var rec StatusRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return StatusRecord{}, err
	}
	return rec, nil
}

// Put replaces the whole record for the key; there are no partial writes.
func (r *PostgresRepository) Put(rec StatusRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(
		`INSERT INTO order_status (order_key, record, expires_at)
         VALUES ($1, $2, $3)
         ON CONFLICT (order_key) DO UPDATE SET record = $2, expires_at = $3`,
		"order:"+rec.ID, raw, time.Now().Add(recordTTL),
	)
	return err
}

// ListByStatus returns records matching a status, newest first. Used by
// the admin review surface; not exposed publicly.
func (r *PostgresRepository) ListByStatus(status StatusValue) ([]StatusRecord, error) {
	rows, err := r.db.Query(
		`SELECT record FROM order_status
         WHERE record->>'status' = $1 AND expires_at > now()
         ORDER BY record->>'updatedAt' DESC`,
		string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]StatusRecord, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec StatusRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
