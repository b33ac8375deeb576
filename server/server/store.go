package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/derktes/gree-remote-decoder/greeir"
)

// recordStore persists decoded remote commands and the advisory warnings
// raised while decoding them.
type recordStore struct {
	db *sql.DB
}

// StoredRecord is one decoded command as returned from the store.
type StoredRecord struct {
	ID          int64           `json:"id"`
	CollectorID string          `json:"collectorId"`
	FrameType   string          `json:"type"`
	Fields      json.RawMessage `json:"fields"`
	Timestamp   time.Time       `json:"timestamp"`
}

func openStore(path string) (*recordStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			record_id         INTEGER PRIMARY KEY AUTOINCREMENT,
			collector_id      TEXT NOT NULL,
			frame_type        TEXT NOT NULL,
			fields            TEXT NOT NULL,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS warnings (
			warning_id        INTEGER PRIMARY KEY AUTOINCREMENT,
			collector_id      TEXT NOT NULL,
			kind              TEXT NOT NULL,
			detail            TEXT NOT NULL,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &recordStore{db}, nil
}

func (s *recordStore) close() error { return s.db.Close() }

// insertRecord stores a decoded record and returns it as persisted, with
// its row id, encoded fields and timestamp filled in.
func (s *recordStore) insertRecord(collectorID string, rec greeir.Record) (StoredRecord, error) {
	fields, err := encodeFields(rec)
	if err != nil {
		return StoredRecord{}, err
	}
	stored := StoredRecord{
		CollectorID: collectorID,
		FrameType:   rec.Type().String(),
		Fields:      fields,
		Timestamp:   time.Now().UTC(),
	}
	res, err := s.db.Exec(
		`INSERT INTO records (collector_id, frame_type, fields, timestamp) VALUES (?, ?, ?, ?)`,
		stored.CollectorID, stored.FrameType, string(stored.Fields), stored.Timestamp,
	)
	if err != nil {
		return StoredRecord{}, err
	}
	stored.ID, err = res.LastInsertId()
	if err != nil {
		return StoredRecord{}, err
	}
	return stored, nil
}

func (s *recordStore) insertWarning(collectorID string, w greeir.Warning) error {
	_, err := s.db.Exec(
		`INSERT INTO warnings (collector_id, kind, detail, timestamp) VALUES (?, ?, ?, ?)`,
		collectorID, w.Kind.String(), w.Detail, time.Now().UTC(),
	)
	return err
}

func (s *recordStore) listCollectors() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT collector_id FROM records ORDER BY collector_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collectors := []string{}
	for rows.Next() {
		var cid string
		if err := rows.Scan(&cid); err != nil {
			return nil, err
		}
		collectors = append(collectors, cid)
	}
	return collectors, rows.Err()
}

// queryRecords returns up to limit most recent records, optionally filtered
// by collector id and frame type.
func (s *recordStore) queryRecords(collectorID, frameType string, limit int) ([]StoredRecord, error) {
	query := `SELECT record_id, collector_id, frame_type, fields, timestamp FROM records`
	var (
		conds []string
		args  []any
	)
	if collectorID != "" {
		conds = append(conds, "collector_id = ?")
		args = append(args, collectorID)
	}
	if frameType != "" {
		conds = append(conds, "frame_type = ?")
		args = append(args, frameType)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY record_id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []StoredRecord{}
	for rows.Next() {
		var (
			rec    StoredRecord
			fields string
		)
		if err := rows.Scan(&rec.ID, &rec.CollectorID, &rec.FrameType, &fields, &rec.Timestamp); err != nil {
			return nil, err
		}
		rec.Fields = json.RawMessage(fields)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *recordStore) countWarnings(collectorID string) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT kind, COUNT(*) FROM warnings WHERE collector_id = ? GROUP BY kind`,
		collectorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		counts[kind] = count
	}
	return counts, rows.Err()
}

// encodeFields renders a record's ordered fields as a JSON object. The
// field order of the record is preserved in the generated text; enumerated
// values are encoded by name.
func encodeFields(rec greeir.Record) ([]byte, error) {
	buf := []byte{'{'}
	for i, f := range rec.Fields() {
		if i > 0 {
			buf = append(buf, ',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value := f.Value
		if stringer, ok := value.(fmt.Stringer); ok {
			value = stringer.String()
		}
		enc, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, name...)
		buf = append(buf, ':')
		buf = append(buf, enc...)
	}
	return append(buf, '}'), nil
}
