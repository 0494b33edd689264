package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs (run_id, gold, silver, alert_count, time)
		VALUES (?, ?, ?, ?, ?)`,
		r.RunID, r.Gold, r.Silver, r.AlertCount, r.Time,
	)
	return err
}

func (j *SQLite) RecordAlert(a AlertRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO alerts
		(run_id, kind, ladder, live_price, threshold, message, time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.RunID, a.Kind, a.Ladder, a.LivePrice, a.Threshold, a.Message, a.Time,
	)
	return err
}

// ListAlertsSince returns alerts observed at or after start, oldest
// first. Upstream dedup uses this to keep cron from re-mailing the same
// breach every five minutes.
func (j *SQLite) ListAlertsSince(start time.Time) ([]AlertRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, kind, ladder, live_price, threshold, message, time
		FROM alerts
		WHERE time >= ?
		ORDER BY time ASC, id ASC`, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AlertRecord
	for rows.Next() {
		var rec AlertRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Kind,
			&rec.Ladder,
			&rec.LivePrice,
			&rec.Threshold,
			&rec.Message,
			&rec.Time,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
