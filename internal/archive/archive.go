package archive

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"quizform/internal/wizard"
)

// Record is one archived submission.
type Record struct {
	ID          string
	SessionID   string
	Delivery    string
	UserID      *int64
	SubmittedAt string
	Payload     wizard.Payload
}

// Archive appends delivered payloads to a DuckDB database.
type Archive struct {
	db *sql.DB
}

// Open opens (or creates) the DuckDB file at path and applies the schema.
func Open(ctx context.Context, path string) (*Archive, error) {
	if ctx == nil {
		return nil, errors.New("archive: context is nil")
	}
	if path == "" {
		return nil, errors.New("archive: path is required")
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: ping %s: %w", path, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive: apply schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close releases the database.
func (a *Archive) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Record stores payload for sessionID. The same payload recorded twice is
// kept once; the returned id is the id of the stored row.
func (a *Archive) Record(ctx context.Context, sessionID string, delivery wizard.Delivery, payload wizard.Payload) (string, error) {
	if ctx == nil {
		return "", errors.New("archive: context is nil")
	}
	if a == nil || a.db == nil {
		return "", errors.New("archive: db is nil")
	}
	canonical, err := CanonicalPayload(payload)
	if err != nil {
		return "", err
	}
	fingerprint := fingerprintBytes(canonical)
	var userID *int64
	if payload.User != nil {
		id := payload.User.ID
		userID = &id
	}
	if _, err := a.db.ExecContext(
		ctx,
		`INSERT INTO submissions (submission_id, fingerprint, session_id, delivery, user_id, submitted_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (fingerprint) DO NOTHING`,
		uuid.NewString(),
		fingerprint,
		sessionID,
		delivery.String(),
		userID,
		payload.SubmittedAt,
		string(canonical),
	); err != nil {
		return "", fmt.Errorf("archive: insert submission: %w", err)
	}
	var id string
	if err := a.db.QueryRowContext(
		ctx,
		"SELECT CAST(submission_id AS VARCHAR) FROM submissions WHERE fingerprint = ?",
		fingerprint,
	).Scan(&id); err != nil {
		return "", fmt.Errorf("archive: lookup submission: %w", err)
	}
	return id, nil
}

// List returns up to limit submissions, newest first.
func (a *Archive) List(ctx context.Context, limit int) ([]Record, error) {
	if ctx == nil {
		return nil, errors.New("archive: context is nil")
	}
	if a == nil || a.db == nil {
		return nil, errors.New("archive: db is nil")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.QueryContext(
		ctx,
		`SELECT CAST(submission_id AS VARCHAR), session_id, delivery, user_id, submitted_at, payload
		 FROM submissions
		 ORDER BY recorded_at DESC, submitted_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("archive: list submissions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			record  Record
			userID  sql.NullInt64
			payload string
		)
		if err := rows.Scan(&record.ID, &record.SessionID, &record.Delivery, &userID, &record.SubmittedAt, &payload); err != nil {
			return nil, fmt.Errorf("archive: scan submission: %w", err)
		}
		if userID.Valid {
			id := userID.Int64
			record.UserID = &id
		}
		decoded, err := wizard.DecodePayload([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("archive: submission %s: %w", record.ID, err)
		}
		record.Payload = decoded
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: list submissions: %w", err)
	}
	return records, nil
}

// CanonicalPayload returns deterministic JSON for hashing and storage.
// Map keys are emitted in sorted order.
func CanonicalPayload(payload wizard.Payload) ([]byte, error) {
	if payload.Answers == nil {
		payload.Answers = wizard.AnswerSet{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("archive: canonical payload: %w", err)
	}
	return data, nil
}

func fingerprintBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
