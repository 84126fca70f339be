package data

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mchmarny/revpulse/pkg/review"
	"github.com/pkg/errors"
)

const (
	insertBatchSQL = `INSERT INTO import_batch (id, source, records, imported_at) VALUES (?, ?, ?, ?)`

	insertReviewSQL = `INSERT INTO review (
			batch_id, position, review_id, order_id, score, title, message, created_at, answered_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectLatestBatchSQL = `SELECT id, source, records, imported_at
		FROM import_batch
		ORDER BY imported_at DESC
		LIMIT 1`

	selectReviewsSQL = `SELECT review_id, order_id, score, title, message, created_at, answered_at
		FROM review
		WHERE batch_id = ?
		ORDER BY position`

	deleteReviewsSQL = `DELETE FROM review`
	deleteBatchesSQL = `DELETE FROM import_batch`
)

// ErrNoData is returned when reading reviews before any import.
var ErrNoData = errors.New("no reviews imported yet")

// ImportBatch describes one import of a review dataset.
type ImportBatch struct {
	ID         string `json:"id" yaml:"id"`
	Source     string `json:"source" yaml:"source"`
	Records    int    `json:"records" yaml:"records"`
	ImportedAt string `json:"imported_at" yaml:"importedAt"`
}

// SaveReviews replaces the stored dataset with list in a single transaction.
func SaveReviews(db *sql.DB, source string, list []*review.Record) (*ImportBatch, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	batch := &ImportBatch{
		ID:         uuid.NewString(),
		Source:     source,
		Records:    0,
		ImportedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	for _, r := range list {
		if r != nil {
			batch.Records++
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}

	if err := saveBatch(db, tx, batch, list); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return nil, errors.Wrapf(rerr, "failed to rollback transaction after: %v", err)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	return batch, nil
}

func saveBatch(db *sql.DB, tx *sql.Tx, batch *ImportBatch, list []*review.Record) error {
	if _, err := tx.Exec(deleteReviewsSQL); err != nil {
		return errors.Wrap(err, "failed to delete previous reviews")
	}
	if _, err := tx.Exec(deleteBatchesSQL); err != nil {
		return errors.Wrap(err, "failed to delete previous import")
	}

	if _, err := tx.Exec(bind(db, insertBatchSQL), batch.ID, batch.Source, batch.Records, batch.ImportedAt); err != nil {
		return errors.Wrap(err, "failed to insert import batch")
	}

	stmt, err := tx.Prepare(bind(db, insertReviewSQL))
	if err != nil {
		return errors.Wrap(err, "failed to prepare review insert statement")
	}
	defer stmt.Close()

	pos := 0
	for _, r := range list {
		if r == nil {
			continue
		}
		if _, err := stmt.Exec(batch.ID, pos, r.ID, r.OrderID, r.Score, r.Title, r.Message, r.CreatedAt, r.AnsweredAt); err != nil {
			return errors.Wrapf(err, "failed to insert review at position %d", pos)
		}
		pos++
	}
	return nil
}

// GetLatestBatch returns the most recent import or nil when nothing was
// imported yet.
func GetLatestBatch(db *sql.DB) (*ImportBatch, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	var b ImportBatch
	err := db.QueryRow(selectLatestBatchSQL).Scan(&b.ID, &b.Source, &b.Records, &b.ImportedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to query latest import")
	}
	return &b, nil
}

// ListReviews returns the records of the latest import in their original
// order. ErrNoData is returned when nothing was imported.
func ListReviews(db *sql.DB) ([]*review.Record, error) {
	batch, err := GetLatestBatch(db)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, ErrNoData
	}

	rows, err := db.Query(bind(db, selectReviewsSQL), batch.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query reviews")
	}
	defer rows.Close()

	list := make([]*review.Record, 0, batch.Records)
	for rows.Next() {
		r := &review.Record{}
		if err := rows.Scan(&r.ID, &r.OrderID, &r.Score, &r.Title, &r.Message, &r.CreatedAt, &r.AnsweredAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan review row")
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate review rows")
	}

	return list, nil
}

// DeleteAll removes every stored review and import.
func DeleteAll(db *sql.DB) error {
	if db == nil {
		return errDBNotInitialized
	}
	if _, err := db.Exec(deleteReviewsSQL); err != nil {
		return errors.Wrap(err, "failed to delete reviews")
	}
	if _, err := db.Exec(deleteBatchesSQL); err != nil {
		return errors.Wrap(err, "failed to delete imports")
	}
	return nil
}
