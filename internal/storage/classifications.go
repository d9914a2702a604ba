package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/labelforge/labelforge/internal/model"
)

// ListClassifications returns all classifications in insertion order. The
// order is stable across calls but carries no sorting guarantee; report
// sampling takes the first N identifiers in this order.
func (s *Store) ListClassifications(ctx context.Context) ([]model.Classification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT image_identifier, category_id, classified_at FROM classifications ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("storage: list classifications: %w", err)
	}
	defer rows.Close()

	var classifications []model.Classification
	for rows.Next() {
		c, err := scanClassification(rows)
		if err != nil {
			return nil, err
		}
		classifications = append(classifications, c)
	}
	return classifications, rows.Err()
}

// GetClassification returns the classification for one image, or ErrNotFound.
func (s *Store) GetClassification(ctx context.Context, imageIdentifier string) (model.Classification, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT image_identifier, category_id, classified_at FROM classifications WHERE image_identifier = ?`,
		imageIdentifier)
	c, err := scanClassification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Classification{}, ErrNotFound
	}
	if err != nil {
		return model.Classification{}, err
	}
	return c, nil
}

// UpsertClassification assigns a category to an image, replacing any earlier
// assignment and refreshing the timestamp. Returns ErrNotFound when the
// category does not exist.
func (s *Store) UpsertClassification(ctx context.Context, imageIdentifier string, categoryID uuid.UUID) (model.Classification, error) {
	imageIdentifier = strings.TrimSpace(imageIdentifier)
	if imageIdentifier == "" {
		return model.Classification{}, fmt.Errorf("storage: image identifier must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Classification{}, fmt.Errorf("storage: begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM categories WHERE id = ?`, categoryID.String()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Classification{}, ErrNotFound
	}
	if err != nil {
		return model.Classification{}, fmt.Errorf("storage: check category: %w", err)
	}

	c := model.Classification{
		ImageIdentifier: imageIdentifier,
		CategoryID:      categoryID,
		ClassifiedAt:    time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO classifications (image_identifier, category_id, classified_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(image_identifier) DO UPDATE SET
			category_id = excluded.category_id,
			classified_at = excluded.classified_at`,
		c.ImageIdentifier, c.CategoryID.String(), c.ClassifiedAt.Format(time.RFC3339Nano))
	if err != nil {
		return model.Classification{}, fmt.Errorf("storage: upsert classification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Classification{}, fmt.Errorf("storage: commit upsert: %w", err)
	}
	return c, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanClassification(row scanner) (model.Classification, error) {
	var c model.Classification
	var categoryID, classifiedAt string
	if err := row.Scan(&c.ImageIdentifier, &categoryID, &classifiedAt); err != nil {
		return model.Classification{}, err
	}
	id, err := uuid.Parse(categoryID)
	if err != nil {
		return model.Classification{}, fmt.Errorf("storage: parse category id %q: %w", categoryID, err)
	}
	c.CategoryID = id
	c.ClassifiedAt, err = time.Parse(time.RFC3339Nano, classifiedAt)
	if err != nil {
		return model.Classification{}, fmt.Errorf("storage: parse classified_at %q: %w", classifiedAt, err)
	}
	return c, nil
}
