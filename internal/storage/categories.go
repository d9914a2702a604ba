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

// ListCategories returns all categories in insertion order. Report
// generation iterates categories in exactly this order.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("storage: list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var id string
		if err := rows.Scan(&id, &c.Name); err != nil {
			return nil, fmt.Errorf("storage: scan category: %w", err)
		}
		c.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("storage: parse category id %q: %w", id, err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory returns one category by ID, or ErrNotFound.
func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (model.Category, error) {
	var c model.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM categories WHERE id = ?`, id.String()).Scan(&c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, ErrNotFound
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("storage: get category: %w", err)
	}
	c.ID = id
	return c, nil
}

// CreateCategory inserts a new category. Returns ErrDuplicateName when a
// category with the same name (case-insensitive) already exists.
func (s *Store) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	c := model.Category{ID: uuid.New(), Name: name}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, created_at) VALUES (?, ?, ?)`,
		c.ID.String(), name, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Category{}, ErrDuplicateName
		}
		return model.Category{}, fmt.Errorf("storage: create category: %w", err)
	}
	return c, nil
}

// RenameCategory updates a category's name. Returns ErrNotFound when the
// category does not exist and ErrDuplicateName when the new name collides
// with another category.
func (s *Store) RenameCategory(ctx context.Context, id uuid.UUID, newName string) (model.Category, error) {
	newName = strings.TrimSpace(newName)
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ?`, newName, id.String())
	if err != nil {
		if isUniqueViolation(err) {
			return model.Category{}, ErrDuplicateName
		}
		return model.Category{}, fmt.Errorf("storage: rename category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Category{}, fmt.Errorf("storage: rename category: %w", err)
	}
	if n == 0 {
		return model.Category{}, ErrNotFound
	}
	return model.Category{ID: id, Name: newName}, nil
}

// DeleteCategory removes a category and, via the foreign-key cascade, every
// classification that references it. Returns ErrNotFound when absent.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("storage: delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: delete category: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite exposes no typed error for this, so the
// message text is the stable contract.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
