package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/budgetwise/internal/models"
)

// EnsureCategory inserts the category unless (userID, name) already exists.
func (s *SQLiteStore) EnsureCategory(ctx context.Context, name, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, user_id, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, name) DO NOTHING`,
		uuid.New().String(), name, userID, time.Now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to ensure category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected == 1, nil
}

// ListCategories retrieves global categories plus the user's own, ordered by name.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, user_id, created_at
		 FROM categories
		 WHERE user_id = '' OR user_id = ?
		 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.UserID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}
