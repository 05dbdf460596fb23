package repository

import (
	"context"
	"fmt"

	"github.com/skyfinder/skyfinder/internal/model"
)

// ListSavedSearches returns a user's saved routes, newest first.
func (r *Repository) ListSavedSearches(ctx context.Context, userID string) ([]*model.SavedSearch, error) {
	query := `
		SELECT id, user_id, origin_code, origin_name, destination_code, destination_name, created_at
		FROM saved_searches
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved searches: %w", err)
	}
	defer rows.Close()

	searches := make([]*model.SavedSearch, 0)
	for rows.Next() {
		var s model.SavedSearch
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.OriginCode,
			&s.OriginName,
			&s.DestinationCode,
			&s.DestinationName,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan saved search: %w", err)
		}
		searches = append(searches, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved searches: %w", err)
	}
	return searches, nil
}

// CreateSavedSearch inserts a saved route. Returns ErrDuplicate if the user already saved it.
func (r *Repository) CreateSavedSearch(ctx context.Context, s *model.SavedSearch) error {
	query := `
		INSERT INTO saved_searches (id, user_id, origin_code, origin_name, destination_code, destination_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.UserID,
		s.OriginCode,
		s.OriginName,
		s.DestinationCode,
		s.DestinationName,
		s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create saved search: %w", err)
	}
	return nil
}

// DeleteSavedSearch removes a user's saved route.
func (r *Repository) DeleteSavedSearch(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM saved_searches WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete saved search: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
