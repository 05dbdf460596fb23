package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/skyfinder/skyfinder/internal/model"
)

const priceAlertColumns = `id, user_id, origin_code, origin_name, destination_code, destination_name,
	target_price, current_price, is_active, last_checked_at, created_at, updated_at`

// ListPriceAlerts returns a user's alerts, newest first.
func (r *Repository) ListPriceAlerts(ctx context.Context, userID string) ([]*model.PriceAlert, error) {
	query := `SELECT ` + priceAlertColumns + `
		FROM price_alerts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list price alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*model.PriceAlert, 0)
	for rows.Next() {
		alert, err := scanPriceAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price alerts: %w", err)
	}
	return alerts, nil
}

// CreatePriceAlert inserts a new alert.
// Returns ErrDuplicate if the user already has an active alert for the route.
func (r *Repository) CreatePriceAlert(ctx context.Context, alert *model.PriceAlert) error {
	query := `
		INSERT INTO price_alerts (` + priceAlertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		alert.ID,
		alert.UserID,
		alert.OriginCode,
		alert.OriginName,
		alert.DestinationCode,
		alert.DestinationName,
		alert.TargetPrice,
		alert.CurrentPrice,
		alert.IsActive,
		alert.LastCheckedAt,
		alert.CreatedAt,
		alert.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create price alert: %w", err)
	}
	return nil
}

// UpdatePriceAlert applies the non-nil fields of update and returns the stored alert.
func (r *Repository) UpdatePriceAlert(ctx context.Context, userID, id string, update model.PriceAlertUpdate) (*model.PriceAlert, error) {
	query := `
		UPDATE price_alerts
		SET target_price = COALESCE($3, target_price),
		    is_active    = COALESCE($4, is_active),
		    updated_at   = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + priceAlertColumns

	alert, err := scanPriceAlert(r.pool.QueryRow(ctx, query, id, userID, update.TargetPrice, update.IsActive))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrNotFound
		case isUniqueViolation(err):
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update price alert: %w", err)
	}
	return alert, nil
}

// DeletePriceAlert removes a user's alert.
func (r *Repository) DeletePriceAlert(ctx context.Context, userID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM price_alerts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete price alert: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPriceAlert(row pgx.Row) (*model.PriceAlert, error) {
	var a model.PriceAlert
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.OriginCode,
		&a.OriginName,
		&a.DestinationCode,
		&a.DestinationName,
		&a.TargetPrice,
		&a.CurrentPrice,
		&a.IsActive,
		&a.LastCheckedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
