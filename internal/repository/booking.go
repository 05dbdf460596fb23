package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/skyfinder/skyfinder/internal/model"
)

const bookingColumns = `id, user_id, booking_reference, passenger_last_name, status, flight_data, created_at`

// ListBookings returns a user's bookings, newest first.
// An empty statuses slice matches every status.
func (r *Repository) ListBookings(ctx context.Context, userID string, statuses []string) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		  AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))
		ORDER BY created_at DESC, id DESC`

	if statuses == nil {
		statuses = []string{}
	}

	rows, err := r.pool.Query(ctx, query, userID, pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}

// FindBooking looks up a user's booking by reference; the last name matches case-insensitively.
func (r *Repository) FindBooking(ctx context.Context, userID, reference, lastName string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND booking_reference = $2 AND lower(passenger_last_name) = lower($3)`

	b, err := scanBooking(r.pool.QueryRow(ctx, query, userID, reference, lastName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	var flightData []byte
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.BookingReference,
		&b.PassengerLastName,
		&b.Status,
		&flightData,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.FlightData = flightData
	return &b, nil
}
