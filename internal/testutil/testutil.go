// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/skyfinder/skyfinder/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 734001

// AcquireDBLock grabs a global advisory lock to serialize DB tests across packages.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// Migration names under migrations/.
const (
	MigrationAccounts = "000001_accounts"
)

// ApplyMigration runs the named migration in the given direction ("up" or "down").
func ApplyMigration(ctx context.Context, pool *pgxpool.Pool, name, direction string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	path := filepath.Join(root, "migrations", fmt.Sprintf("%s.%s.sql", name, direction))
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s migration %s: %w", direction, name, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply %s migration %s: %w", direction, name, err)
	}
	return nil
}

// ResetAccountsSchema drops and recreates the account tables.
func ResetAccountsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ApplyMigration(ctx, pool, MigrationAccounts, "down"); err != nil {
		return err
	}
	return ApplyMigration(ctx, pool, MigrationAccounts, "up")
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestPriceAlert creates an active alert for the route with sensible defaults.
func NewTestPriceAlert(t testing.TB, userID, origin, destination string) *model.PriceAlert {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.PriceAlert{
		ID:              ulid.Make().String(),
		UserID:          userID,
		OriginCode:      origin,
		OriginName:      origin + " City",
		DestinationCode: destination,
		DestinationName: destination + " City",
		TargetPrice:     350,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewTestSavedSearch creates a saved route.
func NewTestSavedSearch(t testing.TB, userID, origin, destination string) *model.SavedSearch {
	t.Helper()
	return &model.SavedSearch{
		ID:              ulid.Make().String(),
		UserID:          userID,
		OriginCode:      origin,
		OriginName:      origin + " City",
		DestinationCode: destination,
		DestinationName: destination + " City",
		CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}
}

// InsertTestBooking writes a booking row directly; the service never creates bookings.
func InsertTestBooking(ctx context.Context, t testing.TB, pool *pgxpool.Pool, userID, reference, lastName, status string) *model.Booking {
	t.Helper()
	b := &model.Booking{
		ID:                ulid.Make().String(),
		UserID:            userID,
		BookingReference:  reference,
		PassengerLastName: lastName,
		Status:            status,
		FlightData:        json.RawMessage(`{"carrier":"BA","number":"117"}`),
		CreatedAt:         time.Now().UTC().Truncate(time.Microsecond),
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO bookings (id, user_id, booking_reference, passenger_last_name, status, flight_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.UserID, b.BookingReference, b.PassengerLastName, b.Status, string(b.FlightData), b.CreatedAt,
	)
	if err != nil {
		t.Fatalf("insert booking: %v", err)
	}
	return b
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
