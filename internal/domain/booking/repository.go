package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindAll retrieves bookings matching the filter with pagination, newest first.
	FindAll(ctx context.Context, filter ListFilter, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by lifecycle status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// CountByPaymentStatus returns booking counts grouped by payment status (admin).
	CountByPaymentStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	// The booking's version must already be incremented; the stored version must be one less.
	Update(ctx context.Context, booking *Booking) error
}
