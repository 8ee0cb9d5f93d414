package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/UsmanRajput1111/SolarRevive/internal/platform/domain"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id                    uuid.UUID
	customerID            uuid.UUID
	technicianID          *uuid.UUID
	serviceType           ServiceType
	address               string
	bookingDate           time.Time
	isSubscriptionBooking bool
	amountDue             decimal.Decimal
	currency              string
	status                BookingStatus
	payment               Payment
	images                Images
	rating                *int

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate with status=Pending.
// The price is computed here, once, and frozen on the booking.
func NewBooking(
	customerID uuid.UUID,
	serviceType ServiceType,
	address string,
	bookingDate time.Time,
	wantsSubscription bool,
	pricing PricingStrategy,
	payment Payment,
) (*Booking, error) {
	if customerID == uuid.Nil {
		return nil, domain.NewValidationError("customer ID is required")
	}
	if serviceType == "" {
		return nil, domain.NewValidationError("service type is required")
	}
	if !serviceType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid service type: %s", serviceType))
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, domain.NewValidationError("address is required")
	}
	if bookingDate.IsZero() {
		return nil, domain.NewValidationError("booking date is required")
	}
	if payment.Method() == "" {
		return nil, domain.NewValidationError("payment method is required")
	}

	isSubscription := wantsSubscription && serviceType.SupportsSubscription()
	amountDue := pricing.Calculate(PricingParams{
		ServiceType:       serviceType,
		WantsSubscription: isSubscription,
	})
	if amountDue.IsNegative() {
		return nil, domain.NewValidationError("amount due cannot be negative")
	}

	now := time.Now().UTC()
	return &Booking{
		id:                    uuid.New(),
		customerID:            customerID,
		serviceType:           serviceType,
		address:               address,
		bookingDate:           bookingDate.UTC(),
		isSubscriptionBooking: isSubscription,
		amountDue:             amountDue,
		currency:              CurrencyPKR,
		status:                StatusPending,
		payment:               payment,
		version:               1,
		createdAt:             now,
		updatedAt:             now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	customerID uuid.UUID,
	technicianID *uuid.UUID,
	serviceType ServiceType,
	address string,
	bookingDate time.Time,
	isSubscriptionBooking bool,
	amountDue decimal.Decimal,
	currency string,
	status BookingStatus,
	payment Payment,
	images Images,
	rating *int,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                    id,
		customerID:            customerID,
		technicianID:          technicianID,
		serviceType:           serviceType,
		address:               address,
		bookingDate:           bookingDate,
		isSubscriptionBooking: isSubscriptionBooking,
		amountDue:             amountDue,
		currency:              currency,
		status:                status,
		payment:               payment,
		images:                images,
		rating:                rating,
		version:               version,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// CustomerID returns the ID of the customer who created the booking.
func (b *Booking) CustomerID() uuid.UUID { return b.customerID }

// TechnicianID returns the assigned technician's ID, or nil if unassigned.
func (b *Booking) TechnicianID() *uuid.UUID { return b.technicianID }

// ServiceType returns the booked service.
func (b *Booking) ServiceType() ServiceType { return b.serviceType }

// Address returns the service address.
func (b *Booking) Address() string { return b.address }

// BookingDate returns the requested service date.
func (b *Booking) BookingDate() time.Time { return b.bookingDate }

// IsSubscriptionBooking reports whether the booking is a cleaning subscription.
func (b *Booking) IsSubscriptionBooking() bool { return b.isSubscriptionBooking }

// AmountDue returns the price frozen at creation.
func (b *Booking) AmountDue() decimal.Decimal { return b.amountDue }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// Status returns the current lifecycle status.
func (b *Booking) Status() BookingStatus { return b.status }

// Payment returns the payment sub-record.
func (b *Booking) Payment() Payment { return b.payment }

// Images returns the before/after photo references.
func (b *Booking) Images() Images { return b.images }

// Rating returns the customer's rating, or nil if not rated.
func (b *Booking) Rating() *int { return b.rating }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// hasTechnician reports whether the booking has reached a technician-owned status with someone assigned.
func (b *Booking) hasTechnician() bool {
	return b.status.RequiresTechnician() && b.technicianID != nil
}

// IsAssignedTo reports whether userID is the booking's technician.
func (b *Booking) IsAssignedTo(userID uuid.UUID) bool {
	return b.technicianID != nil && *b.technicianID == userID
}

// --- Lifecycle ---

// AssignTechnician sets the technician and forces status to Assigned.
// A Pending booking becomes Assigned; an Assigned booking may be handed to another technician.
// Work that has started cannot be reassigned.
func (b *Booking) AssignTechnician(technicianID uuid.UUID) error {
	if technicianID == uuid.Nil {
		return domain.NewValidationError("technician ID is required")
	}
	if b.status != StatusAssigned && !b.status.CanTransitionTo(StatusAssigned) {
		return domain.NewInvalidStateError(string(b.status), string(StatusAssigned))
	}
	b.technicianID = &technicianID
	b.status = StatusAssigned
	b.updatedAt = time.Now().UTC()
	return nil
}

// AdvanceStatus moves the job forward one step: Assigned -> In Progress -> Completed.
func (b *Booking) AdvanceStatus(target BookingStatus) error {
	if !target.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", target))
	}
	if target != StatusInProgress && target != StatusCompleted {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	if b.status.IsTerminal() {
		return domain.NewStateConflictError(fmt.Sprintf("booking is already %s", b.status))
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	if !b.hasTechnician() {
		return domain.NewStateConflictError("booking has no technician assigned")
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// AttachImage records a before or after photo. Images may be replaced; status is unaffected.
func (b *Booking) AttachImage(kind ImageKind, ref string) error {
	if !kind.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid image kind: %s", kind))
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.NewValidationError("image reference is required")
	}
	if !b.hasTechnician() {
		return domain.NewStateConflictError("booking has no technician assigned")
	}
	b.images = b.images.with(kind, ref)
	b.updatedAt = time.Now().UTC()
	return nil
}

// Rate attaches the customer's rating. Only completed bookings can be rated; a rating may be revised.
func (b *Booking) Rate(rating int) error {
	if b.status != StatusCompleted {
		return domain.NewValidationError("you can only rate completed services")
	}
	if rating < MinRating || rating > MaxRating {
		return domain.NewValidationError(fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	b.rating = &rating
	b.updatedAt = time.Now().UTC()
	return nil
}

// --- Payment reconciliation ---

// ApprovePayment marks the payment paid by an admin. It reports whether anything changed:
// approving cash the technician already collected is an acknowledgement, not a transition.
func (b *Booking) ApprovePayment(now time.Time) (bool, error) {
	next, changed, err := b.payment.approve(now)
	if err != nil {
		return false, err
	}
	if changed {
		b.payment = next
		b.updatedAt = time.Now().UTC()
	}
	return changed, nil
}

// ConfirmCashPayment records that the technician collected a cash-on-delivery payment.
func (b *Booking) ConfirmCashPayment(now time.Time) error {
	next, err := b.payment.confirmCash(now)
	if err != nil {
		return err
	}
	b.payment = next
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

// Clone returns a deep copy, so a failed multi-step update can be discarded.
func (b *Booking) Clone() *Booking {
	c := *b
	if b.technicianID != nil {
		id := *b.technicianID
		c.technicianID = &id
	}
	if b.rating != nil {
		r := *b.rating
		c.rating = &r
	}
	return &c
}
