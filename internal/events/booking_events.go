package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicBookingEvents is the default topic for booking lifecycle events.
const TopicBookingEvents = "booking.events"

// Source identifies this service in CloudEvent envelopes.
const Source = "service-booking"

// Event types published on TopicBookingEvents.
const (
	BookingCreated            = "booking.created"
	BookingTechnicianAssigned = "booking.technician_assigned"
	BookingStatusChanged      = "booking.status_changed"
	BookingImageAttached      = "booking.image_attached"
	BookingRated              = "booking.rated"
	BookingPaymentConfirmed   = "booking.payment_confirmed"
)

// BookingCreatedEvent is published when a customer books a service.
type BookingCreatedEvent struct {
	BookingID             uuid.UUID       `json:"booking_id"`
	CustomerID            uuid.UUID       `json:"customer_id"`
	ServiceType           string          `json:"service_type"`
	BookingDate           time.Time       `json:"booking_date"`
	IsSubscriptionBooking bool            `json:"is_subscription_booking"`
	AmountDue             decimal.Decimal `json:"amount_due"`
	Currency              string          `json:"currency"`
	PaymentMethod         string          `json:"payment_method"`
	OccurredAt            time.Time       `json:"occurred_at"`
}

// TechnicianAssignedEvent is published when an admin assigns or reassigns a technician.
type TechnicianAssignedEvent struct {
	BookingID    uuid.UUID `json:"booking_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	TechnicianID uuid.UUID `json:"technician_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// StatusChangedEvent is published when the technician advances the job.
type StatusChangedEvent struct {
	BookingID    uuid.UUID `json:"booking_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	TechnicianID uuid.UUID `json:"technician_id"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ImageAttachedEvent is published when a before or after photo is recorded.
type ImageAttachedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Kind       string    `json:"kind"`
	URL        string    `json:"url"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingRatedEvent is published when the customer rates a completed job.
type BookingRatedEvent struct {
	BookingID    uuid.UUID  `json:"booking_id"`
	CustomerID   uuid.UUID  `json:"customer_id"`
	TechnicianID *uuid.UUID `json:"technician_id,omitempty"`
	Rating       int        `json:"rating"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// PaymentConfirmedEvent is published when a payment becomes Paid.
type PaymentConfirmedEvent struct {
	BookingID  uuid.UUID       `json:"booking_id"`
	Method     string          `json:"method"`
	PaymentID  string          `json:"payment_id,omitempty"`
	ReceivedBy string          `json:"received_by"`
	ReceivedAt time.Time       `json:"received_at"`
	AmountDue  decimal.Decimal `json:"amount_due"`
	Currency   string          `json:"currency"`
	OccurredAt time.Time       `json:"occurred_at"`
}
