package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookingDomain "github.com/UsmanRajput1111/SolarRevive/internal/domain/booking"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ServiceType       string         `json:"serviceType" binding:"required,service_type"`
	Address           string         `json:"address" binding:"required"`
	BookingDate       string         `json:"bookingDate" binding:"required"`
	WantsSubscription bool           `json:"wantsSubscription"`
	Payment           PaymentRequest `json:"payment"`
}

// PaymentRequest is the payment part of a creation request.
// PaymentID is the wallet transaction ID and is required for online transfers.
type PaymentRequest struct {
	Method    string `json:"method" binding:"required,payment_method"`
	PaymentID string `json:"paymentId"`
}

// UpdateBookingRequest is the role-dependent partial update. Nil fields are left untouched.
type UpdateBookingRequest struct {
	Technician        *uuid.UUID           `json:"technician"`
	Status            *string              `json:"status"`
	Images            *ImagesUpdate        `json:"images"`
	Payment           *PaymentStatusUpdate `json:"payment"`
	PaymentReceivedBy *string              `json:"paymentReceivedBy"`
	Rating            *int                 `json:"rating"`
}

// ImagesUpdate carries before/after photo references.
type ImagesUpdate struct {
	Before *string `json:"before"`
	After  *string `json:"after"`
}

// PaymentStatusUpdate requests a payment status change.
type PaymentStatusUpdate struct {
	Status *string `json:"status"`
}

func (r UpdateBookingRequest) isEmpty() bool {
	return r.Technician == nil &&
		r.Status == nil &&
		(r.Images == nil || (r.Images.Before == nil && r.Images.After == nil)) &&
		(r.Payment == nil || r.Payment.Status == nil) &&
		r.PaymentReceivedBy == nil &&
		r.Rating == nil
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                    uuid.UUID       `json:"id"`
	Customer              uuid.UUID       `json:"customer"`
	Technician            *uuid.UUID      `json:"technician,omitempty"`
	ServiceType           string          `json:"serviceType"`
	Address               string          `json:"address"`
	BookingDate           time.Time       `json:"bookingDate"`
	IsSubscriptionBooking bool            `json:"isSubscriptionBooking"`
	AmountDue             decimal.Decimal `json:"amountDue"`
	Currency              string          `json:"currency"`
	Status                string          `json:"status"`
	Payment               PaymentDTO      `json:"payment"`
	Images                ImagesDTO       `json:"images"`
	Rating                *int            `json:"rating,omitempty"`
	Version               int64           `json:"version"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// PaymentDTO is the response representation of a booking's payment.
type PaymentDTO struct {
	Method            string     `json:"method"`
	Status            string     `json:"status"`
	PaymentID         string     `json:"paymentId,omitempty"`
	PaymentReceivedBy *string    `json:"paymentReceivedBy,omitempty"`
	PaymentReceivedAt *time.Time `json:"paymentReceivedAt,omitempty"`
}

// ImagesDTO holds before/after photo references.
type ImagesDTO struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings   int64            `json:"total_bookings"`
	ByStatus        map[string]int64 `json:"by_status"`
	ByPaymentStatus map[string]int64 `json:"by_payment_status"`
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	p := bk.Payment()
	var receivedBy *string
	if p.ReceivedBy() != nil {
		s := string(*p.ReceivedBy())
		receivedBy = &s
	}
	images := bk.Images()

	return BookingDTO{
		ID:                    bk.ID(),
		Customer:              bk.CustomerID(),
		Technician:            bk.TechnicianID(),
		ServiceType:           string(bk.ServiceType()),
		Address:               bk.Address(),
		BookingDate:           bk.BookingDate(),
		IsSubscriptionBooking: bk.IsSubscriptionBooking(),
		AmountDue:             bk.AmountDue(),
		Currency:              bk.Currency(),
		Status:                string(bk.Status()),
		Payment: PaymentDTO{
			Method:            string(p.Method()),
			Status:            string(p.Status()),
			PaymentID:         p.PaymentID(),
			PaymentReceivedBy: receivedBy,
			PaymentReceivedAt: p.ReceivedAt(),
		},
		Images:    ImagesDTO{Before: images.Before, After: images.After},
		Rating:    bk.Rating(),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
