package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	bookingDomain "github.com/UsmanRajput1111/SolarRevive/internal/domain/booking"
	"github.com/UsmanRajput1111/SolarRevive/internal/platform/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID            uuid.UUID       `gorm:"type:uuid;index;not null"`
	TechnicianID          *uuid.UUID      `gorm:"type:uuid;index"`
	ServiceType           string          `gorm:"not null;size:50"`
	Address               string          `gorm:"not null;size:500"`
	BookingDate           time.Time       `gorm:"not null"`
	IsSubscriptionBooking bool            `gorm:"not null;default:false"`
	AmountDue             decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency              string          `gorm:"not null;size:3;default:'PKR'"`
	Status                string          `gorm:"not null;size:20;index"`
	PaymentMethod         string          `gorm:"not null;size:30"`
	PaymentStatus         string          `gorm:"not null;size:20;index"`
	PaymentID             string          `gorm:"size:100"`
	PaymentReceivedBy     *string         `gorm:"size:20"`
	PaymentReceivedAt     *time.Time      `gorm:""`
	ImageBefore           string          `gorm:"type:text"`
	ImageAfter            string          `gorm:"type:text"`
	Rating                *int            `gorm:""`
	Version               int64           `gorm:"not null;default:1"`
	CreatedAt             time.Time       `gorm:"not null"`
	UpdatedAt             time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindAll retrieves bookings matching the filter with pagination, newest first.
func (r *GormBookingRepository) FindAll(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.scoped(ctx, filter).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.scoped(ctx, filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}

	return bookings, total, nil
}

// scoped translates a ListFilter into WHERE clauses.
func (r *GormBookingRepository) scoped(ctx context.Context, filter bookingDomain.ListFilter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.TechnicianID != nil {
		q = q.Where("technician_id = ?", *filter.TechnicianID)
	}
	if filter.RequiresAdminAttention {
		q = q.Where(
			"payment_status = ? OR (payment_method = ? AND payment_status = ? AND payment_received_by = ?)",
			string(bookingDomain.PaymentPending),
			string(bookingDomain.MethodCashOnDelivery),
			string(bookingDomain.PaymentPaid),
			string(bookingDomain.ReceivedByTechnician),
		)
	}
	return q
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
// Creation-time fields (customer, service, address, date, subscription, amount) are never written here.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Only update if the stored version is the one this change was based on.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"technician_id":       model.TechnicianID,
			"status":              model.Status,
			"payment_status":      model.PaymentStatus,
			"payment_received_by": model.PaymentReceivedBy,
			"payment_received_at": model.PaymentReceivedAt,
			"image_before":        model.ImageBefore,
			"image_after":         model.ImageAfter,
			"rating":              model.Rating,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another request")
	}

	return nil
}

// CountByStatus returns booking counts grouped by lifecycle status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, "status")
}

// CountByPaymentStatus returns booking counts grouped by payment status (admin).
func (r *GormBookingRepository) CountByPaymentStatus(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, "payment_status")
}

func (r *GormBookingRepository) countBy(ctx context.Context, column string) (map[string]int64, error) {
	type groupCount struct {
		GroupKey string
		Count    int64
	}
	var results []groupCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select(column + " AS group_key, count(*) AS count").
		Group(column).
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by %s: %w", column, err)
	}

	counts := make(map[string]int64)
	for _, gc := range results {
		counts[gc.GroupKey] = gc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	payment := bk.Payment()
	images := bk.Images()

	var receivedBy *string
	if payment.ReceivedBy() != nil {
		s := string(*payment.ReceivedBy())
		receivedBy = &s
	}

	return &BookingModel{
		ID:                    bk.ID(),
		CustomerID:            bk.CustomerID(),
		TechnicianID:          bk.TechnicianID(),
		ServiceType:           string(bk.ServiceType()),
		Address:               bk.Address(),
		BookingDate:           bk.BookingDate(),
		IsSubscriptionBooking: bk.IsSubscriptionBooking(),
		AmountDue:             bk.AmountDue(),
		Currency:              bk.Currency(),
		Status:                string(bk.Status()),
		PaymentMethod:         string(payment.Method()),
		PaymentStatus:         string(payment.Status()),
		PaymentID:             payment.PaymentID(),
		PaymentReceivedBy:     receivedBy,
		PaymentReceivedAt:     payment.ReceivedAt(),
		ImageBefore:           images.Before,
		ImageAfter:            images.After,
		Rating:                bk.Rating(),
		Version:               bk.Version(),
		CreatedAt:             bk.CreatedAt(),
		UpdatedAt:             bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}
	method, err := bookingDomain.ParsePaymentMethod(m.PaymentMethod)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := bookingDomain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return nil, err
	}

	var receivedBy *bookingDomain.Receiver
	if m.PaymentReceivedBy != nil {
		rb, err := bookingDomain.ParseReceiver(*m.PaymentReceivedBy)
		if err != nil {
			return nil, err
		}
		receivedBy = &rb
	}

	payment := bookingDomain.ReconstructPayment(method, paymentStatus, m.PaymentID, receivedBy, m.PaymentReceivedAt)

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.CustomerID,
		m.TechnicianID,
		bookingDomain.ServiceType(m.ServiceType),
		m.Address,
		m.BookingDate,
		m.IsSubscriptionBooking,
		m.AmountDue,
		m.Currency,
		status,
		payment,
		bookingDomain.Images{Before: m.ImageBefore, After: m.ImageAfter},
		m.Rating,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
